package v1

import (
	"fmt"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// stringFilters adds LIKE filters on the name and a search over the search columns.
//
// An empty name parameter that is set explicitly filters for an empty name.
func stringFilters(db, query *gorm.DB, setFields []string, name, search string, searchColumns ...string) *gorm.DB {
	if name != "" {
		query = query.Where("name LIKE ?", fmt.Sprintf("%%%s%%", name))
	} else if slices.Contains(setFields, "Name") {
		query = query.Where("name = ''")
	}

	if search != "" && len(searchColumns) > 0 {
		cond := db.Where(fmt.Sprintf("%s LIKE ?", searchColumns[0]), fmt.Sprintf("%%%s%%", search))
		for _, column := range searchColumns[1:] {
			cond = cond.Or(fmt.Sprintf("%s LIKE ?", column), fmt.Sprintf("%%%s%%", search))
		}
		query = query.Where(cond)
	}

	return query
}

// paginate applies offset and limit to the query and returns the effective limit.
func paginate(query *gorm.DB, setFields []string, offset uint, limit int) (*gorm.DB, int) {
	query = query.Offset(int(offset))

	l := defaultLimit
	if slices.Contains(setFields, "Limit") {
		l = limit
	}

	return query.Limit(l), l
}

// withoutOwner removes the owning user from the fields to update.
// Categories and incomes cannot be moved between users.
func withoutOwner(fields []any) []any {
	return slices.DeleteFunc(fields, func(f any) bool {
		return f == "UserID"
	})
}
