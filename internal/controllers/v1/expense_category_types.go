package v1

import (
	"fmt"

	"github.com/crystalbudget/backend/internal/models"
	ez_uuid "github.com/crystalbudget/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseCategoryEditable represents all user configurable parameters
type ExpenseCategoryEditable struct {
	UserID uuid.UUID `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the user the category belongs to
	Name   string    `json:"name" example:"Rent" default:""`                        // Name of the category
	Icon   string    `json:"icon" example:"home" default:""`                        // Icon of the category
	Color  string    `json:"color" example:"#EF4444" default:""`                    // Color of the category
}

func (editable ExpenseCategoryEditable) model() models.ExpenseCategory {
	return models.ExpenseCategory{
		UserID: editable.UserID,
		Name:   editable.Name,
		Icon:   editable.Icon,
		Color:  editable.Color,
	}
}

type ExpenseCategoryLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/expense-categories/0d1fd1a5-e4c8-4e5a-a0cd-1d5b4a4d1e0f"`                    // The expense category itself
	Allocations string `json:"allocations" example:"https://example.com/api/v1/expense-categories/0d1fd1a5-e4c8-4e5a-a0cd-1d5b4a4d1e0f/allocations"` // Allocation rules of this category, can be replaced with PUT
}

type ExpenseCategory struct {
	models.DefaultModel
	ExpenseCategoryEditable
	Links ExpenseCategoryLinks `json:"links"`

	// These fields are computed
	Allocations []Allocation `json:"allocations"` // Allocation rules for the category
}

func newExpenseCategory(c *gin.Context, db *gorm.DB, model models.ExpenseCategory) (ExpenseCategory, error) {
	url := c.GetString(string(models.DBContextURL))

	category := ExpenseCategory{
		DefaultModel: model.DefaultModel,
		ExpenseCategoryEditable: ExpenseCategoryEditable{
			UserID: model.UserID,
			Name:   model.Name,
			Icon:   model.Icon,
			Color:  model.Color,
		},
		Links: ExpenseCategoryLinks{
			Self:        fmt.Sprintf("%s/v1/expense-categories/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/expense-categories/%s/allocations", url, model.ID),
		},
		Allocations: make([]Allocation, 0),
	}

	allocations, err := model.Allocations(db)
	if err != nil {
		return ExpenseCategory{}, err
	}

	for _, a := range allocations {
		category.Allocations = append(category.Allocations, newAllocation(c, a))
	}

	return category, nil
}

type ExpenseCategoryListResponse struct {
	Data       []ExpenseCategory `json:"data"`                                                          // List of expense categories
	Error      *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination       `json:"pagination"`                                                    // Pagination information
}

type ExpenseCategoryCreateResponse struct {
	Data  []ExpenseCategoryResponse `json:"data"`                                                          // List of the created expense categories or their respective error
	Error *string                   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (e *ExpenseCategoryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, ExpenseCategoryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ExpenseCategoryResponse struct {
	Data  *ExpenseCategory `json:"data"`                                                          // Data for the expense category
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ExpenseCategoryQueryFilter struct {
	UserID ez_uuid.UUID `form:"user"`                       // By ID of the user
	Name   string       `form:"name" filterField:"false"`   // By name
	Search string       `form:"search" filterField:"false"` // By string in name
	Offset uint         `form:"offset" filterField:"false"` // The offset of the first expense category returned. Defaults to 0.
	Limit  int          `form:"limit" filterField:"false"`  // Maximum number of expense categories to return. Defaults to 50.
}

func (f ExpenseCategoryQueryFilter) model() models.ExpenseCategory {
	return models.ExpenseCategory{
		UserID: f.UserID.UUID,
	}
}
