package models

import (
	"strings"
	"time"

	"github.com/crystalbudget/backend/internal/allocation"
	"github.com/crystalbudget/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entry converts the income to the entry the allocation engine works with.
func (i Income) Entry() allocation.Income {
	category := allocation.Uncategorized
	if i.CategoryID != nil {
		category = *i.CategoryID
	}

	return allocation.Income{
		CategoryID: category,
		Amount:     i.Amount,
		Currency:   i.Currency,
	}
}

// Entries converts incomes to engine entries.
func Entries(incomes []Income) []allocation.Income {
	entries := make([]allocation.Income, 0, len(incomes))
	for _, i := range incomes {
		entries = append(entries, i.Entry())
	}
	return entries
}

// Incomes returns the incomes of the user received in [from, until).
// Zero times leave the interval open on that side.
func (u User) Incomes(db *gorm.DB, from, until time.Time) ([]Income, error) {
	q := db.Where(&Income{UserID: u.ID}).Order("date DESC, created_at DESC")

	if !from.IsZero() {
		q = q.Where("incomes.date >= ?", from.In(time.UTC))
	}

	if !until.IsZero() {
		q = q.Where("incomes.date < ?", until.In(time.UTC))
	}

	var incomes []Income
	err := q.Find(&incomes).Error
	if err != nil {
		return nil, err
	}

	return incomes, nil
}

// IncomeCategories returns all income categories of the user ordered by name.
func (u User) IncomeCategories(db *gorm.DB) ([]IncomeCategory, error) {
	var categories []IncomeCategory
	err := db.Where(&IncomeCategory{UserID: u.ID}).Order("name ASC").Find(&categories).Error
	return categories, err
}

// ExpenseCategories returns all expense categories of the user ordered by name.
func (u User) ExpenseCategories(db *gorm.DB) ([]ExpenseCategory, error) {
	var categories []ExpenseCategory
	err := db.Where(&ExpenseCategory{UserID: u.ID}).Order("name ASC").Find(&categories).Error
	return categories, err
}

// Allocations returns all allocations of the user.
func (u User) Allocations(db *gorm.DB) ([]Allocation, error) {
	var allocations []Allocation
	err := db.
		Select("allocations.*").
		Joins("JOIN expense_categories ON expense_categories.id = allocations.expense_category_id").
		Where("expense_categories.user_id = ?", u.ID).
		Order("allocations.created_at ASC, allocations.id ASC").
		Find(&allocations).Error
	return allocations, err
}

// CategorySummary is the allocation result for one expense category.
type CategorySummary struct {
	Category ExpenseCategory
	allocation.Allocation
}

// Summary is the allocation result for a user in one currency.
type Summary struct {
	Currency         string
	Period           types.Period
	TotalIncome      decimal.Decimal
	IncomeByCurrency map[string]decimal.Decimal
	Categories       []CategorySummary
	Allocated        decimal.Decimal
	AllocatedPercent decimal.Decimal
	Remainder        decimal.Decimal
}

// Summary computes the distribution of the user's income in the period.
//
// Only incomes in the currency feed the allocation, amounts are never converted.
// An empty currency selects the default currency of the user.
func (u User) Summary(db *gorm.DB, currency string, period types.Period, now time.Time) (Summary, error) {
	if currency == "" {
		currency = u.DefaultCurrency
	}
	currency = strings.ToUpper(currency)

	err := ValidateCurrency(currency)
	if err != nil {
		return Summary{}, err
	}

	from, until := period.Range(now)
	incomes, err := u.Incomes(db, from, until)
	if err != nil {
		return Summary{}, err
	}

	categories, err := u.ExpenseCategories(db)
	if err != nil {
		return Summary{}, err
	}

	allocations, err := u.Allocations(db)
	if err != nil {
		return Summary{}, err
	}

	ids := make([]uuid.UUID, 0, len(categories))
	byID := make(map[uuid.UUID]ExpenseCategory, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
		byID[c.ID] = c
	}

	rules := make([]allocation.Rule, 0, len(allocations))
	for _, a := range allocations {
		rules = append(rules, a.Rule())
	}

	entries := Entries(incomes)
	result := allocation.Compute(ids, rules, allocation.FilterCurrency(entries, currency))

	summary := Summary{
		Currency:         currency,
		Period:           period,
		TotalIncome:      result.TotalIncome,
		IncomeByCurrency: allocation.SumIncomeByCurrency(entries),
		Categories:       make([]CategorySummary, 0, len(result.Allocations)),
		Allocated:        result.Allocated,
		AllocatedPercent: result.AllocatedPercent,
		Remainder:        result.Remainder,
	}

	for _, a := range result.Allocations {
		summary.Categories = append(summary.Categories, CategorySummary{
			Category:   byID[a.ExpenseCategoryID],
			Allocation: a,
		})
	}

	return summary, nil
}
