package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IncomeCategory groups incomes by their source, e.g. "Salary".
type IncomeCategory struct {
	DefaultModel
	User   User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID uuid.UUID `gorm:"uniqueIndex:income_category_user_name"`
	Name   string    `gorm:"uniqueIndex:income_category_user_name"`
	Icon   string
	Color  string
}

func (c IncomeCategory) Self() string {
	return "Income Category"
}

func (c *IncomeCategory) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Icon = strings.TrimSpace(c.Icon)
	c.Color = strings.TrimSpace(c.Color)
	return nil
}

// ExpenseCategory receives allocations from income categories, e.g. "Rent".
type ExpenseCategory struct {
	DefaultModel
	User   User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID uuid.UUID `gorm:"uniqueIndex:expense_category_user_name"`
	Name   string    `gorm:"uniqueIndex:expense_category_user_name"`
	Icon   string
	Color  string
}

func (c ExpenseCategory) Self() string {
	return "Expense Category"
}

func (c *ExpenseCategory) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Icon = strings.TrimSpace(c.Icon)
	c.Color = strings.TrimSpace(c.Color)
	return nil
}

// Allocations returns all allocation rules that distribute income to the category.
func (c ExpenseCategory) Allocations(db *gorm.DB) ([]Allocation, error) {
	var allocations []Allocation
	err := db.
		Where(&Allocation{ExpenseCategoryID: c.ID}).
		Order("created_at ASC, id ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	return allocations, nil
}
