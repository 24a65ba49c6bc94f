package models

import (
	"fmt"

	"github.com/crystalbudget/backend/internal/allocation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Allocation is a rule that routes a part of an income category to an expense category.
type Allocation struct {
	DefaultModel
	ExpenseCategory   ExpenseCategory     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ExpenseCategoryID uuid.UUID           `gorm:"index"`
	IncomeCategory    IncomeCategory      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	IncomeCategoryID  uuid.UUID           `gorm:"index"`
	Type              allocation.RuleType `gorm:"type:TEXT"`
	Value             decimal.Decimal     `gorm:"type:DECIMAL(20,8)"`
}

func (a Allocation) Self() string {
	return "Allocation"
}

// Rule converts the allocation to the rule the allocation engine works with.
func (a Allocation) Rule() allocation.Rule {
	return allocation.Rule{
		ID:                a.ID,
		ExpenseCategoryID: a.ExpenseCategoryID,
		IncomeCategoryID:  a.IncomeCategoryID,
		Type:              a.Type,
		Value:             a.Value,
	}
}

func (a *Allocation) AfterSave(tx *gorm.DB) error {
	if !a.Type.Valid() {
		return ErrAllocationTypeInvalid
	}

	if a.Value.IsNegative() {
		return ErrAllocationValueNegative
	}

	expenseOwner, err := ownedBy[ExpenseCategory](tx, a.ExpenseCategoryID)
	if err != nil {
		return err
	}

	incomeOwner, err := ownedBy[IncomeCategory](tx, a.IncomeCategoryID)
	if err != nil {
		return err
	}

	if expenseOwner != incomeOwner {
		return ErrAllocationUserMismatch
	}

	return nil
}

// AllocationSpec is one rule for ReplaceAllocations.
type AllocationSpec struct {
	IncomeCategoryID uuid.UUID
	Type             allocation.RuleType
	Value            decimal.Decimal
}

// ReplaceAllocations makes the specs the complete set of allocations for the
// expense category.
//
// All existing allocations for the category are deleted and the new ones are
// created in a single transaction. If any of the steps fails, nothing is changed.
// An empty list of specs removes all allocations.
func ReplaceAllocations(db *gorm.DB, expenseCategoryID uuid.UUID, specs []AllocationSpec) ([]Allocation, error) {
	var category ExpenseCategory
	err := db.First(&category, expenseCategoryID).Error
	if err != nil {
		return nil, err
	}

	allocations := make([]Allocation, 0, len(specs))
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where(&Allocation{ExpenseCategoryID: expenseCategoryID}).Delete(&Allocation{}).Error
		if err != nil {
			return fmt.Errorf("could not delete existing allocations: %w", err)
		}

		for _, spec := range specs {
			a := Allocation{
				ExpenseCategoryID: expenseCategoryID,
				IncomeCategoryID:  spec.IncomeCategoryID,
				Type:              spec.Type,
				Value:             spec.Value,
			}

			err = tx.Create(&a).Error
			if err != nil {
				return err
			}
			allocations = append(allocations, a)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return allocations, nil
}
