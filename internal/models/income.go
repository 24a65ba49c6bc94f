package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Income is money received by the user.
type Income struct {
	DefaultModel
	User        User            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID      uuid.UUID       `gorm:"index"`
	Category    *IncomeCategory `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	CategoryID  *uuid.UUID      `gorm:"index"` // nil for uncategorized incomes
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Currency    string
	Description string
	Date        time.Time `gorm:"index"`
}

func (i Income) Self() string {
	return "Income"
}

func (i *Income) BeforeSave(tx *gorm.DB) error {
	i.Description = strings.TrimSpace(i.Description)
	i.Currency = strings.ToUpper(strings.TrimSpace(i.Currency))

	// Ensure that the Category ID is nil and not a pointer to a nil UUID
	if i.CategoryID != nil && *i.CategoryID == uuid.Nil {
		i.CategoryID = nil
	}

	if i.Date.IsZero() {
		i.Date = time.Now().In(time.UTC)
	} else {
		i.Date = i.Date.In(time.UTC)
	}

	// Default to the currency of the user
	if i.Currency == "" && i.UserID != uuid.Nil {
		var user User
		err := tx.First(&user, i.UserID).Error
		if err != nil {
			return err
		}
		i.Currency = user.DefaultCurrency
	}

	return nil
}

func (i *Income) AfterSave(tx *gorm.DB) error {
	if i.Amount.IsNegative() {
		return ErrIncomeAmountNegative
	}

	err := ValidateCurrency(i.Currency)
	if err != nil {
		return err
	}

	if i.CategoryID == nil {
		return nil
	}

	owner, err := ownedBy[IncomeCategory](tx, *i.CategoryID)
	if err != nil {
		return err
	}

	if owner != i.UserID {
		return ErrIncomeCategoryUserMismatch
	}

	return nil
}
