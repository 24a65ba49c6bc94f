package models

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// DefaultCurrency is used for users and incomes that do not specify a currency.
var DefaultCurrency = "RUB"

// User is the owner of all categories, incomes and allocations.
//
// A user is the highest level of organization, all other resources
// reference it directly or transitively.
type User struct {
	DefaultModel
	Name                string
	Email               string
	DefaultCurrency     string
	OnboardingCompleted bool
	TutorialCompleted   bool
	TelegramID          *int64 `gorm:"uniqueIndex"`
	TelegramUsername    string
	TelegramLinkCode    *string `gorm:"uniqueIndex"`
	TelegramLinkedAt    *time.Time
}

func (u User) Self() string {
	return "User"
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	u.TelegramUsername = strings.TrimSpace(u.TelegramUsername)

	if u.DefaultCurrency == "" {
		u.DefaultCurrency = DefaultCurrency
	}
	u.DefaultCurrency = strings.ToUpper(strings.TrimSpace(u.DefaultCurrency))

	return nil
}

func (u *User) AfterSave(_ *gorm.DB) error {
	return ValidateCurrency(u.DefaultCurrency)
}

// ValidateCurrency checks that the code is a known ISO 4217 currency.
func ValidateCurrency(code string) error {
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("%w: %s", ErrCurrencyInvalid, code)
	}
	return nil
}

// NewLinkCode generates a fresh code that links a telegram account to the user
// and stores it.
func (u *User) NewLinkCode(db *gorm.DB) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("could not generate link code: %w", err)
	}
	code := strings.ToUpper(hex.EncodeToString(b))

	err := db.Model(u).Update("telegram_link_code", code).Error
	if err != nil {
		return "", err
	}

	u.TelegramLinkCode = &code
	return code, nil
}

// LinkTelegram links the telegram account to the user holding the link code.
//
// The code is single use and is cleared when the account is linked.
func LinkTelegram(db *gorm.DB, code string, telegramID int64, username string) (User, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return User{}, ErrLinkCodeInvalid
	}

	var user User
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where(&User{TelegramLinkCode: &code}).First(&user).Error
		if err != nil {
			return ErrLinkCodeInvalid
		}

		// Unlink the account from any other user first
		err = tx.Model(&User{}).
			Where("telegram_id = ? AND id != ?", telegramID, user.ID).
			Updates(map[string]any{"telegram_id": nil, "telegram_linked_at": nil}).Error
		if err != nil {
			return err
		}

		now := time.Now().In(time.UTC)
		user.TelegramID = &telegramID
		user.TelegramUsername = username
		user.TelegramLinkCode = nil
		user.TelegramLinkedAt = &now

		return tx.Model(&user).Select("TelegramID", "TelegramUsername", "TelegramLinkCode", "TelegramLinkedAt").Updates(&user).Error
	})
	if err != nil {
		return User{}, err
	}

	return user, nil
}

// UserByTelegramID returns the user linked to the telegram account.
func UserByTelegramID(db *gorm.DB, telegramID int64) (User, error) {
	var user User
	err := db.Where(&User{TelegramID: &telegramID}).First(&user).Error
	return user, err
}

// TelegramLogin returns the user linked to the telegram account, creating
// one if there is none yet.
func TelegramLogin(db *gorm.DB, telegramID int64, name, username string) (User, bool, error) {
	user, err := UserByTelegramID(db, telegramID)
	if err == nil {
		return user, false, nil
	}

	if !isNotFound(err) {
		return User{}, false, err
	}

	now := time.Now().In(time.UTC)
	user = User{
		Name:             name,
		Email:            fmt.Sprintf("telegram_%d@telegram.local", telegramID),
		TelegramID:       &telegramID,
		TelegramUsername: username,
		TelegramLinkedAt: &now,
	}

	err = db.Create(&user).Error
	if err != nil {
		return User{}, false, err
	}

	return user, true, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// ownedBy loads the resource with the ID and returns the ID of the user owning it.
func ownedBy[T IncomeCategory | ExpenseCategory](db *gorm.DB, id uuid.UUID) (uuid.UUID, error) {
	var resource T
	err := db.First(&resource, id).Error
	if err != nil {
		return uuid.Nil, err
	}

	switch r := any(resource).(type) {
	case IncomeCategory:
		return r.UserID, nil
	case ExpenseCategory:
		return r.UserID, nil
	}

	return uuid.Nil, nil
}
