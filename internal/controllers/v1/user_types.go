package v1

import (
	"fmt"
	"time"

	"github.com/crystalbudget/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// UserEditable represents all user configurable parameters
type UserEditable struct {
	Name                string `json:"name" example:"Anna" default:""`                     // Name of the user
	Email               string `json:"email" example:"anna@example.com" default:""`        // Email address of the user
	DefaultCurrency     string `json:"defaultCurrency" example:"RUB" default:"RUB"`        // ISO 4217 code of the currency summaries are computed in
	OnboardingCompleted bool   `json:"onboardingCompleted" example:"true" default:"false"` // Has the user completed the onboarding?
	TutorialCompleted   bool   `json:"tutorialCompleted" example:"false" default:"false"`  // Has the user completed the tutorial?
}

func (editable UserEditable) model() models.User {
	return models.User{
		Name:                editable.Name,
		Email:               editable.Email,
		DefaultCurrency:     editable.DefaultCurrency,
		OnboardingCompleted: editable.OnboardingCompleted,
		TutorialCompleted:   editable.TutorialCompleted,
	}
}

type UserLinks struct {
	Self              string `json:"self" example:"https://example.com/api/v1/users/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                                // The user itself
	Incomes           string `json:"incomes" example:"https://example.com/api/v1/incomes?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                      // Incomes of the user
	IncomeCategories  string `json:"incomeCategories" example:"https://example.com/api/v1/income-categories?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`   // Income categories of the user
	ExpenseCategories string `json:"expenseCategories" example:"https://example.com/api/v1/expense-categories?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // Expense categories of the user
	Allocations       string `json:"allocations" example:"https://example.com/api/v1/allocations?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`              // Allocations of the user
	Summary           string `json:"summary" example:"https://example.com/api/v1/users/550dc009-cea6-4c12-b2a5-03446eb7b7cf/summary"`                     // Income distribution of the user
	TelegramLinkCode  string `json:"telegramLinkCode" example:"https://example.com/api/v1/users/550dc009-cea6-4c12-b2a5-03446eb7b7cf/telegram-link-code"` // Creates a code to link a telegram account
	Template          string `json:"template" example:"https://example.com/api/v1/users/550dc009-cea6-4c12-b2a5-03446eb7b7cf/template"`                   // Applies a category template
}

type User struct {
	models.DefaultModel
	UserEditable
	Links UserLinks `json:"links"`

	TelegramID       *int64     `json:"telegramId" example:"123456789"`                  // ID of the linked telegram account
	TelegramUsername string     `json:"telegramUsername" example:"anna"`                 // Username of the linked telegram account
	TelegramLinkedAt *time.Time `json:"telegramLinkedAt" example:"2024-03-01T12:00:00Z"` // Time the telegram account was linked
}

func newUser(c *gin.Context, model models.User) User {
	url := c.GetString(string(models.DBContextURL))

	return User{
		DefaultModel: model.DefaultModel,
		UserEditable: UserEditable{
			Name:                model.Name,
			Email:               model.Email,
			DefaultCurrency:     model.DefaultCurrency,
			OnboardingCompleted: model.OnboardingCompleted,
			TutorialCompleted:   model.TutorialCompleted,
		},
		TelegramID:       model.TelegramID,
		TelegramUsername: model.TelegramUsername,
		TelegramLinkedAt: model.TelegramLinkedAt,
		Links: UserLinks{
			Self:              fmt.Sprintf("%s/v1/users/%s", url, model.ID),
			Incomes:           fmt.Sprintf("%s/v1/incomes?user=%s", url, model.ID),
			IncomeCategories:  fmt.Sprintf("%s/v1/income-categories?user=%s", url, model.ID),
			ExpenseCategories: fmt.Sprintf("%s/v1/expense-categories?user=%s", url, model.ID),
			Allocations:       fmt.Sprintf("%s/v1/allocations?user=%s", url, model.ID),
			Summary:           fmt.Sprintf("%s/v1/users/%s/summary", url, model.ID),
			TelegramLinkCode:  fmt.Sprintf("%s/v1/users/%s/telegram-link-code", url, model.ID),
			Template:          fmt.Sprintf("%s/v1/users/%s/template", url, model.ID),
		},
	}
}

type UserListResponse struct {
	Data       []User      `json:"data"`                                                          // List of users
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type UserCreateResponse struct {
	Data  []UserResponse `json:"data"`                                                          // List of the created users or their respective error
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (u *UserCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	u.Data = append(u.Data, UserResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type UserResponse struct {
	Data  *User   `json:"data"`                                                          // Data for the user
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type UserQueryFilter struct {
	Name       string `form:"name" filterField:"false"`       // By name
	Email      string `form:"email"`                          // By email address
	TelegramID int64  `form:"telegramId" filterField:"false"` // By ID of the linked telegram account
	Search     string `form:"search" filterField:"false"`     // By string in name or email
	Offset     uint   `form:"offset" filterField:"false"`     // The offset of the first user returned. Defaults to 0.
	Limit      int    `form:"limit" filterField:"false"`      // Maximum number of users to return. Defaults to 50.
}

func (f UserQueryFilter) model() models.User {
	return models.User{
		Email: f.Email,
	}
}

type LinkCode struct {
	Code string `json:"code" example:"9F86D081"` // One-time code to send to the bot with /start
}

type LinkCodeResponse struct {
	Data  *LinkCode `json:"data"`                                                          // The link code
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TemplateRequest struct {
	Template string `json:"template" example:"basic"` // ID of the template to apply
}
