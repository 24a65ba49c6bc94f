package v1

import (
	"net/http"

	"github.com/crystalbudget/backend/internal/httputil"
	"github.com/crystalbudget/backend/internal/models"
	"github.com/gin-gonic/gin"
)

func RegisterRootRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.DELETE("", Cleanup)
	r.OPTIONS("", Options)
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Users             string `json:"users" example:"https://example.com/api/v1/users"`                          // URL of User collection endpoint
	IncomeCategories  string `json:"incomeCategories" example:"https://example.com/api/v1/income-categories"`   // URL of Income Category collection endpoint
	ExpenseCategories string `json:"expenseCategories" example:"https://example.com/api/v1/expense-categories"` // URL of Expense Category collection endpoint
	Incomes           string `json:"incomes" example:"https://example.com/api/v1/incomes"`                      // URL of Income collection endpoint
	Allocations       string `json:"allocations" example:"https://example.com/api/v1/allocations"`              // URL of Allocation collection endpoint
	Templates         string `json:"templates" example:"https://example.com/api/v1/templates"`                  // URL of the category template list
	TelegramAuth      string `json:"telegramAuth" example:"https://example.com/api/v1/auth/telegram"`           // URL of the telegram login endpoint
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Users:             url + "/v1/users",
			IncomeCategories:  url + "/v1/income-categories",
			ExpenseCategories: url + "/v1/expense-categories",
			Incomes:           url + "/v1/incomes",
			Allocations:       url + "/v1/allocations",
			Templates:         url + "/v1/templates",
			TelegramAuth:      url + "/v1/auth/telegram",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}
