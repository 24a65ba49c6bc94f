package v1

import (
	"fmt"
	"time"

	"github.com/crystalbudget/backend/internal/models"
	"github.com/crystalbudget/backend/internal/types"
	ez_uuid "github.com/crystalbudget/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// uncategorized is the category filter value that selects incomes without a category
const uncategorized = "uncategorized"

// IncomeEditable represents all user configurable parameters
type IncomeEditable struct {
	UserID      uuid.UUID       `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                                                           // ID of the user who received the income
	CategoryID  *uuid.UUID      `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`                                                       // ID of the income category, null for uncategorized incomes
	Amount      decimal.Decimal `json:"amount" example:"85000" minimum:"0" maximum:"999999999999.99999999" multipleOf:"0.00000001" swaggertype:"string"` // The amount received
	Currency    string          `json:"currency" example:"RUB" default:""`                                                                               // ISO 4217 code. Defaults to the default currency of the user
	Description string          `json:"description" example:"March salary" default:""`                                                                   // A description of the income
	Date        time.Time       `json:"date" example:"2024-03-05T09:00:00Z"`                                                                             // Date the income was received. Defaults to now
}

func (editable IncomeEditable) model() models.Income {
	return models.Income{
		UserID:      editable.UserID,
		CategoryID:  editable.CategoryID,
		Amount:      editable.Amount,
		Currency:    editable.Currency,
		Description: editable.Description,
		Date:        editable.Date,
	}
}

type IncomeLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/incomes/6c5ff5ef-0a49-4e0e-9d8e-5c8c8e1f4a1c"` // The income itself
}

type Income struct {
	models.DefaultModel
	IncomeEditable
	Links IncomeLinks `json:"links"`
}

func newIncome(c *gin.Context, model models.Income) Income {
	url := c.GetString(string(models.DBContextURL))

	return Income{
		DefaultModel: model.DefaultModel,
		IncomeEditable: IncomeEditable{
			UserID:      model.UserID,
			CategoryID:  model.CategoryID,
			Amount:      model.Amount,
			Currency:    model.Currency,
			Description: model.Description,
			Date:        model.Date,
		},
		Links: IncomeLinks{
			Self: fmt.Sprintf("%s/v1/incomes/%s", url, model.ID),
		},
	}
}

type IncomeListResponse struct {
	Data       []Income                   `json:"data"`                                                           // List of incomes
	Totals     map[string]decimal.Decimal `json:"totals" swaggertype:"object,string" example:"RUB:127500,USD:20"` // Sum of the amounts of the returned incomes per currency
	Error      *string                    `json:"error" example:"the specified resource ID is not a valid UUID"`  // The error, if any occurred
	Pagination *Pagination                `json:"pagination"`                                                     // Pagination information
}

type IncomeCreateResponse struct {
	Data  []IncomeResponse `json:"data"`                                                          // List of the created incomes or their respective error
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (i *IncomeCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	i.Data = append(i.Data, IncomeResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type IncomeResponse struct {
	Data  *Income `json:"data"`                                                          // Data for the income
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type IncomeQueryFilter struct {
	UserID            ez_uuid.UUID    `form:"user"`                                  // By ID of the user
	Category          string          `form:"category" filterField:"false"`          // By ID of the income category, "uncategorized" for incomes without one
	Currency          string          `form:"currency" filterField:"false"`          // By currency
	FromDate          time.Time       `form:"fromDate" filterField:"false"`          // From this date. Time is ignored.
	UntilDate         time.Time       `form:"untilDate" filterField:"false"`         // Until this date. Time is ignored.
	Period            string          `form:"period" filterField:"false"`            // By period relative to the current month
	AmountLessOrEqual decimal.Decimal `form:"amountLessOrEqual" filterField:"false"` // Amount less than or equal to this
	AmountMoreOrEqual decimal.Decimal `form:"amountMoreOrEqual" filterField:"false"` // Amount more than or equal to this
	Search            string          `form:"search" filterField:"false"`            // By string in description
	Offset            uint            `form:"offset" filterField:"false"`            // The offset of the first income returned. Defaults to 0.
	Limit             int             `form:"limit" filterField:"false"`             // Maximum number of incomes to return. Defaults to 50.
}

func (f IncomeQueryFilter) model() models.Income {
	return models.Income{
		UserID: f.UserID.UUID,
	}
}

// categoryID parses the category filter.
//
// It returns nil for the uncategorized filter value.
func (f IncomeQueryFilter) categoryID() (*uuid.UUID, error) {
	if f.Category == uncategorized {
		return nil, nil
	}

	var id ez_uuid.UUID
	err := id.UnmarshalParam(f.Category)
	if err != nil {
		return nil, err
	}

	return &id.UUID, nil
}

// period parses the period filter
func (f IncomeQueryFilter) period() (types.Period, error) {
	return types.ParsePeriod(f.Period)
}
