package v1

import (
	"fmt"

	"github.com/crystalbudget/backend/internal/allocation"
	"github.com/crystalbudget/backend/internal/models"
	ez_uuid "github.com/crystalbudget/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationEditable represents all user configurable parameters
type AllocationEditable struct {
	ExpenseCategoryID uuid.UUID           `json:"expenseCategoryId" example:"0d1fd1a5-e4c8-4e5a-a0cd-1d5b4a4d1e0f"` // ID of the expense category receiving the allocation
	IncomeCategoryID  uuid.UUID           `json:"incomeCategoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`  // ID of the income category the allocation is taken from
	Type              allocation.RuleType `json:"type" example:"percentage" enums:"percentage,fixed"`               // How the value is applied to the income of the income category
	Value             decimal.Decimal     `json:"value" example:"15" swaggertype:"string"`                          // Percentage of the income, or the fixed amount
}

func (editable AllocationEditable) model() models.Allocation {
	return models.Allocation{
		ExpenseCategoryID: editable.ExpenseCategoryID,
		IncomeCategoryID:  editable.IncomeCategoryID,
		Type:              editable.Type,
		Value:             editable.Value,
	}
}

// AllocationRule is one rule in a bulk replacement of the allocations
// of an expense category
type AllocationRule struct {
	IncomeCategoryID uuid.UUID           `json:"incomeCategoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the income category the allocation is taken from
	Type             allocation.RuleType `json:"type" example:"fixed" enums:"percentage,fixed"`                   // How the value is applied to the income of the income category
	Value            decimal.Decimal     `json:"value" example:"300" swaggertype:"string"`                        // Percentage of the income, or the fixed amount
}

func (r AllocationRule) spec() models.AllocationSpec {
	return models.AllocationSpec{
		IncomeCategoryID: r.IncomeCategoryID,
		Type:             r.Type,
		Value:            r.Value,
	}
}

type AllocationLinks struct {
	Self            string `json:"self" example:"https://example.com/api/v1/allocations/902cd93c-3724-4e46-8540-d014131282fc"`                   // The allocation itself
	ExpenseCategory string `json:"expenseCategory" example:"https://example.com/api/v1/expense-categories/0d1fd1a5-e4c8-4e5a-a0cd-1d5b4a4d1e0f"` // The expense category receiving the allocation
	IncomeCategory  string `json:"incomeCategory" example:"https://example.com/api/v1/income-categories/3b1ea324-d438-4419-882a-2fc91d71772f"`   // The income category the allocation is taken from
}

type Allocation struct {
	models.DefaultModel
	AllocationEditable
	Links AllocationLinks `json:"links"`
}

func newAllocation(c *gin.Context, model models.Allocation) Allocation {
	url := c.GetString(string(models.DBContextURL))

	return Allocation{
		DefaultModel: model.DefaultModel,
		AllocationEditable: AllocationEditable{
			ExpenseCategoryID: model.ExpenseCategoryID,
			IncomeCategoryID:  model.IncomeCategoryID,
			Type:              model.Type,
			Value:             model.Value,
		},
		Links: AllocationLinks{
			Self:            fmt.Sprintf("%s/v1/allocations/%s", url, model.ID),
			ExpenseCategory: fmt.Sprintf("%s/v1/expense-categories/%s", url, model.ExpenseCategoryID),
			IncomeCategory:  fmt.Sprintf("%s/v1/income-categories/%s", url, model.IncomeCategoryID),
		},
	}
}

type AllocationListResponse struct {
	Data       []Allocation `json:"data"`                                                          // List of allocations
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination,omitempty"`                                          // Pagination information
}

type AllocationCreateResponse struct {
	Data  []AllocationResponse `json:"data"`                                                          // List of the created allocations or their respective error
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (a *AllocationCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AllocationResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AllocationResponse struct {
	Data  *Allocation `json:"data"`                                                          // Data for the allocation
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AllocationQueryFilter struct {
	UserID            ez_uuid.UUID        `form:"user" filterField:"false"`   // By ID of the user owning the categories
	ExpenseCategoryID ez_uuid.UUID        `form:"expenseCategory"`            // By ID of the expense category
	IncomeCategoryID  ez_uuid.UUID        `form:"incomeCategory"`             // By ID of the income category
	Type              allocation.RuleType `form:"type"`                       // By type
	Offset            uint                `form:"offset" filterField:"false"` // The offset of the first allocation returned. Defaults to 0.
	Limit             int                 `form:"limit" filterField:"false"`  // Maximum number of allocations to return. Defaults to 50.
}

func (f AllocationQueryFilter) model() models.Allocation {
	return models.Allocation{
		ExpenseCategoryID: f.ExpenseCategoryID.UUID,
		IncomeCategoryID:  f.IncomeCategoryID.UUID,
		Type:              f.Type,
	}
}
