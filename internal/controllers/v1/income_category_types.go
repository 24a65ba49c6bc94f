package v1

import (
	"fmt"

	"github.com/crystalbudget/backend/internal/models"
	ez_uuid "github.com/crystalbudget/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IncomeCategoryEditable represents all user configurable parameters
type IncomeCategoryEditable struct {
	UserID uuid.UUID `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the user the category belongs to
	Name   string    `json:"name" example:"Salary" default:""`                      // Name of the category
	Icon   string    `json:"icon" example:"briefcase" default:""`                   // Icon of the category
	Color  string    `json:"color" example:"#10B981" default:""`                    // Color of the category
}

func (editable IncomeCategoryEditable) model() models.IncomeCategory {
	return models.IncomeCategory{
		UserID: editable.UserID,
		Name:   editable.Name,
		Icon:   editable.Icon,
		Color:  editable.Color,
	}
}

type IncomeCategoryLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/income-categories/3b1ea324-d438-4419-882a-2fc91d71772f"`                 // The income category itself
	Incomes     string `json:"incomes" example:"https://example.com/api/v1/incomes?category=3b1ea324-d438-4419-882a-2fc91d71772f"`               // Incomes of this category
	Allocations string `json:"allocations" example:"https://example.com/api/v1/allocations?incomeCategory=3b1ea324-d438-4419-882a-2fc91d71772f"` // Allocations from this category
}

type IncomeCategory struct {
	models.DefaultModel
	IncomeCategoryEditable
	Links IncomeCategoryLinks `json:"links"`
}

func newIncomeCategory(c *gin.Context, model models.IncomeCategory) IncomeCategory {
	url := c.GetString(string(models.DBContextURL))

	return IncomeCategory{
		DefaultModel: model.DefaultModel,
		IncomeCategoryEditable: IncomeCategoryEditable{
			UserID: model.UserID,
			Name:   model.Name,
			Icon:   model.Icon,
			Color:  model.Color,
		},
		Links: IncomeCategoryLinks{
			Self:        fmt.Sprintf("%s/v1/income-categories/%s", url, model.ID),
			Incomes:     fmt.Sprintf("%s/v1/incomes?category=%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations?incomeCategory=%s", url, model.ID),
		},
	}
}

type IncomeCategoryListResponse struct {
	Data       []IncomeCategory `json:"data"`                                                          // List of income categories
	Error      *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination      `json:"pagination"`                                                    // Pagination information
}

type IncomeCategoryCreateResponse struct {
	Data  []IncomeCategoryResponse `json:"data"`                                                          // List of the created income categories or their respective error
	Error *string                  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (i *IncomeCategoryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	i.Data = append(i.Data, IncomeCategoryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type IncomeCategoryResponse struct {
	Data  *IncomeCategory `json:"data"`                                                          // Data for the income category
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type IncomeCategoryQueryFilter struct {
	UserID ez_uuid.UUID `form:"user"`                       // By ID of the user
	Name   string       `form:"name" filterField:"false"`   // By name
	Search string       `form:"search" filterField:"false"` // By string in name
	Offset uint         `form:"offset" filterField:"false"` // The offset of the first income category returned. Defaults to 0.
	Limit  int          `form:"limit" filterField:"false"`  // Maximum number of income categories to return. Defaults to 50.
}

func (f IncomeCategoryQueryFilter) model() models.IncomeCategory {
	return models.IncomeCategory{
		UserID: f.UserID.UUID,
	}
}
