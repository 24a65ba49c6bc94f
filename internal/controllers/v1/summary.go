package v1

import (
	"net/http"
	"time"

	"github.com/crystalbudget/backend/internal/allocation"
	"github.com/crystalbudget/backend/internal/httputil"
	"github.com/crystalbudget/backend/internal/models"
	"github.com/crystalbudget/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Contribution struct {
	AllocationID     uuid.UUID           `json:"allocationId" example:"902cd93c-3724-4e46-8540-d014131282fc"`     // ID of the allocation rule
	IncomeCategoryID uuid.UUID           `json:"incomeCategoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the income category the amount is taken from
	Type             allocation.RuleType `json:"type" example:"percentage" enums:"percentage,fixed"`              // Type of the rule
	Value            decimal.Decimal     `json:"value" example:"10" swaggertype:"string"`                         // Value of the rule
	Amount           decimal.Decimal     `json:"amount" example:"100" swaggertype:"string"`                       // Amount the rule contributes
}

type CategorySummary struct {
	ExpenseCategoryID uuid.UUID       `json:"expenseCategoryId" example:"0d1fd1a5-e4c8-4e5a-a0cd-1d5b4a4d1e0f"` // ID of the expense category
	Name              string          `json:"name" example:"Food"`                                              // Name of the expense category
	Icon              string          `json:"icon" example:"shopping-cart"`                                     // Icon of the expense category
	Color             string          `json:"color" example:"#F59E0B"`                                          // Color of the expense category
	Allocated         decimal.Decimal `json:"allocated" example:"100" swaggertype:"string"`                     // Amount allocated to the category
	Percent           decimal.Decimal `json:"percent" example:"6.67" swaggertype:"string"`                      // Share of the total income, from 0 to 100 and above for over-allocation
	Contributions     []Contribution  `json:"contributions"`                                                    // Amounts contributed by each allocation rule
}

type Summary struct {
	UserID           uuid.UUID                  `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the user
	Currency         string                     `json:"currency" example:"RUB"`                                // Currency of all amounts
	Period           types.Period               `json:"period" example:"all" enums:"all,current,last,last3"`   // Period the incomes were received in
	TotalIncome      decimal.Decimal            `json:"totalIncome" example:"1500" swaggertype:"string"`       // Sum of all incomes in the currency
	IncomeByCurrency map[string]decimal.Decimal `json:"incomeByCurrency" swaggertype:"object,string"`          // Sum of incomes for every currency, not converted
	Categories       []CategorySummary          `json:"categories"`                                            // Allocation for every expense category
	Allocated        decimal.Decimal            `json:"allocated" example:"400" swaggertype:"string"`          // Sum allocated to all categories
	AllocatedPercent decimal.Decimal            `json:"allocatedPercent" example:"26.67" swaggertype:"string"` // Share of the total income that is allocated
	Remainder        decimal.Decimal            `json:"remainder" example:"1100" swaggertype:"string"`         // Income not allocated to any category. Negative if over-allocated
}

func newSummary(userID uuid.UUID, model models.Summary) Summary {
	s := Summary{
		UserID:           userID,
		Currency:         model.Currency,
		Period:           model.Period,
		TotalIncome:      model.TotalIncome,
		IncomeByCurrency: model.IncomeByCurrency,
		Categories:       make([]CategorySummary, 0, len(model.Categories)),
		Allocated:        model.Allocated,
		AllocatedPercent: model.AllocatedPercent,
		Remainder:        model.Remainder,
	}

	for _, c := range model.Categories {
		category := CategorySummary{
			ExpenseCategoryID: c.ExpenseCategoryID,
			Name:              c.Category.Name,
			Icon:              c.Category.Icon,
			Color:             c.Category.Color,
			Allocated:         c.Amount,
			Percent:           c.Percent,
			Contributions:     make([]Contribution, 0, len(c.Contributions)),
		}

		for _, contribution := range c.Contributions {
			category.Contributions = append(category.Contributions, Contribution{
				AllocationID:     contribution.Rule.ID,
				IncomeCategoryID: contribution.Rule.IncomeCategoryID,
				Type:             contribution.Rule.Type,
				Value:            contribution.Rule.Value,
				Amount:           contribution.Amount,
			})
		}

		s.Categories = append(s.Categories, category)
	}

	return s
}

type SummaryResponse struct {
	Data  *Summary `json:"data"`                                                          // The income distribution
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type SummaryQueryFilter struct {
	Currency string `form:"currency"` // Currency to compute the distribution for
	Period   string `form:"period"`   // Period of the incomes
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Users
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id}/summary [options]
func OptionsSummary(c *gin.Context) {
	_, ok := userFromURI(c)
	if !ok {
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Get income distribution
// @Description	Distributes the income of the user to the expense categories by the allocation rules. Only incomes in the currency are used.
// @Tags			Users
// @Produce		json
// @Success		200			{object}	SummaryResponse
// @Failure		400			{object}	SummaryResponse
// @Failure		404			{object}	SummaryResponse
// @Failure		500			{object}	SummaryResponse
// @Param			id			path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			currency	query		string	false	"ISO 4217 code of the currency. Defaults to the default currency of the user."
// @Param			period		query		string	false	"Period of the incomes. Defaults to all."	Enums(all, current, last, last3)
// @Router			/v1/users/{id}/summary [get]
func GetSummary(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &s,
		})
		return
	}

	var filter SummaryQueryFilter
	_ = c.Bind(&filter)

	period, err := types.ParsePeriod(filter.Period)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &s,
		})
		return
	}

	var user models.User
	err = models.DB.First(&user, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &s,
		})
		return
	}

	summary, err := user.Summary(models.DB, filter.Currency, period, time.Now())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &s,
		})
		return
	}

	data := newSummary(user.ID, summary)
	c.JSON(http.StatusOK, SummaryResponse{Data: &data})
}
