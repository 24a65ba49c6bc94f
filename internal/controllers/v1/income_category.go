package v1

import (
	"net/http"

	"github.com/crystalbudget/backend/internal/httputil"
	"github.com/crystalbudget/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterIncomeCategoryRoutes registers the routes for income categories with
// the RouterGroup that is passed.
func RegisterIncomeCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsIncomeCategoryList)
		r.GET("", GetIncomeCategories)
		r.POST("", CreateIncomeCategories)
	}

	// Income category with ID
	{
		r.OPTIONS("/:id", OptionsIncomeCategoryDetail)
		r.GET("/:id", GetIncomeCategory)
		r.PATCH("/:id", UpdateIncomeCategory)
		r.DELETE("/:id", DeleteIncomeCategory)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Income Categories
// @Success		204
// @Router			/v1/income-categories [options]
func OptionsIncomeCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Income Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-categories/{id} [options]
func OptionsIncomeCategoryDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.IncomeCategory{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create income categories
// @Description	Creates new income categories
// @Tags			Income Categories
// @Produce		json
// @Success		201			{object}	IncomeCategoryCreateResponse
// @Failure		400			{object}	IncomeCategoryCreateResponse
// @Failure		404			{object}	IncomeCategoryCreateResponse
// @Failure		500			{object}	IncomeCategoryCreateResponse
// @Param			categories	body		[]IncomeCategoryEditable	true	"Income categories"
// @Router			/v1/income-categories [post]
func CreateIncomeCategories(c *gin.Context) {
	var editables []IncomeCategoryEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeCategoryCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := IncomeCategoryCreateResponse{}

	for _, editable := range editables {
		category := editable.model()

		err = models.DB.Create(&category).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newIncomeCategory(c, category)
		r.Data = append(r.Data, IncomeCategoryResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get income categories
// @Description	Returns a list of income categories
// @Tags			Income Categories
// @Produce		json
// @Success		200		{object}	IncomeCategoryListResponse
// @Failure		400		{object}	IncomeCategoryListResponse
// @Failure		500		{object}	IncomeCategoryListResponse
// @Router			/v1/income-categories [get]
// @Param			user	query	string	false	"Filter by user ID"
// @Param			name	query	string	false	"Filter by name"
// @Param			search	query	string	false	"Search for this text in the name"
// @Param			offset	query	uint	false	"The offset of the first Income Category returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Income Categories to return. Defaults to 50."
func GetIncomeCategories(c *gin.Context) {
	var filter IncomeCategoryQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, IncomeCategoryListResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Search, "name")
	q, limit := paginate(q, setFields, filter.Offset, filter.Limit)

	var categories []models.IncomeCategory
	err = q.Find(&categories).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeCategoryListResponse{
			Error: &e,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeCategoryListResponse{
			Error: &e,
		})
		return
	}

	data := make([]IncomeCategory, 0, len(categories))
	for _, category := range categories {
		data = append(data, newIncomeCategory(c, category))
	}

	c.JSON(http.StatusOK, IncomeCategoryListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get income category
// @Description	Returns a specific income category
// @Tags			Income Categories
// @Produce		json
// @Success		200	{object}	IncomeCategoryResponse
// @Failure		400	{object}	IncomeCategoryResponse
// @Failure		404	{object}	IncomeCategoryResponse
// @Failure		500	{object}	IncomeCategoryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-categories/{id} [get]
func GetIncomeCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeCategoryResponse{
			Error: &s,
		})
		return
	}

	var category models.IncomeCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeCategoryResponse{
			Error: &s,
		})
		return
	}

	data := newIncomeCategory(c, category)
	c.JSON(http.StatusOK, IncomeCategoryResponse{Data: &data})
}

// @Summary		Update income category
// @Description	Update an existing income category. Only values to be updated need to be specified. The owning user cannot be changed.
// @Tags			Income Categories
// @Accept			json
// @Produce		json
// @Success		200			{object}	IncomeCategoryResponse
// @Failure		400			{object}	IncomeCategoryResponse
// @Failure		404			{object}	IncomeCategoryResponse
// @Failure		500			{object}	IncomeCategoryResponse
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			category	body		IncomeCategoryEditable	true	"Income category"
// @Router			/v1/income-categories/{id} [patch]
func UpdateIncomeCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeCategoryResponse{
			Error: &s,
		})
		return
	}

	var category models.IncomeCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeCategoryResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, IncomeCategoryEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeCategoryResponse{
			Error: &s,
		})
		return
	}

	var data IncomeCategoryEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeCategoryResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&category).Select("", withoutOwner(updateFields)...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeCategoryResponse{
			Error: &s,
		})
		return
	}

	r := newIncomeCategory(c, category)
	c.JSON(http.StatusOK, IncomeCategoryResponse{Data: &r})
}

// @Summary		Delete income category
// @Description	Deletes an income category. Its allocations are deleted, its incomes become uncategorized.
// @Tags			Income Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-categories/{id} [delete]
func DeleteIncomeCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var category models.IncomeCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&category).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
