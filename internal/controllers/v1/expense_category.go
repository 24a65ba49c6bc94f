package v1

import (
	"net/http"

	"github.com/crystalbudget/backend/internal/httputil"
	"github.com/crystalbudget/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterExpenseCategoryRoutes registers the routes for expense categories with
// the RouterGroup that is passed.
func RegisterExpenseCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsExpenseCategoryList)
		r.GET("", GetExpenseCategories)
		r.POST("", CreateExpenseCategories)
	}

	// Expense category with ID
	{
		r.OPTIONS("/:id", OptionsExpenseCategoryDetail)
		r.GET("/:id", GetExpenseCategory)
		r.PATCH("/:id", UpdateExpenseCategory)
		r.DELETE("/:id", DeleteExpenseCategory)

		r.OPTIONS("/:id/allocations", OptionsExpenseCategoryAllocations)
		r.GET("/:id/allocations", GetExpenseCategoryAllocations)
		r.PUT("/:id/allocations", ReplaceExpenseCategoryAllocations)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expense Categories
// @Success		204
// @Router			/v1/expense-categories [options]
func OptionsExpenseCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expense Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expense-categories/{id} [options]
func OptionsExpenseCategoryDetail(c *gin.Context) {
	_, ok := expenseCategoryFromURI(c)
	if !ok {
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// expenseCategoryFromURI loads the expense category with the ID from the URI.
// If it does not exist, an error response is written and ok is false.
func expenseCategoryFromURI(c *gin.Context) (category models.ExpenseCategory, ok bool) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	return category, true
}

// @Summary		Create expense categories
// @Description	Creates new expense categories
// @Tags			Expense Categories
// @Produce		json
// @Success		201			{object}	ExpenseCategoryCreateResponse
// @Failure		400			{object}	ExpenseCategoryCreateResponse
// @Failure		404			{object}	ExpenseCategoryCreateResponse
// @Failure		500			{object}	ExpenseCategoryCreateResponse
// @Param			categories	body		[]ExpenseCategoryEditable	true	"Expense categories"
// @Router			/v1/expense-categories [post]
func CreateExpenseCategories(c *gin.Context) {
	var editables []ExpenseCategoryEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseCategoryCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ExpenseCategoryCreateResponse{}

	for _, editable := range editables {
		category := editable.model()

		err = models.DB.Create(&category).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := newExpenseCategory(c, models.DB, category)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, ExpenseCategoryResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get expense categories
// @Description	Returns a list of expense categories with their allocation rules
// @Tags			Expense Categories
// @Produce		json
// @Success		200		{object}	ExpenseCategoryListResponse
// @Failure		400		{object}	ExpenseCategoryListResponse
// @Failure		500		{object}	ExpenseCategoryListResponse
// @Router			/v1/expense-categories [get]
// @Param			user	query	string	false	"Filter by user ID"
// @Param			name	query	string	false	"Filter by name"
// @Param			search	query	string	false	"Search for this text in the name"
// @Param			offset	query	uint	false	"The offset of the first Expense Category returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Expense Categories to return. Defaults to 50."
func GetExpenseCategories(c *gin.Context) {
	var filter ExpenseCategoryQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseCategoryListResponse{
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

	var categories []models.ExpenseCategory
	err = q.Find(&categories).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseCategoryListResponse{
			Error: &e,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseCategoryListResponse{
			Error: &e,
		})
		return
	}

	data := make([]ExpenseCategory, 0, len(categories))
	for _, category := range categories {
		apiResource, err := newExpenseCategory(c, models.DB, category)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), ExpenseCategoryListResponse{
				Error: &e,
			})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, ExpenseCategoryListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get expense category
// @Description	Returns a specific expense category with its allocation rules
// @Tags			Expense Categories
// @Produce		json
// @Success		200	{object}	ExpenseCategoryResponse
// @Failure		400	{object}	ExpenseCategoryResponse
// @Failure		404	{object}	ExpenseCategoryResponse
// @Failure		500	{object}	ExpenseCategoryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expense-categories/{id} [get]
func GetExpenseCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseCategoryResponse{
			Error: &s,
		})
		return
	}

	var category models.ExpenseCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseCategoryResponse{
			Error: &s,
		})
		return
	}

	data, err := newExpenseCategory(c, models.DB, category)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseCategoryResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, ExpenseCategoryResponse{Data: &data})
}

// @Summary		Update expense category
// @Description	Update an existing expense category. Only values to be updated need to be specified. The owning user cannot be changed.
// @Tags			Expense Categories
// @Accept			json
// @Produce		json
// @Success		200			{object}	ExpenseCategoryResponse
// @Failure		400			{object}	ExpenseCategoryResponse
// @Failure		404			{object}	ExpenseCategoryResponse
// @Failure		500			{object}	ExpenseCategoryResponse
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			category	body		ExpenseCategoryEditable	true	"Expense category"
// @Router			/v1/expense-categories/{id} [patch]
func UpdateExpenseCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseCategoryResponse{
			Error: &s,
		})
		return
	}

	var category models.ExpenseCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseCategoryResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ExpenseCategoryEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseCategoryResponse{
			Error: &s,
		})
		return
	}

	var data ExpenseCategoryEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseCategoryResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&category).Select("", withoutOwner(updateFields)...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseCategoryResponse{
			Error: &s,
		})
		return
	}

	r, err := newExpenseCategory(c, models.DB, category)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseCategoryResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, ExpenseCategoryResponse{Data: &r})
}

// @Summary		Delete expense category
// @Description	Deletes an expense category together with its allocation rules
// @Tags			Expense Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expense-categories/{id} [delete]
func DeleteExpenseCategory(c *gin.Context) {
	category, ok := expenseCategoryFromURI(c)
	if !ok {
		return
	}

	err := models.DB.Delete(&category).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expense Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expense-categories/{id}/allocations [options]
func OptionsExpenseCategoryAllocations(c *gin.Context) {
	_, ok := expenseCategoryFromURI(c)
	if !ok {
		return
	}

	httputil.OptionsGetPut(c)
}

// @Summary		Get allocations of expense category
// @Description	Returns all allocation rules of the expense category
// @Tags			Expense Categories
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	AllocationListResponse
// @Failure		404	{object}	AllocationListResponse
// @Failure		500	{object}	AllocationListResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expense-categories/{id}/allocations [get]
func GetExpenseCategoryAllocations(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	var category models.ExpenseCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	allocations, err := category.Allocations(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Allocation, 0, len(allocations))
	for _, a := range allocations {
		data = append(data, newAllocation(c, a))
	}

	c.JSON(http.StatusOK, AllocationListResponse{Data: data})
}

// @Summary		Replace allocations of expense category
// @Description	Replaces all allocation rules of the expense category with the rules in the body. Either all rules are replaced or, on error, none are. An empty list removes all rules.
// @Tags			Expense Categories
// @Accept			json
// @Produce		json
// @Success		200		{object}	AllocationListResponse
// @Failure		400		{object}	AllocationListResponse
// @Failure		404		{object}	AllocationListResponse
// @Failure		500		{object}	AllocationListResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			rules	body		[]AllocationRule	true	"Allocation rules"
// @Router			/v1/expense-categories/{id}/allocations [put]
func ReplaceExpenseCategoryAllocations(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	var rules []AllocationRule
	err = httputil.BindData(c, &rules)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	specs := make([]models.AllocationSpec, 0, len(rules))
	for _, rule := range rules {
		specs = append(specs, rule.spec())
	}

	allocations, err := models.ReplaceAllocations(models.DB, uri.ID.UUID, specs)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Allocation, 0, len(allocations))
	for _, a := range allocations {
		data = append(data, newAllocation(c, a))
	}

	c.JSON(http.StatusOK, AllocationListResponse{Data: data})
}
