package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/crystalbudget/backend/internal/controllers/v1"
	"github.com/crystalbudget/backend/internal/models"
	"github.com/crystalbudget/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func createTestExpenseCategory(t *testing.T, c v1.ExpenseCategoryEditable, expectedStatus ...int) v1.ExpenseCategoryResponse {
	if c.UserID == uuid.Nil {
		c.UserID = createTestUser(t, v1.UserEditable{}).Data.ID
	}

	if c.Name == "" {
		c.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.ExpenseCategoryEditable{c}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/expense-categories", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var category v1.ExpenseCategoryCreateResponse
	test.DecodeResponse(t, &r, &category)

	if r.Code == http.StatusCreated {
		return category.Data[0]
	}

	return v1.ExpenseCategoryResponse{}
}

// TestExpenseCategoriesDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestExpenseCategoriesDBClosed() {
	u := createTestUser(suite.T(), v1.UserEditable{})
	c := createTestExpenseCategory(suite.T(), v1.ExpenseCategoryEditable{UserID: u.Data.ID})

	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestExpenseCategory(t, v1.ExpenseCategoryEditable{UserID: u.Data.ID}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/expense-categories", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.ExpenseCategoryListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
		{
			"PUT allocations fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodPut, c.Data.Links.Allocations, []v1.AllocationRule{})
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

// TestExpenseCategoriesOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestExpenseCategoriesOptions() {
	c := createTestExpenseCategory(suite.T(), v1.ExpenseCategoryEditable{})

	tests := []struct {
		name   string
		path   string // path at the endpoint to test
		status int    // Expected HTTP status code
		allow  string // Expected allow header
	}{
		{"No Expense Category with this ID", uuid.New().String(), http.StatusNotFound, ""},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest, ""},
		{"Expense Category exists", c.Data.ID.String(), http.StatusNoContent, "OPTIONS, GET, PATCH, DELETE"},
		{"Allocations", fmt.Sprintf("%s/allocations", c.Data.ID), http.StatusNoContent, "OPTIONS, GET, PUT"},
		{"Allocations no category", fmt.Sprintf("%s/allocations", uuid.New()), http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/expense-categories", tt.path)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, tt.allow, r.Header().Get("allow"))
			}
		})
	}
}

// TestExpenseCategoriesGetSingle verifies that requests for the resource endpoints are
// handled correctly.
func (suite *TestSuiteStandard) TestExpenseCategoriesGetSingle() {
	c := createTestExpenseCategory(suite.T(), v1.ExpenseCategoryEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Expense Category", c.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No Expense Category with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
		{"DELETE No Expense Category with this ID", uuid.New().String(), http.StatusNotFound, http.MethodDelete},
		{"GET allocations Invalid ID", "notaUUID/allocations", http.StatusBadRequest, http.MethodGet},
		{"GET allocations No Expense Category with this ID", fmt.Sprintf("%s/allocations", uuid.New()), http.StatusNotFound, http.MethodGet},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/expense-categories/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseCategoriesGetFilter() {
	u1 := createTestUser(suite.T(), v1.UserEditable{})
	u2 := createTestUser(suite.T(), v1.UserEditable{})

	_ = createTestExpenseCategory(suite.T(), v1.ExpenseCategoryEditable{UserID: u1.Data.ID, Name: "Rent"})
	_ = createTestExpenseCategory(suite.T(), v1.ExpenseCategoryEditable{UserID: u1.Data.ID, Name: "Food"})
	_ = createTestExpenseCategory(suite.T(), v1.ExpenseCategoryEditable{UserID: u2.Data.ID, Name: "Fun"})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"User 1", fmt.Sprintf("user=%s", u1.Data.ID), 2},
		{"User 2", fmt.Sprintf("user=%s", u2.Data.ID), 1},
		{"Fuzzy name", "name=F", 2},
		{"Empty name", "name=", 0},
		{"Search", "search=ent", 1},
		{"Limit 2", "limit=2", 2},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.ExpenseCategoryListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/expense-categories?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Header().Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseCategoriesUpdate() {
	c := createTestExpenseCategory(suite.T(), v1.ExpenseCategoryEditable{Name: "Rent"})

	r := test.Request(suite.T(), http.MethodPatch, c.Data.Links.Self, map[string]any{"name": "Housing", "icon": "home"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.ExpenseCategoryResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("Housing", updated.Data.Name)
	suite.Assert().Equal("home", updated.Data.Icon)
	suite.Assert().Empty(updated.Data.Allocations)
}

func (suite *TestSuiteStandard) TestExpenseCategoriesReplaceAllocations() {
	u := createTestUser(suite.T(), v1.UserEditable{})
	salary := createTestIncomeCategory(suite.T(), v1.IncomeCategoryEditable{UserID: u.Data.ID, Name: "Salary"})
	freelance := createTestIncomeCategory(suite.T(), v1.IncomeCategoryEditable{UserID: u.Data.ID, Name: "Freelance"})
	rent := createTestExpenseCategory(suite.T(), v1.ExpenseCategoryEditable{UserID: u.Data.ID, Name: "Rent"})

	r := test.Request(suite.T(), http.MethodPut, rent.Data.Links.Allocations, []v1.AllocationRule{
		{IncomeCategoryID: salary.Data.ID, Type: "percentage", Value: mustDecimal("30")},
		{IncomeCategoryID: freelance.Data.ID, Type: "fixed", Value: mustDecimal("200")},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var replaced v1.AllocationListResponse
	test.DecodeResponse(suite.T(), &r, &replaced)
	suite.Require().Len(replaced.Data, 2)
	suite.Assert().Equal(rent.Data.ID, replaced.Data[0].ExpenseCategoryID)

	// An invalid rule leaves the existing rules untouched
	r = test.Request(suite.T(), http.MethodPut, rent.Data.Links.Allocations, []v1.AllocationRule{
		{IncomeCategoryID: salary.Data.ID, Type: "percentage", Value: mustDecimal("50")},
		{IncomeCategoryID: salary.Data.ID, Type: "share", Value: mustDecimal("1")},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodGet, rent.Data.Links.Allocations, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var current v1.AllocationListResponse
	test.DecodeResponse(suite.T(), &r, &current)
	suite.Assert().ElementsMatch(
		[]uuid.UUID{replaced.Data[0].ID, replaced.Data[1].ID},
		[]uuid.UUID{current.Data[0].ID, current.Data[1].ID},
	)

	// The allocations are part of the category
	r = test.Request(suite.T(), http.MethodGet, rent.Data.Links.Self, "")
	var category v1.ExpenseCategoryResponse
	test.DecodeResponse(suite.T(), &r, &category)
	suite.Assert().Len(category.Data.Allocations, 2)

	// An empty list removes all rules
	r = test.Request(suite.T(), http.MethodPut, rent.Data.Links.Allocations, []v1.AllocationRule{})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var cleared v1.AllocationListResponse
	test.DecodeResponse(suite.T(), &r, &cleared)
	suite.Assert().Len(cleared.Data, 0)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations?user=%s", u.Data.ID), "")
	var all v1.AllocationListResponse
	test.DecodeResponse(suite.T(), &r, &all)
	suite.Assert().Len(all.Data, 0)
}

func (suite *TestSuiteStandard) TestExpenseCategoriesReplaceAllocationsErrors() {
	u := createTestUser(suite.T(), v1.UserEditable{})
	salary := createTestIncomeCategory(suite.T(), v1.IncomeCategoryEditable{UserID: u.Data.ID})
	rent := createTestExpenseCategory(suite.T(), v1.ExpenseCategoryEditable{UserID: u.Data.ID})
	foreign := createTestIncomeCategory(suite.T(), v1.IncomeCategoryEditable{})

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"No category", fmt.Sprintf("http://example.com/v1/expense-categories/%s/allocations", uuid.New()), []v1.AllocationRule{}, http.StatusNotFound},
		{"Invalid ID", "http://example.com/v1/expense-categories/nope/allocations", []v1.AllocationRule{}, http.StatusBadRequest},
		{"Empty body", rent.Data.Links.Allocations, "", http.StatusBadRequest},
		{"Not a list", rent.Data.Links.Allocations, `{"type": "fixed"}`, http.StatusBadRequest},
		{"Negative value", rent.Data.Links.Allocations, []v1.AllocationRule{{IncomeCategoryID: salary.Data.ID, Type: "fixed", Value: mustDecimal("-1")}}, http.StatusBadRequest},
		{"Income category of other user", rent.Data.Links.Allocations, []v1.AllocationRule{{IncomeCategoryID: foreign.Data.ID, Type: "fixed", Value: mustDecimal("1")}}, http.StatusBadRequest},
		{"Missing income category", rent.Data.Links.Allocations, []v1.AllocationRule{{IncomeCategoryID: uuid.New(), Type: "fixed", Value: mustDecimal("1")}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPut, tt.path, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}
