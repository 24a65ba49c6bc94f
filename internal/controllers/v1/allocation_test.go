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

func createTestAllocation(t *testing.T, a v1.AllocationEditable, expectedStatus ...int) v1.AllocationResponse {
	if a.ExpenseCategoryID == uuid.Nil || a.IncomeCategoryID == uuid.Nil {
		u := createTestUser(t, v1.UserEditable{})
		a.ExpenseCategoryID = createTestExpenseCategory(t, v1.ExpenseCategoryEditable{UserID: u.Data.ID}).Data.ID
		a.IncomeCategoryID = createTestIncomeCategory(t, v1.IncomeCategoryEditable{UserID: u.Data.ID}).Data.ID
	}

	if a.Type == "" {
		a.Type = "percentage"
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.AllocationEditable{a}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/allocations", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var allocation v1.AllocationCreateResponse
	test.DecodeResponse(t, &r, &allocation)

	if r.Code == http.StatusCreated {
		return allocation.Data[0]
	}

	return v1.AllocationResponse{}
}

// TestAllocationsDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestAllocationsDBClosed() {
	a := createTestAllocation(suite.T(), v1.AllocationEditable{Value: mustDecimal("10")})

	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestAllocation(t, a.Data.AllocationEditable, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/allocations", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.AllocationListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
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

// TestAllocationsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestAllocationsOptions() {
	tests := []struct {
		name   string
		id     string // path at the endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Allocation with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Allocation exists", createTestAllocation(suite.T(), v1.AllocationEditable{Value: mustDecimal("5")}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/allocations", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsCreate() {
	u := createTestUser(suite.T(), v1.UserEditable{})
	salary := createTestIncomeCategory(suite.T(), v1.IncomeCategoryEditable{UserID: u.Data.ID})
	rent := createTestExpenseCategory(suite.T(), v1.ExpenseCategoryEditable{UserID: u.Data.ID})
	foreign := createTestExpenseCategory(suite.T(), v1.ExpenseCategoryEditable{})

	tests := []struct {
		name       string
		allocation v1.AllocationEditable
		status     int
	}{
		{"Percentage", v1.AllocationEditable{ExpenseCategoryID: rent.Data.ID, IncomeCategoryID: salary.Data.ID, Type: "percentage", Value: mustDecimal("30")}, http.StatusCreated},
		{"Percentage above 100", v1.AllocationEditable{ExpenseCategoryID: rent.Data.ID, IncomeCategoryID: salary.Data.ID, Type: "percentage", Value: mustDecimal("120")}, http.StatusCreated},
		{"Duplicate fixed", v1.AllocationEditable{ExpenseCategoryID: rent.Data.ID, IncomeCategoryID: salary.Data.ID, Type: "fixed", Value: mustDecimal("30")}, http.StatusCreated},
		{"Invalid type", v1.AllocationEditable{ExpenseCategoryID: rent.Data.ID, IncomeCategoryID: salary.Data.ID, Type: "share", Value: mustDecimal("30")}, http.StatusBadRequest},
		{"Negative value", v1.AllocationEditable{ExpenseCategoryID: rent.Data.ID, IncomeCategoryID: salary.Data.ID, Type: "fixed", Value: mustDecimal("-30")}, http.StatusBadRequest},
		{"Different users", v1.AllocationEditable{ExpenseCategoryID: foreign.Data.ID, IncomeCategoryID: salary.Data.ID, Type: "fixed", Value: mustDecimal("30")}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			createTestAllocation(t, tt.allocation, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsGetSingle() {
	a := createTestAllocation(suite.T(), v1.AllocationEditable{Value: mustDecimal("10")})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Allocation", a.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET No Allocation with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE No Allocation with this ID", uuid.New().String(), http.StatusNotFound, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/allocations/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsGetFilter() {
	u := createTestUser(suite.T(), v1.UserEditable{})
	salary := createTestIncomeCategory(suite.T(), v1.IncomeCategoryEditable{UserID: u.Data.ID})
	bonus := createTestIncomeCategory(suite.T(), v1.IncomeCategoryEditable{UserID: u.Data.ID})
	rent := createTestExpenseCategory(suite.T(), v1.ExpenseCategoryEditable{UserID: u.Data.ID})

	_ = createTestAllocation(suite.T(), v1.AllocationEditable{ExpenseCategoryID: rent.Data.ID, IncomeCategoryID: salary.Data.ID, Type: "percentage", Value: mustDecimal("10")})
	_ = createTestAllocation(suite.T(), v1.AllocationEditable{ExpenseCategoryID: rent.Data.ID, IncomeCategoryID: bonus.Data.ID, Type: "fixed", Value: mustDecimal("100")})
	_ = createTestAllocation(suite.T(), v1.AllocationEditable{Type: "fixed", Value: mustDecimal("5")})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"User", fmt.Sprintf("user=%s", u.Data.ID), 2},
		{"Expense category", fmt.Sprintf("expenseCategory=%s", rent.Data.ID), 2},
		{"Income category", fmt.Sprintf("incomeCategory=%s", bonus.Data.ID), 1},
		{"Fixed", "type=fixed", 2},
		{"User and type", fmt.Sprintf("user=%s&type=percentage", u.Data.ID), 1},
		{"Limit 1", "limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.AllocationListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Header().Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsUpdate() {
	a := createTestAllocation(suite.T(), v1.AllocationEditable{Type: "percentage", Value: mustDecimal("10")})

	r := test.Request(suite.T(), http.MethodPatch, a.Data.Links.Self, map[string]any{"type": "fixed", "value": "250"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("fixed", string(updated.Data.Type))
	suite.Assert().True(mustDecimal("250").Equal(updated.Data.Value))

	r = test.Request(suite.T(), http.MethodPatch, a.Data.Links.Self, map[string]any{"value": "-1"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAllocationsDelete() {
	a := createTestAllocation(suite.T(), v1.AllocationEditable{Value: mustDecimal("10")})

	r := test.Request(suite.T(), http.MethodDelete, a.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, a.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
