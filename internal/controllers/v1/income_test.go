package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/crystalbudget/backend/internal/controllers/v1"
	"github.com/crystalbudget/backend/internal/models"
	"github.com/crystalbudget/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createTestIncome(t *testing.T, i v1.IncomeEditable, expectedStatus ...int) v1.IncomeResponse {
	if i.UserID == uuid.Nil {
		i.UserID = createTestUser(t, v1.UserEditable{}).Data.ID
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.IncomeEditable{i}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/incomes", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var income v1.IncomeCreateResponse
	test.DecodeResponse(t, &r, &income)

	if r.Code == http.StatusCreated {
		return income.Data[0]
	}

	return v1.IncomeResponse{}
}

// TestIncomesDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestIncomesDBClosed() {
	u := createTestUser(suite.T(), v1.UserEditable{})

	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestIncome(t, v1.IncomeEditable{UserID: u.Data.ID, Amount: mustDecimal("10")}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/incomes", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.IncomeListResponse
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

// TestIncomesOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestIncomesOptions() {
	tests := []struct {
		name   string
		id     string // path at the endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Income with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Income exists", createTestIncome(suite.T(), v1.IncomeEditable{Amount: mustDecimal("1")}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/incomes", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestIncomesCreate() {
	u := createTestUser(suite.T(), v1.UserEditable{DefaultCurrency: "EUR"})
	salary := createTestIncomeCategory(suite.T(), v1.IncomeCategoryEditable{UserID: u.Data.ID})
	foreign := createTestIncomeCategory(suite.T(), v1.IncomeCategoryEditable{})
	missing := uuid.New()

	tests := []struct {
		name   string
		income v1.IncomeEditable
		status int
	}{
		{"Categorized", v1.IncomeEditable{UserID: u.Data.ID, CategoryID: &salary.Data.ID, Amount: mustDecimal("85000")}, http.StatusCreated},
		{"Uncategorized", v1.IncomeEditable{UserID: u.Data.ID, Amount: mustDecimal("100.50")}, http.StatusCreated},
		{"Zero", v1.IncomeEditable{UserID: u.Data.ID, Amount: mustDecimal("0")}, http.StatusCreated},
		{"Other currency", v1.IncomeEditable{UserID: u.Data.ID, Amount: mustDecimal("5"), Currency: "usd"}, http.StatusCreated},
		{"Negative", v1.IncomeEditable{UserID: u.Data.ID, Amount: mustDecimal("-5")}, http.StatusBadRequest},
		{"Invalid currency", v1.IncomeEditable{UserID: u.Data.ID, Amount: mustDecimal("5"), Currency: "Dollar"}, http.StatusBadRequest},
		{"Category of other user", v1.IncomeEditable{UserID: u.Data.ID, CategoryID: &foreign.Data.ID, Amount: mustDecimal("5")}, http.StatusBadRequest},
		{"Missing category", v1.IncomeEditable{UserID: u.Data.ID, CategoryID: &missing, Amount: mustDecimal("5")}, http.StatusBadRequest},
		{"Missing user", v1.IncomeEditable{UserID: uuid.New(), Amount: mustDecimal("5"), Currency: "RUB"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			createTestIncome(t, tt.income, tt.status)
		})
	}

	i := createTestIncome(suite.T(), v1.IncomeEditable{UserID: u.Data.ID, Amount: mustDecimal("1")})
	suite.Assert().Equal("EUR", i.Data.Currency, "the default currency of the user is used")
	suite.Assert().False(i.Data.Date.IsZero())
}

func (suite *TestSuiteStandard) TestIncomesGetSingle() {
	i := createTestIncome(suite.T(), v1.IncomeEditable{Amount: mustDecimal("10")})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Income", i.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET No Income with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE No Income with this ID", uuid.New().String(), http.StatusNotFound, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/incomes/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestIncomesGetFilter() {
	u := createTestUser(suite.T(), v1.UserEditable{})
	salary := createTestIncomeCategory(suite.T(), v1.IncomeCategoryEditable{UserID: u.Data.ID})

	now := time.Now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	longAgo := thisMonth.AddDate(-1, 0, 0)

	_ = createTestIncome(suite.T(), v1.IncomeEditable{UserID: u.Data.ID, CategoryID: &salary.Data.ID, Amount: mustDecimal("1000"), Description: "Salary March", Date: thisMonth})
	_ = createTestIncome(suite.T(), v1.IncomeEditable{UserID: u.Data.ID, CategoryID: &salary.Data.ID, Amount: mustDecimal("900"), Description: "Salary February", Date: lastMonth})
	_ = createTestIncome(suite.T(), v1.IncomeEditable{UserID: u.Data.ID, Amount: mustDecimal("50"), Description: "Gift", Date: longAgo})
	_ = createTestIncome(suite.T(), v1.IncomeEditable{UserID: u.Data.ID, Amount: mustDecimal("20"), Currency: "USD", Description: "Refund", Date: thisMonth})
	_ = createTestIncome(suite.T(), v1.IncomeEditable{Amount: mustDecimal("7"), Date: thisMonth})

	tests := []struct {
		name   string
		query  string
		len    int
		totals map[string]string
	}{
		{"User, currencies are not added up", fmt.Sprintf("user=%s", u.Data.ID), 4, map[string]string{"RUB": "1950", "USD": "20"}},
		{"Category", fmt.Sprintf("category=%s", salary.Data.ID), 2, map[string]string{"RUB": "1900"}},
		{"Uncategorized", fmt.Sprintf("user=%s&category=uncategorized", u.Data.ID), 2, map[string]string{"RUB": "50", "USD": "20"}},
		{"Currency", "currency=usd", 1, map[string]string{"USD": "20"}},
		{"Current month", fmt.Sprintf("user=%s&period=current", u.Data.ID), 2, map[string]string{"RUB": "1000", "USD": "20"}},
		{"Last month", "period=last", 1, map[string]string{"RUB": "900"}},
		{"From date", fmt.Sprintf("fromDate=%s", lastMonth.Format(time.RFC3339)), 4, map[string]string{"RUB": "1907", "USD": "20"}},
		{"Until date", fmt.Sprintf("untilDate=%s", lastMonth.Format(time.RFC3339)), 2, map[string]string{"RUB": "950"}},
		{"Amount more or equal", "amountMoreOrEqual=900", 2, map[string]string{"RUB": "1900"}},
		{"Amount less or equal", "amountLessOrEqual=50", 3, map[string]string{"RUB": "57", "USD": "20"}},
		{"Search", "search=salary", 2, map[string]string{"RUB": "1900"}},
		{"Limit 1, newest first", fmt.Sprintf("user=%s&limit=1", u.Data.ID), 1, map[string]string{"USD": "20"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.IncomeListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/incomes?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Header().Get("x-request-id"))
			assert.Len(t, re.Totals, len(tt.totals), "totals are %v", re.Totals)
			for code, total := range tt.totals {
				assert.True(t, mustDecimal(total).Equal(re.Totals[code]), "%s total is %s", code, re.Totals[code])
			}
		})
	}

	errorTests := []struct {
		name  string
		query string
	}{
		{"Invalid category", "category=salary"},
		{"Invalid period", "period=forever"},
		{"Invalid user", "user=anna"},
	}

	for _, tt := range errorTests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/incomes?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestIncomesUpdate() {
	other := createTestUser(suite.T(), v1.UserEditable{})
	i := createTestIncome(suite.T(), v1.IncomeEditable{Amount: mustDecimal("10"), Description: "Bonus"})
	c := createTestIncomeCategory(suite.T(), v1.IncomeCategoryEditable{UserID: i.Data.UserID})

	r := test.Request(suite.T(), http.MethodPatch, i.Data.Links.Self, map[string]any{
		"amount":     "15.5",
		"categoryId": c.Data.ID,
		"userId":     other.Data.ID,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.IncomeResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().True(mustDecimal("15.5").Equal(updated.Data.Amount))
	suite.Require().NotNil(updated.Data.CategoryID)
	suite.Assert().Equal(c.Data.ID, *updated.Data.CategoryID)
	suite.Assert().Equal(i.Data.UserID, updated.Data.UserID, "the owner cannot be changed")
	suite.Assert().Equal("Bonus", updated.Data.Description)

	r = test.Request(suite.T(), http.MethodPatch, i.Data.Links.Self, map[string]any{"amount": "-1"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestIncomesDelete() {
	i := createTestIncome(suite.T(), v1.IncomeEditable{Amount: mustDecimal("10")})

	r := test.Request(suite.T(), http.MethodDelete, i.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, i.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
