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
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, u v1.UserEditable, expectedStatus ...int) v1.UserResponse {
	if u.Name == "" {
		u.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.UserEditable{u}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/users", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var user v1.UserCreateResponse
	test.DecodeResponse(t, &r, &user)

	if r.Code == http.StatusCreated {
		return user.Data[0]
	}

	return v1.UserResponse{}
}

// TestUsersDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestUsersDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestUser(t, v1.UserEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/users", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.UserListResponse
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

// TestUsersOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestUsersOptions() {
	user := createTestUser(suite.T(), v1.UserEditable{})

	tests := []struct {
		name   string
		path   string // path at the users endpoint to test
		status int    // Expected HTTP status code
		allow  string // Expected allow header
	}{
		{"No User with this ID", uuid.New().String(), http.StatusNotFound, ""},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest, ""},
		{"User exists", user.Data.ID.String(), http.StatusNoContent, "OPTIONS, GET, PATCH, DELETE"},
		{"Summary", fmt.Sprintf("%s/summary", user.Data.ID), http.StatusNoContent, "OPTIONS, GET"},
		{"Summary no user", fmt.Sprintf("%s/summary", uuid.New()), http.StatusNotFound, ""},
		{"Link code", fmt.Sprintf("%s/telegram-link-code", user.Data.ID), http.StatusNoContent, "OPTIONS, POST"},
		{"Template", fmt.Sprintf("%s/template", user.Data.ID), http.StatusNoContent, "OPTIONS, POST"},
		{"Template invalid ID", "nope/template", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodOptions, fmt.Sprintf("http://example.com/v1/users/%s", tt.path), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, tt.allow, r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestUsersCreate() {
	tests := []struct {
		name     string
		users    any
		status   int
		currency string
	}{
		{"Default currency", []v1.UserEditable{{Name: "Anna"}}, http.StatusCreated, "RUB"},
		{"Lowercase currency", []v1.UserEditable{{Name: "Boris", DefaultCurrency: "eur"}}, http.StatusCreated, "EUR"},
		{"Invalid currency", []v1.UserEditable{{Name: "Vera", DefaultCurrency: "EURO"}}, http.StatusBadRequest, ""},
		{"Broken body", `[{ "name": 2 }]`, http.StatusBadRequest, ""},
		{"Empty body", "", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/users", tt.users)
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status != http.StatusCreated {
				return
			}

			var response v1.UserCreateResponse
			test.DecodeResponse(t, &r, &response)
			require.Len(t, response.Data, 1)
			assert.Equal(t, tt.currency, response.Data[0].Data.DefaultCurrency)
			assert.Equal(t, fmt.Sprintf("http://example.com/v1/users/%s/summary", response.Data[0].Data.ID), response.Data[0].Data.Links.Summary)
		})
	}
}

// TestUsersCreateMixed verifies that the highest status code is returned when
// some of the users cannot be created.
func (suite *TestSuiteStandard) TestUsersCreateMixed() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/users", []v1.UserEditable{
		{Name: "Anna"},
		{Name: "Boris", DefaultCurrency: "Rubles"},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.UserCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().NotNil(response.Data[0].Data)
	suite.Assert().Contains(*response.Data[1].Error, models.ErrCurrencyInvalid.Error())
}

// TestUsersGetSingle verifies that requests for the resource endpoints are
// handled correctly.
func (suite *TestSuiteStandard) TestUsersGetSingle() {
	u := createTestUser(suite.T(), v1.UserEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing User", u.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No User with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (negative number)", "-56", http.StatusBadRequest, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (positive number)", "23", http.StatusBadRequest, http.MethodPatch},
		{"PATCH No User with this ID", uuid.New().String(), http.StatusNotFound, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
		{"DELETE No User with this ID", uuid.New().String(), http.StatusNotFound, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/users/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestUsersGetFilter() {
	_ = createTestUser(suite.T(), v1.UserEditable{Name: "Anna Petrova", Email: "anna@example.com"})
	_ = createTestUser(suite.T(), v1.UserEditable{Name: "Boris", Email: "boris@example.com"})
	_ = createTestUser(suite.T(), v1.UserEditable{Name: "Anton", Email: "anton@example.org"})

	tests := []struct {
		name  string
		query string
		len   int
		total int64
	}{
		{"Exact email", "email=boris@example.com", 1, 1},
		{"Fuzzy name", "name=An", 2, 2},
		{"Empty name", "name=", 0, 0},
		{"Search for 'example.com'", "search=example.com", 2, 2},
		{"Search for 'anton'", "search=anton", 1, 1},
		{"Telegram ID", "telegramId=4242", 0, 0},
		{"Offset 2", "offset=2", 1, 3},
		{"Offset 0, limit 2", "offset=0&limit=2", 2, 3},
		{"Limit 0", "limit=0", 0, 3},
		{"Limit -1", "limit=-1", 3, 3},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.UserListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/users?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Header().Get("x-request-id"))
			assert.Equal(t, tt.total, re.Pagination.Total)
		})
	}
}

func (suite *TestSuiteStandard) TestUsersUpdate() {
	u := createTestUser(suite.T(), v1.UserEditable{Name: "Anna", TutorialCompleted: true})

	r := test.Request(suite.T(), http.MethodPatch, u.Data.Links.Self, map[string]any{
		"name":              "Anna Petrova",
		"defaultCurrency":   "USD",
		"tutorialCompleted": false,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.UserResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("Anna Petrova", updated.Data.Name)
	suite.Assert().Equal("USD", updated.Data.DefaultCurrency)
	suite.Assert().False(updated.Data.TutorialCompleted)

	r = test.Request(suite.T(), http.MethodPatch, u.Data.Links.Self, `{"name": 2}`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodPatch, u.Data.Links.Self, map[string]any{"defaultCurrency": "nope"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUsersDelete() {
	u := createTestUser(suite.T(), v1.UserEditable{})
	c := createTestIncomeCategory(suite.T(), v1.IncomeCategoryEditable{UserID: u.Data.ID})

	r := test.Request(suite.T(), http.MethodDelete, u.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, u.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodGet, c.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestUsersLinkCode() {
	u := createTestUser(suite.T(), v1.UserEditable{})

	r := test.Request(suite.T(), http.MethodPost, u.Data.Links.TelegramLinkCode, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var first v1.LinkCodeResponse
	test.DecodeResponse(suite.T(), &r, &first)
	suite.Require().NotNil(first.Data)
	suite.Assert().NotEmpty(first.Data.Code)

	r = test.Request(suite.T(), http.MethodPost, u.Data.Links.TelegramLinkCode, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var second v1.LinkCodeResponse
	test.DecodeResponse(suite.T(), &r, &second)
	suite.Assert().NotEqual(first.Data.Code, second.Data.Code, "a new code replaces the old one")

	_, err := models.LinkTelegram(models.DB, first.Data.Code, 4242, "anna")
	suite.Assert().ErrorIs(err, models.ErrLinkCodeInvalid)

	linked, err := models.LinkTelegram(models.DB, second.Data.Code, 4242, "anna")
	suite.Require().Nil(err)
	suite.Assert().Equal(u.Data.ID, linked.ID)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/users?telegramId=4242", "")
	var list v1.UserListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Require().Len(list.Data, 1)
	suite.Assert().Equal("anna", list.Data[0].TelegramUsername)

	r = test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/users/%s/telegram-link-code", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestUsersApplyTemplate() {
	u := createTestUser(suite.T(), v1.UserEditable{})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Unknown template", v1.TemplateRequest{Template: "students"}, http.StatusNotFound},
		{"Broken body", `{"template": 1}`, http.StatusBadRequest},
		{"Basic", v1.TemplateRequest{Template: "basic"}, http.StatusOK},
		{"Basic again", v1.TemplateRequest{Template: "basic"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, u.Data.Links.Template, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusOK {
				var response v1.UserResponse
				test.DecodeResponse(t, &r, &response)
				assert.True(t, response.Data.OnboardingCompleted)
			}
		})
	}

	basic, err := models.TemplateByID("basic")
	suite.Require().Nil(err)

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/expense-categories?user=%s", u.Data.ID), "")
	var categories v1.ExpenseCategoryListResponse
	test.DecodeResponse(suite.T(), &r, &categories)
	suite.Assert().Len(categories.Data, len(basic.ExpenseCategories))
}
