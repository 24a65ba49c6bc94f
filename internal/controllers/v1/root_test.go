package v1_test

import (
	"net/http"

	v1 "github.com/crystalbudget/backend/internal/controllers/v1"
	"github.com/crystalbudget/backend/test"
)

func (suite *TestSuiteStandard) TestRoot() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("http://example.com/v1/users", response.Links.Users)
	suite.Assert().Equal("http://example.com/v1/incomes", response.Links.Incomes)
	suite.Assert().Equal("http://example.com/v1/auth/telegram", response.Links.TelegramAuth)
}
