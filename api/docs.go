// Package docs holds the swagger specification served at /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {"get": {"tags": ["General"], "summary": "API root", "responses": {"200": {"description": "OK"}}}},
        "/healthz": {"get": {"tags": ["General"], "summary": "Get health", "responses": {"204": {"description": "No Content"}, "500": {"description": "Internal Server Error"}}}},
        "/version": {"get": {"tags": ["General"], "summary": "API version", "responses": {"200": {"description": "OK"}}}},
        "/v1": {"get": {"tags": ["v1"], "summary": "v1 API", "responses": {"200": {"description": "OK"}}}},
        "/v1/users": {"get": {"tags": ["Users"], "summary": "Get users", "responses": {"200": {"description": "OK"}}}},
        "/v1/users/{id}/summary": {"get": {"tags": ["Users"], "summary": "Get allocation summary", "responses": {"200": {"description": "OK"}}}},
        "/v1/income-categories": {"get": {"tags": ["Income Categories"], "summary": "Get income categories", "responses": {"200": {"description": "OK"}}}},
        "/v1/expense-categories": {"get": {"tags": ["Expense Categories"], "summary": "Get expense categories", "responses": {"200": {"description": "OK"}}}},
        "/v1/expense-categories/{id}/allocations": {"put": {"tags": ["Expense Categories"], "summary": "Replace allocations", "responses": {"200": {"description": "OK"}}}},
        "/v1/incomes": {"get": {"tags": ["Incomes"], "summary": "Get incomes", "responses": {"200": {"description": "OK"}}}},
        "/v1/allocations": {"get": {"tags": ["Allocations"], "summary": "Get allocations", "responses": {"200": {"description": "OK"}}}},
        "/v1/templates": {"get": {"tags": ["Templates"], "summary": "Get category templates", "responses": {"200": {"description": "OK"}}}},
        "/v1/auth/telegram": {"post": {"tags": ["Auth"], "summary": "Telegram login", "responses": {"200": {"description": "OK"}, "201": {"description": "Created"}, "401": {"description": "Unauthorized"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
