// Package docs registers the OpenAPI description of the console with swag
// so echo-swagger can serve it under /swagger/.
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
        "/session": {
            "get": {"tags": ["session"], "summary": "Current session", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["session"], "summary": "Login", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "422": {"description": "Unprocessable Entity"}}},
            "delete": {"tags": ["session"], "summary": "Logout", "responses": {"204": {"description": "No Content"}}}
        },
        "/accounts": {
            "post": {"tags": ["accounts"], "summary": "Register", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/accounts/verify": {
            "get": {"tags": ["accounts"], "summary": "Verify email", "parameters": [{"type": "string", "name": "token", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/accounts/me": {
            "get": {"tags": ["accounts"], "summary": "Profile", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "delete": {"tags": ["accounts"], "summary": "Delete account", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/contact": {
            "post": {"tags": ["accounts"], "summary": "Contact", "consumes": ["application/json"], "responses": {"202": {"description": "Accepted"}}}
        },
        "/news": {"get": {"tags": ["feed"], "summary": "News", "responses": {"200": {"description": "OK"}}}},
        "/news/filtered": {"get": {"tags": ["feed"], "summary": "Filtered news", "responses": {"200": {"description": "OK"}}}},
        "/news/interesting": {"get": {"tags": ["feed"], "summary": "Interesting news", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/companies": {"get": {"tags": ["feed"], "summary": "Companies", "responses": {"200": {"description": "OK"}}}},
        "/filter-labels": {"get": {"tags": ["feed"], "summary": "Available filters", "responses": {"200": {"description": "OK"}}}},
        "/charts": {
            "get": {"tags": ["feed"], "summary": "Chart data", "parameters": [
                {"type": "string", "name": "dataType", "in": "query"},
                {"type": "string", "name": "companyType", "in": "query"},
                {"type": "string", "name": "timePeriod", "in": "query"}
            ], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/reports": {
            "post": {"tags": ["reports"], "summary": "Generate report", "consumes": ["application/json"], "produces": ["application/json", "application/pdf"], "parameters": [{"type": "boolean", "name": "download", "in": "query"}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/{collection}": {
            "get": {"tags": ["collections"], "summary": "List subscriptions or filters", "parameters": [{"type": "string", "name": "collection", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["collections"], "summary": "Add an item", "parameters": [{"type": "string", "name": "collection", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/{collection}/{item}": {
            "delete": {"tags": ["collections"], "summary": "Remove an item", "parameters": [{"type": "string", "name": "collection", "in": "path", "required": true}, {"type": "string", "name": "item", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/{collection}/{item}/toggle": {
            "post": {"tags": ["collections"], "summary": "Toggle an item", "parameters": [{"type": "string", "name": "collection", "in": "path", "required": true}, {"type": "string", "name": "item", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "companywatch console",
	Description:      "Local JSON facade over the companies news API session.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
