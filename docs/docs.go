// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g server/main.go` after changing handler annotations.
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
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in with email and password", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}}},
        "/events": {"get": {"tags": ["events"], "summary": "List published events", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}}},
        "/events/{id}/charts": {"get": {"tags": ["events"], "summary": "List booking charts of an event", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}}},
        "/events/{id}/reviews": {"get": {"tags": ["reviews"], "summary": "List reviews of an event", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}}},
        "/bookings": {"post": {"security": [{"BearerAuth": []}], "tags": ["bookings"], "summary": "Create a booking order", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}, "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}}},
        "/bookings/verify": {"post": {"security": [{"BearerAuth": []}], "tags": ["bookings"], "summary": "Verify a checkout payment", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}}},
        "/payments/webhook": {"post": {"tags": ["payments"], "summary": "Gateway payment webhook", "parameters": [{"type": "string", "name": "X-Razorpay-Signature", "in": "header", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}}},
        "/vendors/apply": {"post": {"security": [{"BearerAuth": []}], "tags": ["vendors"], "summary": "Apply to become a vendor", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}}},
        "/admin/payouts": {"post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Record a vendor payout", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}}},
        "/events/{id}/bookmark": {"post": {"security": [{"BearerAuth": []}], "tags": ["bookmarks"], "summary": "Toggle a bookmark on an event", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}}},
        "/admin/analytics/dashboard": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Platform booking and settlement dashboard", "parameters": [{"type": "integer", "default": 30, "name": "days", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}}}
    },
    "definitions": {
        "response.StandardApiResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "status_code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {},
                "errors": {}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "PlayArena API",
	Description:      "Sports and event booking marketplace",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
