// Package docs регистрирует описание API для swaggo/http-swagger.
// Спецификация собирается командой swag init -g cmd/server/server.go.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RegisterInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/items": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "List items",
                "parameters": [
                    {"type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Substring of name or description", "name": "search", "in": "query"},
                    {"type": "string", "description": "Substring of category", "name": "category", "in": "query"},
                    {"type": "number", "description": "Minimum price", "name": "minPrice", "in": "query"},
                    {"type": "number", "description": "Maximum price", "name": "maxPrice", "in": "query"},
                    {"type": "string", "description": "createdAt, name, quantity or price", "name": "sortBy", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "sortOrder", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/items/add": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Create item",
                "parameters": [
                    {"description": "Item", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.itemRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/items/low-stock": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Low stock items",
                "parameters": [
                    {"type": "integer", "description": "Quantity threshold (default 10)", "name": "threshold", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/items/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Dashboard stats",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/items/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Get item",
                "parameters": [
                    {"type": "string", "description": "Item ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Update item",
                "parameters": [
                    {"type": "string", "description": "Item ID", "name": "id", "in": "path", "required": true},
                    {"description": "Item", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.itemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Delete item",
                "parameters": [
                    {"type": "string", "description": "Item ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorBody": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/validation.FieldError"}}
            }
        },
        "handlers.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "message": {"type": "string"},
                "error": {"$ref": "#/definitions/handlers.ErrorBody"}
            }
        },
        "handlers.itemRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "itemName": {"type": "string"},
                "quantity": {"type": "number"},
                "price": {"type": "number"},
                "description": {"type": "string"},
                "category": {"type": "string"}
            }
        },
        "models.LoginInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "models.RegisterInput": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "email": {"type": "string", "maxLength": 254},
                "password": {"type": "string", "maxLength": 72, "minLength": 6},
                "username": {"type": "string", "maxLength": 50, "minLength": 3}
            }
        },
        "validation.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo содержит метаданные API.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Inventory API",
	Description:      "Inventory management REST API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
