// Package docs registers the OpenAPI description of the HTTP API with swag
// so gin-swagger can serve it. The document is maintained by hand alongside
// the handler annotations; keep both in step when a route changes.
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
        "/accounts": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "List accounts", "parameters": [{"type": "boolean", "name": "includeInactive", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Create a new account", "parameters": [{"name": "account", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateAccountRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid request format"}, "409": {"description": "Duplicate code"}}}
        },
        "/accounts/{code}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Get an account by code", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Account not found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Update an account", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Referential integrity"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Delete an account", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Account is referenced"}}}
        },
        "/accounts/{code}/deactivate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Deactivate an account", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/journals": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["journals"], "summary": "List journals", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["journals"], "summary": "Create a journal", "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate name"}}}
        },
        "/journals/{name}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["journals"], "summary": "Get a journal by name", "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Journal not found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["journals"], "summary": "Delete a journal", "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Journal is referenced"}}}
        },
        "/chart/seed": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["journals"], "summary": "Seed the default chart of accounts", "responses": {"200": {"description": "OK"}}}
        },
        "/transactions": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "List transactions", "parameters": [{"type": "string", "name": "journal", "in": "query"}, {"type": "string", "name": "accountCode", "in": "query"}, {"type": "boolean", "name": "posted", "in": "query"}, {"type": "integer", "default": 20, "name": "limit", "in": "query"}, {"type": "string", "name": "nextToken", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Create and post a transaction", "responses": {"201": {"description": "Created"}, "400": {"description": "Malformed lines"}, "422": {"description": "Debits do not equal credits"}}}
        },
        "/transactions/drafts": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Save a draft transaction", "responses": {"201": {"description": "Created"}}}
        },
        "/transactions/{transactionID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Get a transaction with its lines", "parameters": [{"type": "string", "name": "transactionID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Transaction not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Edit a draft transaction", "parameters": [{"type": "string", "name": "transactionID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Posted transactions are immutable"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Delete a draft", "parameters": [{"type": "string", "name": "transactionID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Posted transactions are immutable"}}}
        },
        "/transactions/{transactionID}/post": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Post a draft", "parameters": [{"type": "string", "name": "transactionID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Already posted"}}}
        },
        "/transactions/{transactionID}/reverse": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Reverse a posted transaction", "parameters": [{"type": "string", "name": "transactionID", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "409": {"description": "Source is not posted"}}}
        },
        "/transactions/{transactionID}/unpost": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Unpost a transaction", "parameters": [{"type": "string", "name": "transactionID", "in": "path", "required": true}], "responses": {"409": {"description": "Unpost is not supported"}}}
        },
        "/reports/income-statement": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Generate income statement", "parameters": [{"type": "string", "name": "start", "in": "query"}, {"type": "string", "name": "end", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid report window"}}}
        },
        "/reports/balance-sheet": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Generate balance sheet", "parameters": [{"type": "string", "name": "asOf", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/reports/trial-balance": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Generate trial balance", "parameters": [{"type": "string", "name": "asOf", "in": "query"}, {"type": "string", "name": "start", "in": "query"}, {"type": "string", "name": "end", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Missing, mixed or invalid report window"}}}
        },
        "/balances": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["balances"], "summary": "List cached balances", "parameters": [{"type": "string", "name": "period", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/balances/rebuild": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["balances"], "summary": "Rebuild the balance cache", "responses": {"200": {"description": "OK"}}}
        },
        "/balances/verify": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["balances"], "summary": "Verify the balance cache", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "dto.CreateAccountRequest": {
            "type": "object",
            "required": ["accountType", "code", "name"],
            "properties": {
                "accountType": {"type": "string", "enum": ["ASSET", "LIABILITY", "EQUITY", "INCOME", "EXPENSE", "CONTRA_ASSET", "CONTRA_LIABILITY"]},
                "code": {"type": "string", "maxLength": 32},
                "isActive": {"type": "boolean"},
                "name": {"type": "string", "maxLength": 255},
                "normalDebit": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Ledger Engine API",
	Description:      "Double-entry bookkeeping ledger: chart of accounts, posting, reversal and financial reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
