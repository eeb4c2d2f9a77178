package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Kosher Directory API",
        "description": "Community directory of kosher restaurants with a moderation workflow",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Restaurants", "description": "Public listing, submission and moderation"},
        {"name": "Auth", "description": "Moderator sessions"}
    ],
    "paths": {
        "/restaurants": {
            "get": {
                "tags": ["Restaurants"],
                "summary": "List restaurants",
                "description": "Without a credential only approved entries are returned. With a valid moderator password or session every entry is returned, pending first.",
                "parameters": [
                    {"name": "password", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Restaurants"],
                "summary": "Submit a restaurant for approval",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing required field", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/restaurants/{id}/status": {
            "post": {
                "tags": ["Restaurants"],
                "summary": "Approve or reject a restaurant",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Restaurant not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/restaurants/{id}": {
            "put": {
                "tags": ["Restaurants"],
                "summary": "Edit a restaurant",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EditRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Restaurant not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Restaurants"],
                "summary": "Delete a restaurant",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "password", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Restaurant not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/restaurants/export": {
            "get": {
                "tags": ["Restaurants"],
                "summary": "Download the directory as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "password", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange the moderator password for a session token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Restaurant": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "restaurantName": {"type": "string"},
                "city": {"type": "string"},
                "website": {"type": "string"},
                "kashrut": {"type": "string"},
                "dateAdded": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]}
            }
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "restaurantName": {"type": "string"},
                "city": {"type": "string"},
                "website": {"type": "string"},
                "kashrut": {"type": "string"}
            },
            "required": ["restaurantName", "kashrut"]
        },
        "SetStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["approved", "rejected"]},
                "password": {"type": "string"}
            },
            "required": ["status"]
        },
        "EditRequest": {
            "type": "object",
            "properties": {
                "restaurantName": {"type": "string"},
                "city": {"type": "string"},
                "website": {"type": "string"},
                "kashrut": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["restaurantName", "kashrut"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            },
            "required": ["password"]
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "message": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
