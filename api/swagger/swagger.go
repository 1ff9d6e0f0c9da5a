package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutor Onboarding Scheduling API",
        "description": "Availability rules, slot generation and interview bookings",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Availability", "description": "Bookable slot generation and export"},
        {"name": "Rules", "description": "Availability and exclusion rule lifecycle"},
        {"name": "Bookings", "description": "Interview slot validation and confirmation"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/owners/{kind}/{id}/slots": {
            "get": {
                "tags": ["Availability"],
                "summary": "List bookable slots for an owner",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["tutors", "reviewers"]},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"},
                    {"name": "duration", "in": "query", "type": "integer", "description": "Slot duration in minutes"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/owners/{kind}/{id}/slots/export": {
            "get": {
                "tags": ["Availability"],
                "summary": "Export bookable slots as CSV or PDF",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/owners/{kind}/{id}/rules": {
            "get": {
                "tags": ["Rules"],
                "summary": "List an owner's availability rules",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "ruleKind", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/owners/{kind}/{id}/rules/one-off": {
            "post": {
                "tags": ["Rules"],
                "summary": "Add a one-off availability slot",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOneOffSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Slot overlaps an existing rule"}
                }
            }
        },
        "/owners/{kind}/{id}/rules/exclusions": {
            "post": {
                "tags": ["Rules"],
                "summary": "Block time for an owner",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExclusionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/owners/{kind}/{id}/rules/standard": {
            "put": {
                "tags": ["Rules"],
                "summary": "Replace the owner's recurring weekly schedule",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceStandardRulesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/owners/{kind}/{id}/rules/{ruleId}": {
            "patch": {
                "tags": ["Rules"],
                "summary": "Update a rule",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "ruleId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Rules"],
                "summary": "Delete a rule",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "ruleId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/reviewers/{id}/bookings/validate": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Check whether a reviewer slot can be booked",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "Bookable"},
                    "409": {"description": "Slot already booked"},
                    "422": {"description": "Slot not bookable"}
                }
            }
        },
        "/reviewers/{id}/bookings": {
            "get": {
                "tags": ["Bookings"],
                "summary": "List a reviewer's bookings",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Bookings"],
                "summary": "Confirm an interview booking",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Slot already booked"},
                    "422": {"description": "Slot not bookable"}
                }
            }
        }
    },
    "definitions": {
        "CreateOneOffSlotRequest": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"}
            }
        },
        "CreateExclusionRequest": {
            "type": "object",
            "properties": {
                "from_date": {"type": "string", "format": "date-time"},
                "to_date": {"type": "string", "format": "date-time"},
                "full_day": {"type": "boolean"},
                "start_minute": {"type": "integer"},
                "end_minute": {"type": "integer"}
            }
        },
        "ReplaceStandardRulesRequest": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "day_of_week": {"type": "integer"},
                            "start_minute": {"type": "integer"},
                            "end_minute": {"type": "integer"},
                            "active_from": {"type": "string", "format": "date-time"},
                            "active_until": {"type": "string", "format": "date-time"}
                        }
                    }
                }
            }
        },
        "BookingRequest": {
            "type": "object",
            "properties": {
                "tutor_id": {"type": "string"},
                "start_at": {"type": "string", "format": "date-time"},
                "end_at": {"type": "string", "format": "date-time"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
