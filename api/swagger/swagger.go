package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Training Attendance API",
        "description": "Trainings, participants and attendance status reporting",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session handling"},
        {"name": "Trainings", "description": "Training and roster management"},
        {"name": "Participants", "description": "Participant registry and bulk import"},
        {"name": "Attendance", "description": "Dated presence records"},
        {"name": "Status", "description": "Participant × date status matrix and exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Access token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid username or password"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "security": [{"Bearer": []}],
                "responses": {
                    "204": {"description": "Session closed"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current identity",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/trainings": {
            "get": {
                "tags": ["Trainings"],
                "summary": "List trainings",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Trainings"],
                "summary": "Create training",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateTrainingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Training name already used"}
                }
            }
        },
        "/trainings/{id}": {
            "get": {
                "tags": ["Trainings"],
                "summary": "Get training with roster",
                "security": [{"Bearer": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Training not found"}
                }
            },
            "put": {
                "tags": ["Trainings"],
                "summary": "Update training",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Training not found"}
                }
            },
            "delete": {
                "tags": ["Trainings"],
                "summary": "Delete training",
                "security": [{"Bearer": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Training not found"}
                }
            }
        },
        "/trainings/{id}/participants": {
            "post": {
                "tags": ["Trainings"],
                "summary": "Assign participants",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/AssignParticipantsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Count of newly enrolled participants"}
                }
            },
            "delete": {
                "tags": ["Trainings"],
                "summary": "Remove participants with a reason",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RemoveParticipantsRequest"}}
                ],
                "responses": {
                    "204": {"description": "Removed"},
                    "400": {"description": "Reason missing or participant not enrolled"}
                }
            }
        },
        "/trainings/{id}/removals": {
            "get": {
                "tags": ["Trainings"],
                "summary": "Removal audit trail",
                "security": [{"Bearer": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/trainings/{id}/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List raw attendance records",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Record attendance for one date",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RecordAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Recorded"},
                    "400": {"description": "Missing topic, bad date or unenrolled participant"}
                }
            }
        },
        "/trainings/{id}/status": {
            "get": {
                "tags": ["Status"],
                "summary": "Attendance status matrix",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No attendance data"}
                }
            }
        },
        "/trainings/{id}/status/export": {
            "get": {
                "tags": ["Status"],
                "summary": "Download the status matrix as csv, xlsx or pdf",
                "security": [{"Bearer": []}],
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "xlsx", "pdf"]},
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "404": {"description": "No attendance data"}
                }
            }
        },
        "/participants": {
            "get": {
                "tags": ["Participants"],
                "summary": "List participants",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Participants"],
                "summary": "Create participant",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateParticipantRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/participants/{id}": {
            "get": {
                "tags": ["Participants"],
                "summary": "Get participant",
                "security": [{"Bearer": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Participant not found"}
                }
            },
            "put": {
                "tags": ["Participants"],
                "summary": "Update participant",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateParticipantRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/participants/import": {
            "post": {
                "tags": ["Participants"],
                "summary": "Bulk import participants from CSV or XLSX",
                "security": [{"Bearer": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "formData", "name": "file", "type": "file", "required": true}
                ],
                "responses": {
                    "200": {"description": "Count of imported rows"},
                    "400": {"description": "Missing column or unparsable file; nothing persisted"}
                }
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateTrainingRequest": {
            "type": "object",
            "required": ["name", "trainer_name", "start_date", "days"],
            "properties": {
                "name": {"type": "string"},
                "trainer_name": {"type": "string"},
                "description": {"type": "string"},
                "start_date": {"type": "string", "format": "date-time"},
                "days": {"type": "array", "items": {"type": "string"}}
            }
        },
        "AssignParticipantsRequest": {
            "type": "object",
            "required": ["participant_ids"],
            "properties": {
                "participant_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "RemoveParticipantsRequest": {
            "type": "object",
            "required": ["participant_ids", "reason"],
            "properties": {
                "participant_ids": {"type": "array", "items": {"type": "string"}},
                "reason": {"type": "string"}
            }
        },
        "RecordAttendanceRequest": {
            "type": "object",
            "required": ["date", "topic"],
            "properties": {
                "date": {"type": "string", "example": "2024-01-08"},
                "topic": {"type": "string"},
                "present": {"type": "object", "additionalProperties": {"type": "boolean"}}
            }
        },
        "CreateParticipantRequest": {
            "type": "object",
            "required": ["name", "email", "phone"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
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
                "pagination": {"$ref": "#/definitions/Pagination"}
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
