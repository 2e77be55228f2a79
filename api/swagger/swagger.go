package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Department Timetable API",
        "description": "Weekly department timetable generation and distribution service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Authentication", "description": "Coordinator and faculty login"},
        {"name": "Timetable", "description": "Generation runs and the stored weekly schedule"},
        {"name": "Faculty", "description": "Per-teacher schedule views"},
        {"name": "Exports", "description": "CSV and PDF downloads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/timetable/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate weekly timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "Generated schedule with conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"},
                    "412": {"description": "Missing subjects or rooms"}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Current weekly timetable",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Stored week schedule"},
                    "404": {"description": "No timetable generated yet"}
                }
            }
        },
        "/timetable/conflicts": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Re-check conflicts in the stored timetable",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Conflict list"},
                    "404": {"description": "No timetable generated yet"}
                }
            }
        },
        "/timetable/workloads": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Weekly hours per teacher",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Workload rows in roster order"},
                    "404": {"description": "No timetable generated yet"}
                }
            }
        },
        "/timetable/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the department timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Rendered file"},
                    "400": {"description": "Unsupported format"},
                    "404": {"description": "No timetable generated yet"}
                }
            }
        },
        "/faculty": {
            "get": {
                "tags": ["Faculty"],
                "summary": "Faculty roster from the last generation run",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Roster"},
                    "404": {"description": "No timetable generated yet"}
                }
            }
        },
        "/faculty/{id}/schedule": {
            "get": {
                "tags": ["Faculty"],
                "summary": "One teacher's weekly schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Day-grouped schedule"},
                    "403": {"description": "Faculty may only view their own schedule"},
                    "404": {"description": "Faculty not found"}
                }
            }
        },
        "/faculty/{id}/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download one teacher's weekly schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Rendered file"},
                    "404": {"description": "Faculty not found"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["role", "password"],
            "properties": {
                "role": {"type": "string", "enum": ["COORDINATOR", "FACULTY"]},
                "facultyId": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "required": ["sections", "faculty"],
            "properties": {
                "sections": {"type": "array", "items": {"type": "string"}},
                "faculty": {"type": "array", "items": {"$ref": "#/definitions/FacultyInput"}},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/SubjectInput"}},
                "theoryRooms": {"type": "array", "items": {"type": "string"}},
                "labRooms": {"type": "array", "items": {"type": "string"}},
                "timing": {"$ref": "#/definitions/TimingConfig"},
                "roomPolicy": {"type": "string", "enum": ["dual_pool", "single_pool"]}
            }
        },
        "FacultyInput": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "SubjectInput": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "hasLab": {"type": "boolean"}
            }
        },
        "TimingConfig": {
            "type": "object",
            "properties": {
                "startTime": {"type": "string", "example": "09:00"},
                "endTime": {"type": "string", "example": "14:15"},
                "periodDuration": {"type": "integer"},
                "breakDuration": {"type": "integer"},
                "breakAfterPeriods": {"type": "integer"},
                "labDuration": {"type": "integer"}
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
                "pagination": {"type": "object"},
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
