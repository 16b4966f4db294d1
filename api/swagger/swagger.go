package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Timetable API",
        "description": "Constraint-based course section timetabling service",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Scheduler", "description": "Timetable scheduling runs and exports"}
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
        "/api/v1/schedule/runs": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Run the timetable scheduler for a term",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RunScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No sections or no active classrooms for the term"}
                }
            }
        },
        "/api/v1/schedule/runs/async": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Queue a timetable scheduling run",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RunScheduleRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule/runs/{term}": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Latest scheduling run result for a term",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No run result available"}
                }
            },
            "delete": {
                "tags": ["Scheduler"],
                "summary": "Clear the committed timetable for a term",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/schedule/runs/{term}/export": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Export the committed timetable as CSV or PDF",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Timetable file"},
                    "404": {"description": "No committed timetable for the term"}
                }
            }
        }
    },
    "definitions": {
        "RunScheduleRequest": {
            "type": "object",
            "properties": {
                "termId": {"type": "string"},
                "commit": {"type": "boolean"},
                "maxNodes": {"type": "integer"}
            },
            "required": ["termId"]
        },
        "AssignmentProposal": {
            "type": "object",
            "properties": {
                "sectionId": {"type": "string"},
                "classroomId": {"type": "string"},
                "dayOfWeek": {"type": "integer"},
                "day": {"type": "string"},
                "timeSlotId": {"type": "integer"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"}
            }
        },
        "UnassignedSection": {
            "type": "object",
            "properties": {
                "sectionId": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "RunStatistics": {
            "type": "object",
            "properties": {
                "totalSections": {"type": "integer"},
                "scheduled": {"type": "integer"},
                "unscheduled": {"type": "integer"},
                "backtrackCount": {"type": "integer"},
                "nodeCount": {"type": "integer"},
                "durationMs": {"type": "integer"}
            }
        },
        "ScheduleRunResponse": {
            "type": "object",
            "properties": {
                "runId": {"type": "string"},
                "termId": {"type": "string"},
                "success": {"type": "boolean"},
                "committed": {"type": "boolean"},
                "assignments": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AssignmentProposal"}
                },
                "unassigned": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/UnassignedSection"}
                },
                "stats": {"$ref": "#/definitions/RunStatistics"},
                "generatedAt": {"type": "string"}
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
