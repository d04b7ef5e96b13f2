package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {"title": "MUN Club API", "description": "Topics, lessons, attendance and delegations for a Model United Nations club.", "version": "1.0.0"},
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}},
    "tags": [
        {"name": "Topics", "description": "Debate topics"},
        {"name": "Lessons", "description": "Club sessions, one per calendar day"},
        {"name": "Attendance", "description": "Attendance ledger and reports"},
        {"name": "Countries", "description": "Delegations and rosters"},
        {"name": "Documents", "description": "External references attached to delegations"},
        {"name": "Users", "description": "Role management"},
        {"name": "Ops", "description": "Operational endpoints"}
    ],
    "paths": {
        "/topics": {
            "get": {"tags": ["Topics"], "summary": "List topics", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Topics"], "summary": "Create topic", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TopicRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate title", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/topics/by-title": {
            "get": {"tags": ["Topics"], "summary": "Get topic by exact title", "parameters": [{"name": "title", "in": "query", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Topic not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/topics/{id}": {
            "get": {"tags": ["Topics"], "summary": "Get topic", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Topic not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Topics"], "summary": "Edit topic", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TopicRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Topic not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate title", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Topics"], "summary": "Delete topic", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Topic not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Topic in use", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/topics/{id}/countries": {
            "get": {"tags": ["Countries"], "summary": "Delegations of a topic", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/topics/{id}/countries/mine": {
            "get": {"tags": ["Countries"], "summary": "The caller's delegation for a topic", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/topics/{id}/documents": {
            "get": {"tags": ["Documents"], "summary": "Documents of a topic", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/lessons": {
            "get": {"tags": ["Lessons"], "summary": "List lessons", "parameters": [{"name": "order", "in": "query", "type": "string", "enum": ["asc", "desc"]}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Lessons"], "summary": "Schedule lesson", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LessonRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Date conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Topic not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/lessons/{id}": {
            "get": {"tags": ["Lessons"], "summary": "Get lesson with its topic", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Lesson or topic not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Lessons"], "summary": "Edit lesson", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LessonRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Date conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Lesson not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Lessons"], "summary": "Delete lesson", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Lesson not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/lessons/{id}/attendance": {
            "get": {"tags": ["Attendance"], "summary": "Attendance of a lesson", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Attendance"], "summary": "Replace the attendance of a lesson", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetBulkAttendanceRequest"}}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/lessons/{id}/attendance/{userId}": {
            "put": {"tags": ["Attendance"], "summary": "Mark one user present or absent", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}, {"name": "userId", "in": "path", "required": true, "type": "string", "description": "User ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetAttendanceRequest"}}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Lesson or user not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/attendance/report": {
            "get": {"tags": ["Attendance"], "summary": "Attendance report", "parameters": [{"name": "start_date", "in": "query", "type": "string", "required": true, "description": "YYYY-MM-DD or RFC 3339"}, {"name": "end_date", "in": "query", "type": "string", "required": true, "description": "YYYY-MM-DD or RFC 3339"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/attendance/report/export": {
            "get": {"tags": ["Attendance"], "summary": "Download an attendance report", "produces": ["text/csv", "application/pdf"], "parameters": [{"name": "start_date", "in": "query", "type": "string", "required": true, "description": "YYYY-MM-DD or RFC 3339"}, {"name": "end_date", "in": "query", "type": "string", "required": true, "description": "YYYY-MM-DD or RFC 3339"}, {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/attendance/report/exports": {
            "get": {"tags": ["Attendance"], "summary": "List the caller's exports", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Attendance"], "summary": "Queue an attendance report export", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExportRequest"}}], "security": [{"BearerAuth": []}], "responses": {"202": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/attendance/report/exports/{id}": {
            "get": {"tags": ["Attendance"], "summary": "Export status", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Export not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/exports/{token}": {
            "get": {"tags": ["Attendance"], "summary": "Download a finished export", "produces": ["application/octet-stream"], "parameters": [{"name": "token", "in": "path", "required": true, "type": "string", "description": "Signed download token"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/countries": {
            "post": {"tags": ["Countries"], "summary": "Create delegation", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCountryRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Student already delegated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/countries/{id}": {
            "get": {"tags": ["Countries"], "summary": "Get delegation", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Countries"], "summary": "Edit delegation", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCountryRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Countries"], "summary": "Delete delegation", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/countries/{id}/join": {
            "post": {"tags": ["Countries"], "summary": "Join delegation", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Already in another delegation", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/countries/{id}/leave": {
            "post": {"tags": ["Countries"], "summary": "Leave delegation", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/countries/{id}/documents": {
            "get": {"tags": ["Documents"], "summary": "Documents of a delegation", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/documents": {
            "post": {"tags": ["Documents"], "summary": "Attach a document to a delegation", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDocumentRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/documents/{id}": {
            "get": {"tags": ["Documents"], "summary": "Get document", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Documents"], "summary": "Delete document", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/users": {
            "get": {"tags": ["Users"], "summary": "List users", "parameters": [{"name": "role", "in": "query", "type": "array", "items": {"type": "string", "enum": ["STUDENT", "SECRETARY_GENERAL", "TEACHER"]}, "collectionFormat": "multi"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/users/{id}/role": {
            "put": {"tags": ["Users"], "summary": "Change a user's role", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateRoleRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/users/{id}": {
            "delete": {"tags": ["Users"], "summary": "Delete user", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/system/metrics": {
            "get": {"tags": ["Ops"], "summary": "Process counters", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        }
    },
    "definitions": {
        "TopicRequest": {"type": "object", "properties": {"title": {"type": "string"}, "description": {"type": "string"}}, "required": ["title"]},
        "LessonRequest": {"type": "object", "properties": {"location": {"type": "string"}, "date": {"type": "string", "format": "date-time"}, "topic_id": {"type": "string"}}, "required": ["location", "date", "topic_id"]},
        "SetAttendanceRequest": {"type": "object", "properties": {"present": {"type": "boolean"}}, "required": ["present"]},
        "SetBulkAttendanceRequest": {"type": "object", "properties": {"present_user_ids": {"type": "array", "items": {"type": "string"}}}},
        "CreateExportRequest": {"type": "object", "properties": {"start_date": {"type": "string", "format": "date-time"}, "end_date": {"type": "string", "format": "date-time"}, "format": {"type": "string", "enum": ["csv", "pdf"]}}, "required": ["start_date", "end_date", "format"]},
        "CreateCountryRequest": {"type": "object", "properties": {"name": {"type": "string"}, "position": {"type": "string", "enum": ["FOR", "AGAINST", "NEUTRAL"]}, "topic_id": {"type": "string"}, "student_ids": {"type": "array", "items": {"type": "string"}}}, "required": ["name", "position", "topic_id"]},
        "UpdateCountryRequest": {"type": "object", "properties": {"name": {"type": "string"}, "position": {"type": "string", "enum": ["FOR", "AGAINST", "NEUTRAL"]}, "student_ids": {"type": "array", "items": {"type": "string"}}}, "required": ["name", "position"]},
        "CreateDocumentRequest": {"type": "object", "properties": {"country_id": {"type": "string"}, "topic_id": {"type": "string"}, "uri": {"type": "string"}, "name": {"type": "string"}}, "required": ["country_id", "uri"]},
        "UpdateRoleRequest": {"type": "object", "properties": {"role": {"type": "string", "enum": ["STUDENT", "SECRETARY_GENERAL", "TEACHER"]}}, "required": ["role"]},
        "APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}}},
        "ResponseEnvelope": {"type": "object", "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "meta": {"type": "object"}}}
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
