package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Samudata API",
        "description": "Fisheries document repository: uploads, downloads, activity logs and request tickets.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Files", "description": "Document catalogue, activity log and request tickets"},
        {"name": "System", "description": "Liveness, readiness and metrics"}
    ],
    "paths": {
        "/files": {
            "get": {
                "tags": ["Files"],
                "summary": "Read files, lookups, activity logs and request tickets",
                "produces": ["application/json", "text/csv", "application/pdf"],
                "parameters": [
                    {"name": "action", "in": "query", "type": "string", "default": "list",
                     "enum": ["list", "categories", "regions", "stats", "download", "logs", "log_stats", "requests", "request_stats", "export_logs"]},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "region", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "id", "in": "query", "type": "integer", "description": "File ID for action=download"},
                    {"name": "start_date", "in": "query", "type": "string", "format": "date"},
                    {"name": "end_date", "in": "query", "type": "string", "format": "date"},
                    {"name": "action_filter", "in": "query", "type": "string", "enum": ["upload", "download", "view", "update", "delete"]},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "status_filter", "in": "query", "type": "string"},
                    {"name": "priority_filter", "in": "query", "type": "string"},
                    {"name": "category_filter", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Invalid action or filters", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Files"],
                "summary": "Mutate files and request tickets",
                "consumes": ["application/x-www-form-urlencoded", "multipart/form-data"],
                "parameters": [
                    {"name": "action", "in": "formData", "type": "string", "required": true,
                     "enum": ["favorite", "archive", "delete", "edit", "create_request", "update_request_status"]},
                    {"name": "file_id", "in": "formData", "type": "integer"},
                    {"name": "title", "in": "formData", "type": "string"},
                    {"name": "description", "in": "formData", "type": "string"},
                    {"name": "tags", "in": "formData", "type": "string"},
                    {"name": "category", "in": "formData", "type": "string"},
                    {"name": "priority", "in": "formData", "type": "string", "enum": ["low", "medium", "high"]},
                    {"name": "deadline", "in": "formData", "type": "string", "format": "date"},
                    {"name": "requester_name", "in": "formData", "type": "string"},
                    {"name": "request_id", "in": "formData", "type": "integer"},
                    {"name": "status", "in": "formData", "type": "string", "enum": ["pending", "approved", "completed", "rejected"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Concurrent status change", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/upload": {
            "post": {
                "tags": ["Files"],
                "summary": "Upload a document",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true},
                    {"name": "title", "in": "formData", "type": "string", "required": true},
                    {"name": "description", "in": "formData", "type": "string"},
                    {"name": "category_id", "in": "formData", "type": "integer", "required": true},
                    {"name": "region_id", "in": "formData", "type": "integer", "required": true},
                    {"name": "uploader_name", "in": "formData", "type": "string", "required": true},
                    {"name": "uploader_email", "in": "formData", "type": "string"},
                    {"name": "upload_date", "in": "formData", "type": "string", "format": "date"},
                    {"name": "tags", "in": "formData", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Uploaded", "schema": {"$ref": "#/definitions/UploadResponse"}},
                    "400": {"description": "Validation failed or duplicate", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/download": {
            "get": {
                "tags": ["Files"],
                "summary": "Download a document",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "id", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "File bytes", "schema": {"type": "file"}},
                    "404": {"description": "File not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "code": {"type": "string"},
                "data": {"type": "object"},
                "total": {"type": "integer"}
            }
        },
        "UploadResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "file_id": {"type": "integer"},
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
