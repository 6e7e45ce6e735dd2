// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler annotations.
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
        "/extractions": {
            "post": {
                "description": "Upload one or more PDFs, or paste case text, and extract the case fields as a table.\nFiles take precedence: text is only processed when no file is uploaded.\nDocuments are processed in submission order and one failure does not stop the rest.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["extractions"],
                "summary": "Extract case data",
                "parameters": [
                    {"type": "file", "description": "PDF documents (repeat the field for several files)", "name": "files", "in": "formData"},
                    {"type": "string", "description": "Case text, used when no file is uploaded", "name": "text", "in": "formData"}
                ],
                "responses": {
                    "200": {
                        "description": "Per-document outcomes and the combined table",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/domain.BatchResult"}}}
                            ]
                        }
                    },
                    "400": {"description": "No input or too many files", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "422": {"description": "No relevant data found", "schema": {"$ref": "#/definitions/handler.NoDataResponseBody"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/extractions/export": {
            "post": {
                "description": "Same input as Extract; returns the extracted table as a file. A single document\ndownloads as extracted_data_<name>, several as combined_extracted_data.",
                "consumes": ["multipart/form-data"],
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["extractions"],
                "summary": "Extract and download",
                "parameters": [
                    {"enum": ["csv", "xlsx"], "type": "string", "default": "csv", "description": "Output format", "name": "format", "in": "query"},
                    {"type": "file", "description": "PDF documents (repeat the field for several files)", "name": "files", "in": "formData"},
                    {"type": "string", "description": "Case text, used when no file is uploaded", "name": "text", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Extracted table", "schema": {"type": "file"}},
                    "400": {"description": "No input, too many files or bad format", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "422": {"description": "No relevant data found", "schema": {"$ref": "#/definitions/handler.NoDataResponseBody"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}}
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ReadinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Artifact": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"},
                "location": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "domain.BatchResult": {
            "type": "object",
            "properties": {
                "artifact": {"$ref": "#/definitions/domain.Artifact"},
                "combined": {"$ref": "#/definitions/tabular.Table"},
                "documents": {"type": "array", "items": {"$ref": "#/definitions/domain.DocumentResult"}},
                "download_name": {"type": "string"},
                "failed": {"type": "integer"},
                "succeeded": {"type": "integer"}
            }
        },
        "domain.DocumentResult": {
            "type": "object",
            "properties": {
                "artifact": {"$ref": "#/definitions/domain.Artifact"},
                "download_name": {"type": "string"},
                "error_code": {"type": "string"},
                "message": {"type": "string"},
                "model": {"type": "string"},
                "page_count": {"type": "integer"},
                "raw_csv": {"type": "string"},
                "skipped_rows": {"type": "integer"},
                "source": {"type": "string"},
                "status": {"$ref": "#/definitions/domain.DocumentStatus"},
                "table": {"$ref": "#/definitions/tabular.Table"}
            }
        },
        "domain.DocumentStatus": {
            "type": "string",
            "enum": ["extracted", "no_data", "malformed", "missing", "rejected", "transport_error", "header_mismatch"],
            "x-enum-varnames": [
                "DocumentStatusExtracted",
                "DocumentStatusNoData",
                "DocumentStatusMalformed",
                "DocumentStatusMissing",
                "DocumentStatusRejected",
                "DocumentStatusTransportError",
                "DocumentStatusHeaderMismatch"
            ]
        },
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "no model provider configured"},
                "status": {"type": "string", "example": "ok"}
            }
        },
        "handler.NoDataResponseBody": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.ReadinessResponse": {
            "type": "object",
            "properties": {
                "providers": {"type": "array", "items": {"type": "string"}, "example": ["gemini", "claude"]},
                "status": {"type": "string", "example": "ok"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "success": {"type": "boolean", "example": true}
            }
        },
        "tabular.Table": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"type": "string"}},
                "rows": {"type": "array", "items": {"type": "array", "items": {"type": "string"}}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Legal Document Extraction API",
	Description:      "Extracts case data from legal documents with a language model and returns it as CSV.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
