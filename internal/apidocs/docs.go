// Package apidocs registers the OpenAPI document served by the Swagger UI.
// Regenerate with `swag init` after changing handler annotations.
package apidocs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/score": {
            "post": {
                "description": "The first line is the header; every following line is scored by the model in the model directory.",
                "consumes": ["text/plain", "text/csv"],
                "produces": ["application/json"],
                "tags": ["scoring"],
                "summary": "Score a CSV payload",
                "parameters": [
                    {
                        "description": "CSV with header row",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "string"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ScoreResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Pipeline status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ScoreResponse": {
            "type": "object",
            "properties": {
                "predictions": {"type": "array", "items": {"type": "number"}, "example": [123869.9921875, 153666.09375]}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "malformed input: row 2: expected 80 fields, got 79"},
                "code": {"type": "integer", "example": 400}
            }
        },
        "types.ArtifactStatus": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "name": {"type": "string"},
                "kind": {"type": "string"},
                "size_bytes": {"type": "integer"},
                "mod_time_unix": {"type": "integer"},
                "loaded_at_unix": {"type": "integer"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "model_dir": {"type": "string"},
                "artifact_policy": {"type": "string"},
                "cache_enabled": {"type": "boolean"},
                "artifact": {"$ref": "#/definitions/types.ArtifactStatus"},
                "last_error": {"type": "string"},
                "inflight": {"type": "integer"},
                "queue_len": {"type": "integer"},
                "max_inflight": {"type": "integer"},
                "requests_total": {"type": "integer"},
                "rows_total": {"type": "integer"},
                "loads_total": {"type": "integer"},
                "cache_hits_total": {"type": "integer"},
                "uptime_seconds": {"type": "integer"},
                "server_time_unix": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "scoringd API",
	Description:      "HTTP API that scores CSV payloads with a regression model artifact.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
