// Package docs registers the OpenAPI document served at /swagger/doc.json.
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
        "/predict": {
            "post": {
                "description": "Derives model features from a first-innings match state and returns the predicted final score",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Predictions"],
                "summary": "Predict Final Score",
                "parameters": [
                    {
                        "description": "Match state",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.MatchForm"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PredictionResult"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "Invalid input", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Model failure", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/catalog": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Predictions"],
                "summary": "List Teams and Cities",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Catalog"}}
                }
            }
        },
        "/predictions/summary": {
            "get": {
                "description": "Groups the ClickHouse audit trail by a dimension and aggregates a metric",
                "produces": ["application/json"],
                "tags": ["Predictions"],
                "summary": "Summarise Served Predictions",
                "parameters": [
                    {"type": "string", "description": "batting_team, bowling_team, city, model, source, wicket_left or day", "name": "dimension", "in": "query"},
                    {"type": "string", "description": "count, avg_prediction, max_prediction, min_prediction, avg_run_rate, cache_hit_rate, avg_latency_ms or p95_latency_ms", "name": "metric", "in": "query"},
                    {"type": "string", "description": "Filter by batting team", "name": "batting_team", "in": "query"},
                    {"type": "string", "description": "Filter by bowling team", "name": "bowling_team", "in": "query"},
                    {"type": "string", "description": "Filter by city", "name": "city", "in": "query"},
                    {"type": "string", "description": "Filter by model name", "name": "model", "in": "query"},
                    {"type": "string", "description": "RFC3339 start time", "name": "from", "in": "query"},
                    {"type": "string", "description": "RFC3339 end time", "name": "to", "in": "query"},
                    {"type": "integer", "description": "Max rows (default 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.AuditSummaryRow"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "ClickHouse sink not configured", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/system/install": {
            "post": {
                "description": "Applies the audit schema for the configured sink",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Install Audit Schema",
                "security": [{"AdminToken": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.InstallResponse"}},
                    "400": {"description": "No SQL sink", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Install failed", "schema": {"$ref": "#/definitions/models.InstallResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.MatchForm": {
            "type": "object",
            "properties": {
                "batting_team": {"type": "string", "example": "India"},
                "bowling_team": {"type": "string", "example": "Australia"},
                "city": {"type": "string", "example": "Mumbai"},
                "current_score": {"type": "string", "example": "83"},
                "overs": {"type": "string", "example": "10.2"},
                "wickets": {"type": "string", "example": "2"},
                "last_five": {"type": "string", "example": "41"}
            }
        },
        "models.FeatureRow": {
            "type": "object",
            "properties": {
                "batting_team": {"type": "string"},
                "bowling_team": {"type": "string"},
                "city": {"type": "string"},
                "current_score": {"type": "integer"},
                "balls_left": {"type": "number"},
                "wicket_left": {"type": "integer"},
                "current_run_rate": {"type": "number"},
                "last_five": {"type": "integer"}
            }
        },
        "models.PredictionResult": {
            "type": "object",
            "properties": {
                "prediction": {"type": "integer"},
                "features": {"$ref": "#/definitions/models.FeatureRow"},
                "model": {"type": "string"},
                "cached": {"type": "boolean"}
            }
        },
        "models.Catalog": {
            "type": "object",
            "properties": {
                "teams": {"type": "array", "items": {"type": "string"}},
                "cities": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.AuditSummaryRow": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "value": {"type": "number"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "field": {"type": "string"}
            }
        },
        "models.InstallResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "sink": {"type": "string"},
                "results": {"type": "object", "additionalProperties": {"type": "string"}},
                "error": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "AdminToken": {
            "type": "apiKey",
            "name": "X-Admin-Token",
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
	Title:            "T20 Score Predictor API",
	Description:      "Predicts the final first-innings score of a T20 international from the current match state.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
