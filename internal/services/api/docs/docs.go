// Package docs holds the OpenAPI document served by swaggerkit
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/meta/health": {
            "get": {"tags": ["Meta"], "summary": "Liveness and uptime", "responses": {"200": {"description": "ok"}}}
        },
        "/meta/ready": {
            "get": {"tags": ["Meta"], "summary": "Readiness probe over the stores and the intake watermark", "responses": {"200": {"description": "ok"}}}
        },
        "/meta/version": {
            "get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}
        },
        "/admin/reminders": {
            "get": {
                "tags": ["Admin"], "summary": "Reminders owned by a user", "security": [{"bearer": []}],
                "parameters": [{"name": "owner", "in": "query", "required": true, "schema": {"type": "string"}}],
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ReminderList"}}}}}
            },
            "delete": {
                "tags": ["Admin"], "summary": "Delete every reminder of a user", "security": [{"bearer": []}],
                "parameters": [{"name": "owner", "in": "query", "required": true, "schema": {"type": "string"}}],
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/DeleteResult"}}}}}
            }
        },
        "/admin/reminders/due": {
            "get": {
                "tags": ["Admin"], "summary": "Reminders due now", "security": [{"bearer": []}],
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ReminderList"}}}}}
            }
        },
        "/admin/reminders/{id}": {
            "get": {
                "tags": ["Admin"], "summary": "One reminder", "security": [{"bearer": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}],
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Reminder"}}}}}
            },
            "delete": {
                "tags": ["Admin"], "summary": "Delete one reminder", "security": [{"bearer": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}],
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/DeleteResult"}}}}}
            }
        },
        "/admin/acks/{threadID}": {
            "get": {
                "tags": ["Admin"], "summary": "Acknowledgement posted in a thread", "security": [{"bearer": []}],
                "parameters": [{"name": "threadID", "in": "path", "required": true, "schema": {"type": "string"}}],
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ThreadAck"}}}}}
            },
            "delete": {
                "tags": ["Admin"], "summary": "Forget a thread acknowledgement", "security": [{"bearer": []}],
                "parameters": [
                    {"name": "threadID", "in": "path", "required": true, "schema": {"type": "string"}},
                    {"name": "delete_reply", "in": "query", "schema": {"type": "boolean"}}
                ],
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/DeleteResult"}}}}}
            }
        },
        "/admin/watermark": {
            "get": {
                "tags": ["Admin"], "summary": "Ingestion cursor", "security": [{"bearer": []}],
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Watermark"}}}}}
            },
            "put": {
                "tags": ["Admin"], "summary": "Move the ingestion cursor", "security": [{"bearer": []}],
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Watermark"}}}},
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Watermark"}}}}}
            }
        }
    },
    "components": {
        "securitySchemes": {
            "bearer": {"type": "http", "scheme": "bearer"}
        },
        "schemas": {
            "Reminder": {
                "type": "object",
                "properties": {
                    "id": {"type": "integer"},
                    "source": {"type": "string"},
                    "requested_at": {"type": "string", "format": "date-time"},
                    "target_at": {"type": "string", "format": "date-time"},
                    "message": {"type": "string"},
                    "owner": {"type": "string"}
                }
            },
            "ReminderList": {
                "type": "object",
                "properties": {
                    "owner": {"type": "string"},
                    "count": {"type": "integer"},
                    "reminders": {"type": "array", "items": {"$ref": "#/components/schemas/Reminder"}}
                }
            },
            "ThreadAck": {
                "type": "object",
                "properties": {
                    "id": {"type": "integer"},
                    "thread_id": {"type": "string"},
                    "ack_item_id": {"type": "string"},
                    "count": {"type": "integer"},
                    "owner": {"type": "string"},
                    "target_at": {"type": "string", "format": "date-time"}
                }
            },
            "DeleteResult": {
                "type": "object",
                "properties": {
                    "deleted": {"type": "integer"},
                    "reply_deleted": {"type": "boolean"}
                }
            },
            "Watermark": {
                "type": "object",
                "properties": {
                    "watermark": {"type": "string", "format": "date-time"},
                    "lag_seconds": {"type": "integer"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "remindme API",
	Description:      "Operator endpoints for the reminder bot.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
