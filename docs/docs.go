// Package docs registers the OpenAPI document of the order API with swag so
// echo-swagger can serve it under /swagger/*.
package docs

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
    "securityDefinitions": {
        "ActorID": {"type": "apiKey", "name": "X-Actor-ID", "in": "header"},
        "ActorRole": {"type": "apiKey", "name": "X-Actor-Role", "in": "header"},
        "ActorShopID": {"type": "apiKey", "name": "X-Actor-Shop-ID", "in": "header"}
    },
    "security": [{"ActorID": [], "ActorRole": []}],
    "paths": {
        "/orders": {
            "post": {
                "tags": ["orders"],
                "summary": "Place an order",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOrderRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/OrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/orders/{orderId}": {
            "get": {
                "tags": ["orders"],
                "summary": "Read an order",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "orderId", "type": "string", "format": "uuid", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OrderResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/orders/{orderId}/status": {
            "post": {
                "tags": ["orders"],
                "summary": "Advance an order",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "orderId", "type": "string", "format": "uuid", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeStatusRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/orders/{orderId}/otp": {
            "post": {
                "tags": ["orders"],
                "summary": "Confirm delivery with the buyer's code",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "orderId", "type": "string", "format": "uuid", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateOTPRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "423": {"description": "Locked", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/orders/{orderId}/cancel": {
            "post": {
                "tags": ["orders"],
                "summary": "Cancel an order",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "orderId", "type": "string", "format": "uuid", "required": true},
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/CancelOrderRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/me/orders": {
            "get": {
                "tags": ["orders"],
                "summary": "List own orders",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "offset", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/OrderSummaryResponse"}}}
                }
            }
        },
        "/shops/{shopId}/orders": {
            "get": {
                "tags": ["orders"],
                "summary": "List orders containing a shop's items",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "shopId", "type": "string", "format": "uuid", "required": true},
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "offset", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/OrderSummaryResponse"}}}
                }
            }
        },
        "/payments/captured": {
            "post": {
                "tags": ["payments"],
                "summary": "Record a captured payment",
                "consumes": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/PaymentCapturedRequest"}}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/delivery/quote": {
            "get": {
                "tags": ["delivery"],
                "summary": "Quote a delivery fee",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "campus", "type": "string", "required": true, "enum": ["HARAR_CAMPUS", "HARAMAYA_MAIN", "DIRE_DAWA_CAMPUS"]},
                    {"in": "query", "name": "origin", "type": "array", "items": {"type": "string", "enum": ["HARAR", "DIRE_DAWA"]}, "collectionFormat": "multi", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/QuoteResponse"}}
                }
            }
        },
        "/admin/orders/{orderId}/status": {
            "post": {
                "tags": ["admin"],
                "summary": "Force an order status",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "orderId", "type": "string", "format": "uuid", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AdminChangeStatusRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/orders/{orderId}/refund": {
            "post": {
                "tags": ["admin"],
                "summary": "Cancel and refund an order",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "orderId", "type": "string", "format": "uuid", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AdminRefundRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {"type": "object", "properties": {"code": {"type": "string"}}},
        "CartLineRequest": {"type": "object", "required": ["productId", "quantity"], "properties": {"productId": {"type": "string", "format": "uuid"}, "quantity": {"type": "integer", "minimum": 1}}},
        "CreateOrderRequest": {"type": "object", "required": ["campus", "items"], "properties": {"campus": {"type": "string"}, "locale": {"type": "string"}, "items": {"type": "array", "items": {"$ref": "#/definitions/CartLineRequest"}}}},
        "ChangeStatusRequest": {"type": "object", "required": ["status"], "properties": {"status": {"type": "string"}, "reason": {"type": "string"}}},
        "ValidateOTPRequest": {"type": "object", "required": ["code"], "properties": {"code": {"type": "string", "pattern": "^[0-9]{6}$"}}},
        "CancelOrderRequest": {"type": "object", "properties": {"reason": {"type": "string"}}},
        "PaymentCapturedRequest": {"type": "object", "required": ["orderId"], "properties": {"orderId": {"type": "string", "format": "uuid"}}},
        "AdminChangeStatusRequest": {"type": "object", "required": ["status", "reason"], "properties": {"status": {"type": "string"}, "reason": {"type": "string"}}},
        "AdminRefundRequest": {"type": "object", "required": ["reason"], "properties": {"reason": {"type": "string"}}},
        "OrderItemResponse": {"type": "object", "properties": {"lineNo": {"type": "integer"}, "productId": {"type": "string"}, "shopId": {"type": "string"}, "productName": {"type": "string"}, "quantity": {"type": "integer"}, "priceAtPurchase": {"type": "string"}, "originCity": {"type": "string"}}},
        "StatusChangeResponse": {"type": "object", "properties": {"from": {"type": "string"}, "to": {"type": "string"}, "at": {"type": "string", "format": "date-time"}, "actorId": {"type": "string"}, "actorRole": {"type": "string"}}},
        "OrderResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "buyerId": {"type": "string"}, "campus": {"type": "string"}, "locale": {"type": "string"}, "status": {"type": "string"},
            "items": {"type": "array", "items": {"$ref": "#/definitions/OrderItemResponse"}},
            "totalAmount": {"type": "string"}, "deliveryFee": {"type": "string"}, "etaMinMinutes": {"type": "integer"}, "etaMaxMinutes": {"type": "integer"},
            "otpCode": {"type": "string"}, "otpAttempts": {"type": "integer"}, "locked": {"type": "boolean"},
            "cancellationReason": {"type": "string"}, "refundInitiated": {"type": "boolean"}, "refundAmount": {"type": "string"},
            "escrowReleasedAt": {"type": "string", "format": "date-time"},
            "history": {"type": "array", "items": {"$ref": "#/definitions/StatusChangeResponse"}},
            "createdAt": {"type": "string", "format": "date-time"}, "updatedAt": {"type": "string", "format": "date-time"}
        }},
        "OrderSummaryResponse": {"type": "object", "properties": {"id": {"type": "string"}, "buyerId": {"type": "string"}, "campus": {"type": "string"}, "status": {"type": "string"}, "totalAmount": {"type": "string"}, "deliveryFee": {"type": "string"}, "subtotal": {"type": "string"}, "itemCount": {"type": "integer"}, "createdAt": {"type": "string", "format": "date-time"}}},
        "QuoteResponse": {"type": "object", "properties": {"fee": {"type": "string"}, "etaMinMinutes": {"type": "integer"}, "etaMaxMinutes": {"type": "integer"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Campus market order API",
	Description:      "Order lifecycle, delivery confirmation and escrow for campus deliveries.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
