package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the stock API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r gin.IRouter) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>stockboard - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "stockboard", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "StockOut": { "type": "object", "additionalProperties": { "type": "array", "items": { "type": "string" }, "minItems": 1, "maxItems": 1 } },
      "StockIn": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": { "type": "string" },
          "img": { "type": "string" },
          "release_date": { "type": "string" },
          "category": { "type": "string" },
          "description": { "type": "string" }
        },
        "additionalProperties": true
      },
      "Message": { "type": "string" }
    },
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer" } }
  },
  "paths": {
    "/api/stocks": {
      "get": {
        "summary": "List all stocks in stored order",
        "responses": {
          "200": { "description": "stocks", "content": { "application/json": { "schema": { "type": "array", "items": { "$ref": "#/components/schemas/StockOut" } } } } },
          "500": { "description": "store unreadable or malformed", "content": { "text/plain": { "schema": { "$ref": "#/components/schemas/Message" } } } }
        }
      }
    },
    "/api/add-stock": {
      "post": {
        "summary": "Append a stock",
        "security": [ {}, { "bearer": [] } ],
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "$ref": "#/components/schemas/StockIn" } } } },
        "responses": {
          "201": { "description": "added", "content": { "text/plain": { "schema": { "$ref": "#/components/schemas/Message" } } } },
          "400": { "description": "missing title, malformed or oversized body", "content": { "text/plain": { "schema": { "$ref": "#/components/schemas/Message" } } } },
          "401": { "description": "write token missing or invalid (when write auth is enabled)" },
          "429": { "description": "rate limit exceeded" },
          "500": { "description": "store read, format or write failure" }
        }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics in text exposition format" } } } }
  }
}`
