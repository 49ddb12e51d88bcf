package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the quiz API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r gin.IRouter) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>quizzer-api Swagger</title>
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
  "info": { "title": "quizzer-api", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Credentials": { "type": "object", "required": ["email", "password"], "properties": { "email": {"type":"string"}, "password": {"type":"string"} } },
      "User": { "type": "object", "properties": { "_id": {"type":"string"}, "email": {"type":"string"}, "createdAt": {"type":"string","format":"date-time"} } },
      "Question": { "type": "object", "properties": { "_id": {"type":"string"}, "user_id": {"type":"string"}, "tag": {"type":"string"}, "name": {"type":"string"}, "answer": {"type":"string"}, "wrongOptions": {"type":"array","items":{"type":"string"}}, "createdAt": {"type":"string","format":"date-time"}, "updatedAt": {"type":"string","format":"date-time"} } },
      "NewQuestion": { "type": "object", "required": ["name", "tag", "answer"], "properties": { "name": {"type":"string"}, "tag": {"type":"string"}, "answer": {"type":"string"}, "wrongOptions": {"type":"array","items":{"type":"string"}}, "user_id": {"type":"string"} } },
      "QuestionUpdate": { "type": "object", "properties": { "name": {"type":"string"}, "tag": {"type":"string"}, "answer": {"type":"string"}, "wrongOptions": {"type":"array","items":{"type":"string"}} } },
      "QuestionSelector": { "type": "object", "required": ["id"], "properties": { "id": {"type":"string"}, "user_id": {"type":"string"} } }
    }
  },
  "paths": {
    "/": { "get": { "summary": "Welcome message", "responses": { "200": { "description": "welcome string" } } } },
    "/login": { "post": { "summary": "Log in with email and password", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Credentials"} } } }, "responses": { "200": { "description": "authenticated user" }, "400": { "description": "missing credentials" }, "401": { "description": "invalid credentials" } } } },
    "/loggedin": { "get": { "summary": "Current user or 0", "responses": { "200": { "description": "user JSON or plain text 0" } } } },
    "/signup": {
      "get": { "summary": "Signup instructions", "responses": { "200": { "description": "plain text" } } },
      "post": { "summary": "Create an account and log in", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Credentials"} } } }, "responses": { "200": { "description": "created user" }, "400": { "description": "missing credentials" }, "409": { "description": "email already registered" } } }
    },
    "/logout": { "post": { "summary": "End the session", "responses": { "302": { "description": "redirect to /" } } } },
    "/profile": { "get": { "summary": "Current session user", "responses": { "200": { "description": "user or null" } } } },
    "/profile/{u_id}/tags": { "get": { "summary": "Distinct tags of the user's questions", "responses": { "200": { "description": "tags" }, "404": { "description": "no data" } } } },
    "/profile/{u_id}/tags/{tag}": { "get": { "summary": "User's questions with a tag", "responses": { "200": { "description": "questions" }, "404": { "description": "no data" } } } },
    "/profile/{u_id}/questions": {
      "get": { "summary": "User's questions", "responses": { "200": { "description": "questions" } } },
      "post": { "summary": "Create a question", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/NewQuestion"} } } }, "responses": { "201": { "description": "created question" }, "400": { "description": "invalid request" } } },
      "delete": { "summary": "Remove a question", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/QuestionSelector"} } } }, "responses": { "200": { "description": "removed question or null" }, "400": { "description": "missing id" } } }
    },
    "/profile/{u_id}/questions/{id}": {
      "get": { "summary": "One of the user's questions", "responses": { "200": { "description": "question" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a question", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/QuestionUpdate"} } } }, "responses": { "200": { "description": "updated question" }, "400": { "description": "empty update" }, "404": { "description": "not found" } } }
    },
    "/tags": { "get": { "summary": "Distinct tags", "responses": { "200": { "description": "tags" }, "404": { "description": "no data" } } } },
    "/tags/{tag}": { "get": { "summary": "Questions with a tag", "responses": { "200": { "description": "questions" }, "404": { "description": "no data" } } } },
    "/questions": { "get": { "summary": "All questions", "responses": { "200": { "description": "questions" } } } },
    "/questions/{id}": { "get": { "summary": "Question by id", "responses": { "200": { "description": "question" }, "404": { "description": "no data" } } } },
    "/users": { "get": { "summary": "All users", "responses": { "200": { "description": "users" } } } },
    "/users/{id}": { "get": { "summary": "User by id", "responses": { "200": { "description": "user or null" } } } },
    "/users/{id}/questions": { "get": { "summary": "Questions owned by a user", "responses": { "200": { "description": "questions" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
