// Package docs registers the OpenAPI description served under /swagger.
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
        "/api/v1/events": {
            "get": {"tags": ["活动"], "summary": "活动列表", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["活动"], "summary": "创建活动",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "活动信息", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.EventForm"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/events/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["活动"], "summary": "更新活动",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "活动ID", "name": "id", "in": "path", "required": true},
                    {"description": "活动信息", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.EventForm"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["活动"], "summary": "删除活动",
                "parameters": [{"type": "string", "description": "活动ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/news": {
            "get": {"tags": ["新闻"], "summary": "新闻列表", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["新闻"], "summary": "发布新闻",
                "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "标题", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "description": "正文", "name": "content", "in": "formData", "required": true},
                    {"type": "file", "description": "配图", "name": "image", "in": "formData"}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/news/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["新闻"], "summary": "新闻详情",
                "parameters": [{"type": "string", "description": "新闻ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["新闻"], "summary": "删除新闻",
                "parameters": [{"type": "string", "description": "新闻ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/volunteers": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["志愿者"], "summary": "报名列表",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"tags": ["志愿者"], "summary": "志愿者报名", "consumes": ["application/json"],
                "parameters": [{"description": "报名信息", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.VolunteerForm"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/volunteers/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["志愿者"], "summary": "删除报名",
                "parameters": [{"type": "string", "description": "志愿者ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/health": {
            "get": {"tags": ["系统"], "summary": "存活检查",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/o/{object}": {
            "get": {"tags": ["图片"], "summary": "下载图片", "produces": ["image/webp"],
                "parameters": [{"type": "string", "description": "存储路径", "name": "object", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}}
        }
    },
    "definitions": {
        "model.EventForm": {"type": "object", "properties": {
            "title": {"type": "string"}, "date": {"type": "string", "example": "2025-06-01"},
            "time": {"type": "string"}, "location": {"type": "string"}}},
        "model.VolunteerForm": {"type": "object", "properties": {
            "name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"},
            "message": {"type": "string"}, "distribution": {"type": "string"}}},
        "response.Response": {"type": "object", "properties": {
            "code": {"type": "integer"}, "message": {"type": "string"}, "data": {}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "nousrire-site API",
	Description:      "News, events and volunteer sign-ups for the association site.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
