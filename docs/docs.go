// Package docs provides the Swagger documentation served by gin-swagger
// at /docs and rendered a second time by ReDoc at /redoc.
//
//	@title			Printing Platform API
//	@version		1.0.0
//	@description	REST API for the 3D printing service platform: gallery projects,
//	@description	printing services, filament colors, customer orders, reviews,
//	@description	contact requests and the CMS backing the public site.
//	@description
//	@description	## Authentication
//	@description	Admin endpoints require a JWT Bearer token obtained from the login endpoint:
//	@description	`Authorization: Bearer <token>`
//	@contact.name	Printing Platform Support
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//	@host			localhost:8000
//	@basePath		/api/v1
//	@schemes		http https
//
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				JWT Bearer token. Format: 'Bearer <token>'
//
// @tag.name Auth
// @tag.description Login, current user and user administration
//
// @tag.name Projects
// @tag.description Gallery projects with STL models and images
//
// @tag.name Services
// @tag.description Printing services offered by the platform
//
// @tag.name Colors
// @tag.description Filament colors available for printing
//
// @tag.name Orders
// @tag.description Customer print orders
//
// @tag.name Reviews
// @tag.description Customer reviews and moderation
//
// @tag.name Contact
// @tag.description Contact requests from the public site
//
// @tag.name CMS
// @tag.description Articles, categories, content fragments, pages and settings
//
// @tag.name Files
// @tag.description Upload storage (local disk or S3-compatible)
package docs

import (
	"github.com/swaggo/swag"
)

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Printing Platform Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in with email and password",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/models.DataResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current authenticated user",
                "responses": {
                    "200": {"description": "User", "schema": {"$ref": "#/definitions/models.DataResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Projects"],
                "summary": "List gallery projects",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "per_page", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "boolean", "name": "is_featured", "in": "query"},
                    {"type": "string", "name": "complexity", "in": "query", "description": "comma-separated levels"}
                ],
                "responses": {
                    "200": {"description": "Paginated projects", "schema": {"$ref": "#/definitions/models.PaginatedResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Projects"],
                "summary": "Create a project",
                "parameters": [
                    {
                        "description": "Project fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.CreateProjectRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created project", "schema": {"$ref": "#/definitions/models.DataResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Projects"],
                "summary": "Get a project by id",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Project", "schema": {"$ref": "#/definitions/models.DataResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/services": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Services"],
                "summary": "List printing services",
                "parameters": [
                    {"type": "boolean", "name": "active_only", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Services", "schema": {"$ref": "#/definitions/models.DataResponse"}}
                }
            }
        },
        "/colors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Colors"],
                "summary": "List filament colors",
                "parameters": [
                    {"type": "boolean", "name": "active_only", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Colors", "schema": {"$ref": "#/definitions/models.DataResponse"}}
                }
            }
        },
        "/orders": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "Submit a print order",
                "parameters": [
                    {
                        "description": "Order fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.CreateOrderRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created order", "schema": {"$ref": "#/definitions/models.DataResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "List orders",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "per_page", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Paginated orders", "schema": {"$ref": "#/definitions/models.PaginatedResponse"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "Get an order by id",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Order", "schema": {"$ref": "#/definitions/models.DataResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/reviews": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Reviews"],
                "summary": "List approved reviews",
                "responses": {
                    "200": {"description": "Paginated reviews", "schema": {"$ref": "#/definitions/models.PaginatedResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Reviews"],
                "summary": "Submit a review",
                "parameters": [
                    {
                        "description": "Review fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.CreateReviewRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created review, pending moderation", "schema": {"$ref": "#/definitions/models.DataResponse"}}
                }
            }
        },
        "/contact": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Contact"],
                "summary": "Submit a contact request",
                "parameters": [
                    {
                        "description": "Contact fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.CreateContactRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created contact request", "schema": {"$ref": "#/definitions/models.DataResponse"}}
                }
            }
        },
        "/articles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["CMS"],
                "summary": "List published articles",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "per_page", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "boolean", "name": "published_only", "in": "query", "description": "admins may pass false to include drafts"}
                ],
                "responses": {
                    "200": {"description": "Paginated articles", "schema": {"$ref": "#/definitions/models.PaginatedResponse"}}
                }
            }
        },
        "/articles/{id_or_slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["CMS"],
                "summary": "Get an article by id or slug",
                "parameters": [
                    {"type": "string", "name": "id_or_slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Article", "schema": {"$ref": "#/definitions/models.DataResponse"}},
                    "404": {"description": "Not found or unpublished", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/cms/content/by-group/{group}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["CMS"],
                "summary": "Active content fragments of a group",
                "parameters": [
                    {"type": "string", "name": "group", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Fragments keyed by name", "schema": {"$ref": "#/definitions/models.DataResponse"}}
                }
            }
        },
        "/cms/pages/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["CMS"],
                "summary": "Published page by slug",
                "parameters": [
                    {"type": "string", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Page", "schema": {"$ref": "#/definitions/models.DataResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/cms/settings/public": {
            "get": {
                "produces": ["application/json"],
                "tags": ["CMS"],
                "summary": "Public site settings",
                "responses": {
                    "200": {"description": "Settings keyed by name", "schema": {"$ref": "#/definitions/models.DataResponse"}}
                }
            }
        },
        "/files/upload": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Files"],
                "summary": "Upload a file",
                "parameters": [
                    {"type": "file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "name": "folder", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Stored file info", "schema": {"$ref": "#/definitions/models.DataResponse"}},
                    "400": {"description": "Rejected file", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "models.CreateProjectRequest": {
            "type": "object",
            "required": ["title", "category"],
            "properties": {
                "title": {"type": "string", "maxLength": 200},
                "description": {"type": "string"},
                "category": {"type": "string", "maxLength": 50},
                "is_featured": {"type": "boolean"},
                "images": {"type": "array", "items": {"type": "string"}},
                "estimated_price": {"type": "string"},
                "estimated_duration_hours": {"type": "integer"},
                "complexity_level": {"type": "string", "enum": ["simple", "medium", "complex"]},
                "price_range_min": {"type": "string"},
                "price_range_max": {"type": "string"}
            }
        },
        "models.CreateOrderRequest": {
            "type": "object",
            "required": ["customer_name", "customer_email", "service_id", "source"],
            "properties": {
                "customer_name": {"type": "string", "maxLength": 100},
                "customer_email": {"type": "string"},
                "customer_phone": {"type": "string", "maxLength": 50},
                "service_id": {"type": "string", "format": "uuid"},
                "specifications": {"type": "object"},
                "total_price": {"type": "string"},
                "source": {"type": "string", "enum": ["web", "telegram"]},
                "notes": {"type": "string"},
                "delivery_needed": {"type": "boolean"},
                "delivery_details": {"type": "string"}
            }
        },
        "models.CreateReviewRequest": {
            "type": "object",
            "required": ["customer_name", "customer_email", "rating", "content"],
            "properties": {
                "customer_name": {"type": "string", "maxLength": 100},
                "customer_email": {"type": "string"},
                "rating": {"type": "integer", "minimum": 1, "maximum": 5},
                "title": {"type": "string", "maxLength": 200},
                "content": {"type": "string"}
            }
        },
        "models.CreateContactRequest": {
            "type": "object",
            "required": ["name", "email", "subject", "message"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "email": {"type": "string"},
                "phone": {"type": "string", "maxLength": 20},
                "subject": {"type": "string", "maxLength": 200},
                "message": {"type": "string"}
            }
        },
        "models.DataResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "models.PaginatedResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "pagination": {
                    "type": "object",
                    "properties": {
                        "page": {"type": "integer"},
                        "per_page": {"type": "integer"},
                        "total": {"type": "integer"},
                        "total_pages": {"type": "integer"}
                    }
                }
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "message": {"type": "string"},
                        "type": {"type": "string"},
                        "details": {}
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

func init() {
	swag.Register("swagger", &swag.Spec{
		Version:          "1.0.0",
		Host:             "localhost:8000",
		BasePath:         "/api/v1",
		Schemes:          []string{"http", "https"},
		Title:            "Printing Platform API",
		Description:      "REST API for the 3D printing service platform",
		InfoInstanceName: "swagger",
		SwaggerTemplate:  docTemplate,
	})
}
