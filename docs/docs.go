// Package docs holds the OpenAPI document served at /swagger.
//
// This file is maintained by hand. The CRUD routes are served by the generic
// controllers.CrudController, which swag cannot annotate per entity, so
// running swag init would drop every /{route} path. Edit the template
// directly when an entity or route changes; TestDocCoversCrudRoutes checks
// that every registered entity route is described.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"license": {
			"name": "MIT",
			"url": "https://opensource.org/licenses/MIT"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/book/all": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"books"
				],
				"summary": "List all books",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/models.Book"
							}
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/book/post": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"books"
				],
				"summary": "Create a new book",
				"parameters": [
					{
						"type": "string",
						"name": "title",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"name": "author",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"name": "date",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Book"
						}
					},
					"400": {
						"description": "Invalid parameters",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"409": {
						"description": "Unique constraint violated",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/book": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"books"
				],
				"summary": "Get a single book",
				"parameters": [
					{
						"type": "integer",
						"format": "int64",
						"description": "Primary key",
						"name": "id",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Book"
						}
					},
					"400": {
						"description": "Invalid id",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Book with id not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"books"
				],
				"summary": "Update a single book",
				"parameters": [
					{
						"type": "integer",
						"format": "int64",
						"description": "Primary key",
						"name": "id",
						"in": "query",
						"required": true
					},
					{
						"description": "Replacement values",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/models.Book"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Book"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Book with id not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"409": {
						"description": "Unique constraint violated",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"books"
				],
				"summary": "Delete a book",
				"parameters": [
					{
						"type": "integer",
						"format": "int64",
						"description": "Primary key",
						"name": "id",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.MessageResponse"
						}
					},
					"400": {
						"description": "Invalid id",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Book with id not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/movie/all": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"movies"
				],
				"summary": "List all movies",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/models.Movie"
							}
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/movie/post": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"movies"
				],
				"summary": "Create a new movie",
				"parameters": [
					{
						"type": "string",
						"name": "movieName",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"name": "directorName",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"name": "releaseDate",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Movie"
						}
					},
					"400": {
						"description": "Invalid parameters",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"409": {
						"description": "Unique constraint violated",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/movie": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"movies"
				],
				"summary": "Get a single movie",
				"parameters": [
					{
						"type": "integer",
						"format": "int64",
						"description": "Primary key",
						"name": "id",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Movie"
						}
					},
					"400": {
						"description": "Invalid id",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Movie with id not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"movies"
				],
				"summary": "Update a single movie",
				"parameters": [
					{
						"type": "integer",
						"format": "int64",
						"description": "Primary key",
						"name": "id",
						"in": "query",
						"required": true
					},
					{
						"description": "Replacement values",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/models.Movie"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Movie"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Movie with id not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"409": {
						"description": "Unique constraint violated",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"movies"
				],
				"summary": "Delete a movie",
				"parameters": [
					{
						"type": "integer",
						"format": "int64",
						"description": "Primary key",
						"name": "id",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.MessageResponse"
						}
					},
					"400": {
						"description": "Invalid id",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Movie with id not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/students/all": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"students"
				],
				"summary": "List all students",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/models.Student"
							}
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/students/post": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"students"
				],
				"summary": "Create a new student",
				"parameters": [
					{
						"type": "string",
						"name": "firstName",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"name": "lastName",
						"in": "query",
						"required": true
					},
					{
						"type": "integer",
						"name": "perm",
						"in": "query",
						"required": true,
						"format": "int64"
					},
					{
						"type": "string",
						"name": "email",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"name": "phoneNumber",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"name": "major",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Student"
						}
					},
					"400": {
						"description": "Invalid parameters",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"409": {
						"description": "Unique constraint violated",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/students": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"students"
				],
				"summary": "Get a single student",
				"parameters": [
					{
						"type": "integer",
						"format": "int64",
						"description": "Primary key",
						"name": "id",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Student"
						}
					},
					"400": {
						"description": "Invalid id",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Student with id not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"students"
				],
				"summary": "Update a single student",
				"parameters": [
					{
						"type": "integer",
						"format": "int64",
						"description": "Primary key",
						"name": "id",
						"in": "query",
						"required": true
					},
					{
						"description": "Replacement values",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/models.Student"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Student"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Student with id not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"409": {
						"description": "Unique constraint violated",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"students"
				],
				"summary": "Delete a student",
				"parameters": [
					{
						"type": "integer",
						"format": "int64",
						"description": "Primary key",
						"name": "id",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.MessageResponse"
						}
					},
					"400": {
						"description": "Invalid id",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Student with id not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/vehicle/all": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"vehicles"
				],
				"summary": "List all vehicles",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/models.Vehicle"
							}
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/vehicle/post": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"vehicles"
				],
				"summary": "Create a new vehicle",
				"parameters": [
					{
						"type": "string",
						"name": "brand",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"name": "model",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"name": "licence",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"name": "year",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Vehicle"
						}
					},
					"400": {
						"description": "Invalid parameters",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"409": {
						"description": "Unique constraint violated",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/vehicle": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"vehicles"
				],
				"summary": "Get a single vehicle",
				"parameters": [
					{
						"type": "integer",
						"format": "int64",
						"description": "Primary key",
						"name": "id",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Vehicle"
						}
					},
					"400": {
						"description": "Invalid id",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Vehicle with id not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"vehicles"
				],
				"summary": "Update a single vehicle",
				"parameters": [
					{
						"type": "integer",
						"format": "int64",
						"description": "Primary key",
						"name": "id",
						"in": "query",
						"required": true
					},
					{
						"description": "Replacement values",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/models.Vehicle"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Vehicle"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Vehicle with id not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"409": {
						"description": "Unique constraint violated",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"vehicles"
				],
				"summary": "Delete a vehicle",
				"parameters": [
					{
						"type": "integer",
						"format": "int64",
						"description": "Primary key",
						"name": "id",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.MessageResponse"
						}
					},
					"400": {
						"description": "Invalid id",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Vehicle with id not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/login": {
			"post": {
				"description": "Authenticates a user and returns an access token carrying the user's roles",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "User login",
				"parameters": [
					{
						"description": "Login credentials",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.LoginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "Login successful",
						"schema": {
							"$ref": "#/definitions/dto.TokenResponse"
						}
					},
					"400": {
						"description": "Invalid request format or validation error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"401": {
						"description": "Invalid credentials",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/currentUser": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Returns the email and roles of the authenticated caller",
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Current user",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.CurrentUserResponse"
						}
					},
					"403": {
						"description": "Not logged in",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"models.Book": {
			"type": "object",
			"required": [
				"title",
				"author",
				"date"
			],
			"properties": {
				"id": {
					"type": "integer",
					"example": 1
				},
				"title": {
					"type": "string",
					"example": "Dune"
				},
				"author": {
					"type": "string",
					"example": "Frank Herbert"
				},
				"date": {
					"type": "string",
					"example": "1965-08-01"
				}
			}
		},
		"models.Movie": {
			"type": "object",
			"required": [
				"movieName",
				"directorName",
				"releaseDate"
			],
			"properties": {
				"id": {
					"type": "integer",
					"example": 1
				},
				"movieName": {
					"type": "string",
					"example": "Avatar"
				},
				"directorName": {
					"type": "string",
					"example": "James Cameron"
				},
				"releaseDate": {
					"type": "string",
					"example": "2009-12-18"
				}
			}
		},
		"models.Student": {
			"type": "object",
			"required": [
				"firstName",
				"lastName",
				"perm",
				"email",
				"phoneNumber",
				"major"
			],
			"properties": {
				"id": {
					"type": "integer",
					"example": 1
				},
				"firstName": {
					"type": "string",
					"example": "Jane"
				},
				"lastName": {
					"type": "string",
					"example": "Doe"
				},
				"perm": {
					"type": "integer",
					"example": 1234567
				},
				"email": {
					"type": "string",
					"example": "jdoe@ucsb.edu"
				},
				"phoneNumber": {
					"type": "string",
					"example": "805-555-0100"
				},
				"major": {
					"type": "string",
					"example": "CMPSC"
				}
			}
		},
		"models.Vehicle": {
			"type": "object",
			"required": [
				"brand",
				"model",
				"licence",
				"year"
			],
			"properties": {
				"id": {
					"type": "integer",
					"example": 1
				},
				"brand": {
					"type": "string",
					"example": "Cadillac"
				},
				"model": {
					"type": "string",
					"example": "Escalade"
				},
				"licence": {
					"type": "string",
					"example": "OG1"
				},
				"year": {
					"type": "string",
					"example": "2023"
				}
			}
		},
		"dto.ErrorResponse": {
			"type": "object",
			"properties": {
				"type": {
					"type": "string",
					"example": "EntityNotFoundException"
				},
				"message": {
					"type": "string",
					"example": "Book with id 7 not found"
				},
				"details": {
					"type": "object",
					"additionalProperties": {
						"type": "string"
					}
				},
				"timestamp": {
					"type": "string",
					"example": "2025-04-23T12:01:05.123Z"
				}
			}
		},
		"dto.MessageResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string",
					"example": "Book with id 1 deleted"
				}
			}
		},
		"dto.LoginRequest": {
			"type": "object",
			"required": [
				"email",
				"password"
			],
			"properties": {
				"email": {
					"type": "string",
					"example": "admin@ucsb.edu"
				},
				"password": {
					"type": "string",
					"example": "admin"
				}
			}
		},
		"dto.TokenResponse": {
			"type": "object",
			"properties": {
				"accessToken": {
					"type": "string",
					"example": "eyJhbGciOiJIUzI1NiIs..."
				},
				"tokenType": {
					"type": "string",
					"example": "Bearer"
				},
				"expiresIn": {
					"type": "integer",
					"example": 3600
				},
				"roles": {
					"type": "array",
					"items": {
						"type": "string",
						"enum": [
							"ROLE_USER",
							"ROLE_ADMIN"
						]
					}
				}
			}
		},
		"dto.CurrentUserResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer",
					"example": 1
				},
				"email": {
					"type": "string",
					"example": "admin@ucsb.edu"
				},
				"roles": {
					"type": "array",
					"items": {
						"type": "string",
						"enum": [
							"ROLE_USER",
							"ROLE_ADMIN"
						]
					}
				},
				"loggedIn": {
					"type": "boolean",
					"example": true
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "JWT token for authorization",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "CRUD API",
	Description:      "Role-protected CRUD endpoints for books, movies, students and vehicles",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
