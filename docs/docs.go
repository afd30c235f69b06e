// Package docs registers the OpenAPI document served at /swagger/*.
// It is maintained by hand alongside the swag annotations on the handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
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
        "/change-password": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Replaces the caller's password after verifying the old one. Outstanding tokens stay valid.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Change Password",
                "parameters": [
                    {
                        "description": "Old and new password",
                        "name": "changePasswordBody",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.ChangePasswordRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Password changed", "schema": {"$ref": "#/definitions/auth.MessageResponse"}},
                    "400": {"description": "Missing fields, short new password or wrong old password", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "401": {"description": "Missing bearer token", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "403": {"description": "Invalid or expired bearer token", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns aggregate counts for the dashboard page.",
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Dashboard statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboard.Response"}},
                    "401": {"description": "Missing bearer token", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "403": {"description": "Invalid or expired bearer token", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Checks credentials, returns an access token and sets the refresh token as an HttpOnly cookie.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "User Login",
                "parameters": [
                    {
                        "description": "User login credentials",
                        "name": "loginBody",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Login successful",
                        "schema": {"$ref": "#/definitions/auth.TokenResponse"},
                        "headers": {"Set-Cookie": {"type": "string", "description": "refreshToken=...; HttpOnly; Secure; SameSite=Strict"}}
                    },
                    "400": {"description": "Missing fields or invalid credentials", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "description": "Clears the refresh token cookie. Always succeeds, so calling it twice is fine.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "Logged out", "schema": {"$ref": "#/definitions/auth.MessageResponse"}}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Retrieves the profile of the authenticated user.",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get current user's profile",
                "responses": {
                    "200": {"description": "Successfully retrieved user profile", "schema": {"$ref": "#/definitions/users.ProfileResponse"}},
                    "401": {"description": "Missing bearer token", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "403": {"description": "Invalid or expired bearer token", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Replaces email, name and address of the authenticated user. All three fields are required.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update current user's profile",
                "parameters": [
                    {
                        "description": "Complete profile",
                        "name": "profile",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/users.UpdateProfileRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Updated profile", "schema": {"$ref": "#/definitions/users.ProfileResponse"}},
                    "400": {"description": "Missing or invalid fields", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "401": {"description": "Missing bearer token", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "403": {"description": "Invalid or expired bearer token", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/refresh-token": {
            "post": {
                "description": "Issues a new access token from the refresh token cookie. The refresh token is not rotated.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Refresh Access Token",
                "responses": {
                    "200": {"description": "New access token", "schema": {"$ref": "#/definitions/auth.TokenResponse"}},
                    "403": {"description": "Missing, invalid or expired refresh token", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/register": {
            "post": {
                "description": "Registers a new user. No token is issued; the client logs in afterwards.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "User Registration",
                "parameters": [
                    {
                        "description": "User registration details",
                        "name": "registerBody",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "User registered successfully", "schema": {"$ref": "#/definitions/auth.MessageResponse"}},
                    "400": {"description": "Missing fields, short password or duplicate username", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "apperror.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "INVALID_INPUT"},
                "error": {"type": "string", "example": "A description of the error"}
            }
        },
        "auth.ChangePasswordRequest": {
            "description": "Request body for changing the caller's password",
            "type": "object",
            "required": ["newPassword", "oldPassword"],
            "properties": {
                "newPassword": {"type": "string", "minLength": 8},
                "oldPassword": {"type": "string"}
            }
        },
        "auth.LoginRequest": {
            "description": "Request body for user login",
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "example": "password1"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "auth.MessageResponse": {
            "description": "Simple status message",
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "User registered successfully"}
            }
        },
        "auth.RegisterRequest": {
            "description": "Request body for user registration",
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "minLength": 8, "example": "password1"},
                "username": {"type": "string", "maxLength": 64, "example": "alice"}
            }
        },
        "auth.TokenResponse": {
            "description": "Access token returned by login and refresh",
            "type": "object",
            "properties": {
                "token": {"type": "string", "example": "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."}
            }
        },
        "dashboard.Response": {
            "description": "Dashboard statistics",
            "type": "object",
            "properties": {
                "stats": {"$ref": "#/definitions/dashboard.Stats"}
            }
        },
        "dashboard.Stats": {
            "type": "object",
            "properties": {
                "totalUsers": {"type": "integer", "example": 42}
            }
        },
        "users.ProfileResponse": {
            "description": "User profile information",
            "type": "object",
            "properties": {
                "address": {"type": "string", "example": "1 Main Street"},
                "email": {"type": "string", "example": "alice@example.com"},
                "name": {"type": "string", "example": "Alice Example"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "users.UpdateProfileRequest": {
            "description": "Request body for updating the caller's profile",
            "type": "object",
            "required": ["address", "email", "name"],
            "properties": {
                "address": {"type": "string", "maxLength": 500, "example": "1 Main Street"},
                "email": {"type": "string", "maxLength": 254, "example": "alice@example.com"},
                "name": {"type": "string", "maxLength": 200, "example": "Alice Example"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type 'Bearer YOUR_JWT_TOKEN' to authorize",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Agency API",
	Description:      "Account and session API for the agency dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
