// Package auth registers the OpenAPI document served under /swagger/.
// It mirrors the swag annotations on the handlers in internal/auth/http.
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/reelgate"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/signup": {
            "post": {
                "description": "Registers a user. Field problems are reported per field under \"errors\".",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Create an account",
                "parameters": [
                    {
                        "description": "Account details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/authsdk.SignupRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/authsdk.MessageResponse"}},
                    "400": {"description": "invalid_request, validation_failed or email_exists", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "429": {"description": "rate_limit_exceeded", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "description": "Exchanges credentials for an access and refresh token pair. Every\nfailure, malformed bodies included, counts towards the per email\nand per IP attempt limit.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/authsdk.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.TokenResponse"}},
                    "400": {"description": "invalid_request or validation_failed", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "401": {"description": "invalid_credentials", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "429": {"description": "rate_limited or rate_limit_exceeded", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Revokes the access token until it would have expired. Logging out\ntwice with the same token succeeds.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log out",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.MessageResponse"}},
                    "401": {"description": "invalid_token or token_expired", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Get the current profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.ProfileResponse"}},
                    "401": {"description": "invalid_token, token_expired or token_invalidated", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "description": "Mints a new access token. The refresh token in the response is the\none that was sent.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Refresh the access token",
                "parameters": [
                    {
                        "description": "Refresh token",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/authsdk.RefreshRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.TokenResponse"}},
                    "400": {"description": "invalid_request", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "401": {"description": "invalid_refresh_token or refresh_token_expired", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "description": "Returns a random selection of videos, each with a fresh playback token.",
                "produces": ["application/json"],
                "tags": ["Video"],
                "summary": "List dashboard videos",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.DashboardResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/video/{video_id}/stream": {
            "get": {
                "description": "Trades a playback token for the embed URL of the video it was minted for.",
                "produces": ["application/json"],
                "tags": ["Video"],
                "summary": "Authorize a stream",
                "parameters": [
                    {"type": "string", "description": "Video ID", "name": "video_id", "in": "path", "required": true},
                    {"type": "string", "description": "Playback token", "name": "token", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.StreamResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/video/{video_id}/watch": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Video"],
                "summary": "Record a watch",
                "parameters": [
                    {"type": "string", "description": "Video ID", "name": "video_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.MessageResponse"}},
                    "401": {"description": "invalid_token, token_expired or token_invalidated", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Also served at /health.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}},
                    "503": {"description": "database unreachable", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "authsdk.APIError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "authsdk.DashboardResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "videos": {"type": "array", "items": {"$ref": "#/definitions/authsdk.VideoGrant"}}
            }
        },
        "authsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "authsdk.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "authsdk.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "authsdk.ProfileResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "user": {"$ref": "#/definitions/authsdk.UserProfile"}
            }
        },
        "authsdk.RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "authsdk.SignupRequest": {
            "type": "object",
            "properties": {
                "confirm_password": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "authsdk.StreamResponse": {
            "type": "object",
            "properties": {
                "embed_url": {"type": "string"}
            }
        },
        "authsdk.TokenResponse": {
            "type": "object",
            "properties": {
                "expires_in": {"description": "ExpiresIn is the access token lifetime in seconds.", "type": "integer"},
                "refresh_token": {"description": "RefreshToken is unchanged by a refresh.", "type": "string"},
                "success": {"type": "boolean"},
                "token": {"description": "Token is the session access token.", "type": "string"},
                "token_type": {"description": "TokenType is always \"Bearer\".", "type": "string"}
            }
        },
        "authsdk.UserProfile": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "full_name": {"type": "string"}
            }
        },
        "authsdk.VideoGrant": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "playback_token": {"type": "string"},
                "thumbnail_url": {"type": "string"},
                "title": {"type": "string"},
                "video_id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Session access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Reelgate API",
	Description:      "Account sessions with HMAC-signed JWT access tokens, and short-lived\nplayback tokens that gate video streams.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
