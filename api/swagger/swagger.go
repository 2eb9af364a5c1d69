package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Arsip Vital API",
        "description": "Records management for land certificate archives",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication and session management"},
        {"name": "Daftar Arsip", "description": "Vital archive index"},
        {"name": "Dokumen", "description": "Buku tanah, surat ukur and warkah records"},
        {"name": "Lokasi", "description": "Physical storage slots"},
        {"name": "Dashboard", "description": "Aggregate counts and live updates"},
        {"name": "Exports", "description": "CSV, DOCX and PDF exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with username and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token for a new token pair",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Token revoked or expired"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the presented refresh token",
                "responses": {
                    "204": {"description": "Logged out"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/daftar-arsip": {
            "get": {
                "tags": ["Daftar Arsip"],
                "summary": "List archive index entries",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Daftar Arsip"],
                "summary": "Create an archive index entry",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate nomor urut"}
                }
            }
        },
        "/daftar-arsip/{id}": {
            "get": {
                "tags": ["Daftar Arsip"],
                "summary": "Fetch one index entry",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Daftar Arsip"],
                "summary": "Update an index entry",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Daftar Arsip"],
                "summary": "Delete an entry and its referenced documents",
                "description": "Removes the index row plus the referenced buku tanah, surat ukur and warkah rows in a single transaction.",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/daftar-arsip/{id}/detail": {
            "get": {
                "tags": ["Daftar Arsip"],
                "summary": "Entry joined with its live document rows",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/buku-tanah": {
            "get": {
                "tags": ["Dokumen"],
                "summary": "List buku tanah records",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Dokumen"],
                "summary": "Create a buku tanah record with optional PDF attachments",
                "consumes": ["multipart/form-data"],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/buku-tanah/{id}/qr": {
            "get": {
                "tags": ["Dokumen"],
                "summary": "QR image resolving to the record detail page",
                "produces": ["image/png"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "PNG image"}
                }
            }
        },
        "/lokasi": {
            "get": {
                "tags": ["Lokasi"],
                "summary": "List storage slots",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Lokasi"],
                "summary": "Create a storage slot",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Capacity exceeded"}
                }
            }
        },
        "/dashboard/counts": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Aggregate archive counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardCounts"}}
                }
            }
        },
        "/dashboard/events": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Server-sent events stream of count updates",
                "produces": ["text/event-stream"],
                "responses": {
                    "200": {"description": "Event stream"}
                }
            }
        },
        "/exports/{kind}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Render a document listing export",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["buku-tanah", "surat-ukur", "warkah"]},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "docx", "pdf"]},
                    {"name": "columns", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Signed download reference"}
                }
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a rendered export by signed token",
                "parameters": [{"name": "token", "in": "query", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "File contents"},
                    "400": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "DashboardCounts": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "current_month_count": {"type": "integer"},
                "pending_count": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
