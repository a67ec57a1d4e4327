package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Attendance API",
        "description": "Barcode-driven school attendance tracker with guardian SMS notifications",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student registry"},
        {"name": "Attendance", "description": "Scan workflow and recent scans"},
        {"name": "Reports", "description": "Read-only attendance aggregates"},
        {"name": "SMS", "description": "Notification transport administration"}
    ],
    "paths": {
        "/attendance/scan": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark attendance for a scanned LRN",
                "responses": {
                    "200": {"description": "Completed or already scanned"},
                    "400": {"description": "Invalid LRN format"},
                    "404": {"description": "Student not found"},
                    "503": {"description": "Database setup incomplete"}
                }
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register student",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate LRN"}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student and attendance history",
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/reports/stats": {
            "get": {
                "tags": ["Reports"],
                "summary": "Attendance stats for one day",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/by-grade": {
            "get": {
                "tags": ["Reports"],
                "summary": "Per-grade attendance",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/daily": {
            "get": {
                "tags": ["Reports"],
                "summary": "Recent-days trend",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export filtered attendance as CSV or PDF",
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/sms/config": {
            "get": {
                "tags": ["SMS"],
                "summary": "Show SMS configuration",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sms/test": {
            "post": {
                "tags": ["SMS"],
                "summary": "Send a test notification",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
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
