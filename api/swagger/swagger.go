package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CITCS Schedule API",
        "description": "Class-scheduling manager: course catalog, section offerings, rooms, schedule grid, auto-scheduler and conflict validator",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Course catalog"},
        {"name": "Offerings", "description": "Course ↔ section assignments"},
        {"name": "Rooms", "description": "Room collection and column topology"},
        {"name": "Schedules", "description": "Schedule grid entries"},
        {"name": "Scheduler", "description": "Heuristic auto-scheduler"},
        {"name": "Validation", "description": "Conflict validator"}
    ],
    "paths": {
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Courses"],
                "summary": "Update course",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course, cascading offerings and schedule entries",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/course-offerings": {
            "get": {
                "tags": ["Offerings"],
                "summary": "List course offerings",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Offerings"],
                "summary": "Assign a course to a section; a Lec/Lab course yields its Lec and Lab offerings together",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateOfferingRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Offering already exists"}}
            }
        },
        "/course-offerings/{id}": {
            "get": {
                "tags": ["Offerings"],
                "summary": "Get offering",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Offerings"],
                "summary": "Move offering to another section",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpdateOfferingRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Offerings"],
                "summary": "Delete offering, cascading its schedule entries",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Create room",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateRoomRequest"}}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/rooms/columns": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Ordered room-column topology (each room doubled into A and B)",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/rooms/{id}": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Get room",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Rooms"],
                "summary": "Update room",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateRoomRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Rooms"],
                "summary": "Delete room",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedule entries",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Create a manual placement",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ScheduleEntryRequest"}}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/schedules/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get schedule entry",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Schedules"],
                "summary": "Update a placement",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ScheduleEntryRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete a placement",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/scheduler/run": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Auto-schedule a section's pending offerings into a room group",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/AutoScheduleRequest"}}],
                "responses": {"200": {"description": "Run summary; partial success is normal"}, "412": {"description": "Nothing to schedule or no rooms in group"}}
            }
        },
        "/validation": {
            "get": {
                "tags": ["Validation"],
                "summary": "Conflict report for one view scope",
                "parameters": [
                    {"in": "query", "name": "view", "type": "string", "description": "room-group-a, room-group-b or section-view"},
                    {"in": "query", "name": "trimester", "type": "string", "required": true},
                    {"in": "query", "name": "yearLevel", "type": "string"},
                    {"in": "query", "name": "section", "type": "string"},
                    {"in": "query", "name": "force", "type": "boolean", "description": "Bypass the report cache"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "CreateCourseRequest": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "unit_category": {"type": "string", "enum": ["PureLec", "Lec/Lab"]},
                "units": {"type": "integer"},
                "year_level": {"type": "string"},
                "degree": {"type": "string"},
                "trimester": {"type": "string"}
            },
            "required": ["subject", "unit_category", "units", "year_level", "degree", "trimester"]
        },
        "CreateOfferingRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "section": {"type": "string"}
            },
            "required": ["course_id", "section"]
        },
        "UpdateOfferingRequest": {
            "type": "object",
            "properties": {
                "section": {"type": "string"}
            },
            "required": ["section"]
        },
        "CreateRoomRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "room_type": {"type": "string", "description": "PURELEC, LECLAB or BOTH; unknown values normalize to BOTH"}
            },
            "required": ["name"]
        },
        "ScheduleEntryRequest": {
            "type": "object",
            "properties": {
                "day_type": {"type": "string", "enum": ["MWF", "TTHS"]},
                "time_slot": {"type": "string"},
                "col": {"type": "integer", "description": "0 for section-level, 1-based room column otherwise"},
                "room_id": {"type": "string"},
                "course_id": {"type": "string"},
                "unit_type": {"type": "string", "enum": ["Lec", "Lab", "PureLec"]},
                "section": {"type": "string"},
                "section2": {"type": "string"},
                "color": {"type": "string"}
            },
            "required": ["day_type", "time_slot", "course_id", "unit_type", "section"]
        },
        "AutoScheduleRequest": {
            "type": "object",
            "properties": {
                "section": {"type": "string"},
                "trimester": {"type": "string"},
                "yearLevel": {"type": "string"},
                "roomGroup": {"type": "string", "enum": ["A", "B"]},
                "seed": {"type": "integer"}
            },
            "required": ["section", "trimester", "roomGroup"]
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
                "pagination": {"type": "object"},
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
