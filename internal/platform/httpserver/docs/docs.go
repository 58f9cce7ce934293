// Package docs registers the OpenAPI document served at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "StudentID": {"type": "apiKey", "in": "header", "name": "X-User-Id"},
        "AdminID": {"type": "apiKey", "in": "header", "name": "X-Admin-Id"}
    },
    "paths": {
        "/api/election/v1/phase": {
            "get": {"tags": ["phase"], "summary": "Current election phase", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["phase"], "summary": "Set the election phase", "security": [{"AdminID": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "invalid_phase or skipped_phase"}, "409": {"description": "phase_conflict"}}}
        },
        "/api/election/v1/phase/advance": {
            "post": {"tags": ["phase"], "summary": "Advance to the next phase", "security": [{"AdminID": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "terminal_phase or phase_conflict"}}}
        },
        "/api/election/v1/phase/log": {
            "get": {"tags": ["phase"], "summary": "Phase change history", "security": [{"AdminID": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/election/v1/candidacies": {
            "post": {"tags": ["candidacy"], "summary": "Apply as delegate candidate", "security": [{"StudentID": []}], "responses": {"201": {"description": "Created"}, "403": {"description": "phase_closed or not_eligible"}, "409": {"description": "duplicate_candidacy"}}}
        },
        "/api/election/v1/candidacies/me": {
            "get": {"tags": ["candidacy"], "summary": "Caller's candidacy status", "security": [{"StudentID": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/election/v1/candidacies/by-registration/{registration_number}": {
            "get": {"tags": ["candidacy"], "summary": "Candidacy status by registration number", "responses": {"200": {"description": "OK"}}}
        },
        "/api/election/v1/candidacies/pending": {
            "get": {"tags": ["candidacy"], "summary": "Pending candidacies", "security": [{"AdminID": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/election/v1/candidacies/{candidate_id}/review": {
            "post": {"tags": ["candidacy"], "summary": "Approve or reject a candidacy", "security": [{"AdminID": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "already_reviewed"}}}
        },
        "/api/election/v1/schools/{school_id}/departments/{department_id}/candidates": {
            "get": {"tags": ["candidacy"], "summary": "Approved candidates in a department", "responses": {"200": {"description": "OK"}}}
        },
        "/api/election/v1/delegate-votes": {
            "post": {"tags": ["delegates"], "summary": "Cast a delegate vote", "security": [{"StudentID": []}], "responses": {"201": {"description": "Created"}, "403": {"description": "self_vote or department_mismatch"}, "409": {"description": "already_voted"}}}
        },
        "/api/election/v1/delegate-votes/me": {
            "get": {"tags": ["delegates"], "summary": "Caller's delegate voting status", "security": [{"StudentID": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/election/v1/delegates": {
            "get": {"tags": ["delegates"], "summary": "Elected delegates", "responses": {"200": {"description": "OK"}}}
        },
        "/api/election/v1/delegates/me": {
            "get": {"tags": ["delegates"], "summary": "Result in the caller's department", "security": [{"StudentID": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/election/v1/delegates/tally": {
            "post": {"tags": ["delegates"], "summary": "Tally delegate votes", "security": [{"AdminID": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/election/v1/schools/{school_id}/departments/{department_id}/delegate": {
            "get": {"tags": ["delegates"], "summary": "Elected delegate for a department", "responses": {"200": {"description": "OK"}}}
        },
        "/api/election/v1/parties": {
            "get": {"tags": ["parties"], "summary": "Registered parties", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["parties"], "summary": "Register a 7-seat party slate", "security": [{"AdminID": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "incomplete_slate or duplicate_nominee"}, "409": {"description": "duplicate_name or already_assigned"}}}
        },
        "/api/election/v1/parties/{party_id}": {
            "get": {"tags": ["parties"], "summary": "One party", "responses": {"200": {"description": "OK"}, "404": {"description": "party_not_found"}}}
        },
        "/api/election/v1/council-votes": {
            "get": {"tags": ["council"], "summary": "Every council ballot with delegate and party names", "security": [{"AdminID": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["council"], "summary": "Cast a four-slot council ballot", "security": [{"StudentID": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "incomplete_ballot"}, "403": {"description": "not_delegate"}, "409": {"description": "already_voted"}}}
        },
        "/api/election/v1/council-votes/me": {
            "get": {"tags": ["council"], "summary": "Caller's council voting status", "security": [{"StudentID": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/election/v1/council/results": {
            "get": {"tags": ["council"], "summary": "Council results, party nominees and the students seated by each slot winner", "responses": {"200": {"description": "OK"}}}
        },
        "/api/election/v1/admin/reset": {
            "post": {"tags": ["admin"], "summary": "Reset the election to registration", "security": [{"AdminID": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/authz/v1/check": {
            "post": {"tags": ["authz"], "summary": "Check a permission for the caller", "security": [{"StudentID": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/authz/v1/roles": {
            "get": {"tags": ["authz"], "summary": "Role catalog", "responses": {"200": {"description": "OK"}}}
        },
        "/api/authz/v1/users/{user_id}/roles": {
            "get": {"tags": ["authz"], "summary": "Role assignments of a user", "security": [{"AdminID": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/authz/v1/users/{user_id}/roles/grant": {
            "post": {"tags": ["authz"], "summary": "Grant a role", "security": [{"AdminID": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "role_already_assigned"}}}
        },
        "/api/authz/v1/users/{user_id}/roles/revoke": {
            "post": {"tags": ["authz"], "summary": "Revoke a role", "security": [{"AdminID": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "role_not_assigned"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "kura election API",
	Description:      "Student council elections: phases, delegate candidacies and votes, party slates and council ballots.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
