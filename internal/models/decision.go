// internal/models/decision.go
package models

import (
	"fmt"
	"strings"

	"estate-admin/internal/common/validation"
)

// Decision is the closed set of admin decisions on a franchisee request.
type Decision int

const (
	DecisionApprove Decision = iota + 1
	DecisionReject
	DecisionTerminate
)

var Decisions = []Decision{DecisionApprove, DecisionReject, DecisionTerminate}

func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approve":
		return DecisionApprove, nil
	case "reject":
		return DecisionReject, nil
	case "terminate":
		return DecisionTerminate, nil
	}
	return 0, fmt.Errorf("unknown decision %q", s)
}

func (d Decision) String() string {
	switch d {
	case DecisionApprove:
		return "approve"
	case DecisionReject:
		return "reject"
	case DecisionTerminate:
		return "terminate"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

func (d Decision) Valid() bool {
	switch d {
	case DecisionApprove, DecisionReject, DecisionTerminate:
		return true
	}
	return false
}

// Endpoint is the path suffix under /api/franchisee/requests/{id}/.
func (d Decision) Endpoint() string {
	return d.String()
}

// FromStatus is the only status the decision applies to.
func (d Decision) FromStatus() RequestStatus {
	switch d {
	case DecisionApprove, DecisionReject:
		return StatusPending
	case DecisionTerminate:
		return StatusApproved
	}
	return ""
}

// ToStatus is the status the remote moves the request into.
func (d Decision) ToStatus() RequestStatus {
	switch d {
	case DecisionApprove:
		return StatusApproved
	case DecisionReject:
		return StatusRejected
	case DecisionTerminate:
		return StatusTerminated
	}
	return ""
}

// AppliesTo reports whether the decision can be opened for a request in status s.
func (d Decision) AppliesTo(s RequestStatus) bool {
	return d.Valid() && s == d.FromStatus() && s.CanTransitionTo(d.ToStatus())
}

// InputSchema describes the fields the decision form must carry.
func (d Decision) InputSchema() validation.JSONSchema {
	comments := validation.Property{
		Type:        "string",
		Description: "Admin comments recorded with the decision",
		Pattern:     validation.StringPtr(validation.NotBlankPattern),
		MaxLength:   validation.IntPtr(1000),
	}

	schema := validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"comments": comments,
		},
		AdditionalProperties: false,
	}

	switch d {
	case DecisionApprove:
		schema.Properties["endDate"] = validation.Property{
			Type:        "string",
			Description: "Optional assignment end date",
			Format:      "date",
		}
	case DecisionReject, DecisionTerminate:
		schema.Required = []string{"comments"}
	}
	return schema
}

// RequiresComments is derived from the schema so the two cannot drift.
func (d Decision) RequiresComments() bool {
	for _, f := range d.InputSchema().Required {
		if f == "comments" {
			return true
		}
	}
	return false
}

// Copy is the confirmation text shown around a decision.
type Copy struct {
	Title   string
	Prompt  string
	Confirm string
	Success string
	Failure string
}

func (d Decision) Copy() Copy {
	switch d {
	case DecisionApprove:
		return Copy{
			Title:   "Approve Franchisee Request",
			Prompt:  "Approve this request and create the district assignment?",
			Confirm: "Approve",
			Success: "Request approved successfully",
			Failure: "Failed to approve request",
		}
	case DecisionReject:
		return Copy{
			Title:   "Reject Franchisee Request",
			Prompt:  "Reject this request? Comments are required.",
			Confirm: "Reject",
			Success: "Request rejected successfully",
			Failure: "Failed to reject request",
		}
	case DecisionTerminate:
		return Copy{
			Title:   "Terminate Franchisee",
			Prompt:  "Terminate this franchise assignment? Comments are required.",
			Confirm: "Terminate",
			Success: "Franchisee terminated successfully",
			Failure: "Failed to terminate franchisee",
		}
	}
	return Copy{}
}

// DecisionInput carries the form fields of a decision.
type DecisionInput struct {
	Comments string `json:"comments,omitempty"`
	EndDate  string `json:"endDate,omitempty"`
}

// Document is the form as validated against InputSchema. Blank values are omitted.
func (in DecisionInput) Document() map[string]interface{} {
	doc := map[string]interface{}{}
	if c := strings.TrimSpace(in.Comments); c != "" {
		doc["comments"] = c
	}
	if e := strings.TrimSpace(in.EndDate); e != "" {
		doc["endDate"] = e
	}
	return doc
}

// Validate checks in against the decision's schema and returns a user-facing
// message for the first failing field.
func (d Decision) Validate(in DecisionInput) (string, error) {
	if !d.Valid() {
		return "", fmt.Errorf("unknown decision %d", int(d))
	}
	doc := in.Document()
	if d != DecisionApprove {
		delete(doc, "endDate")
	}
	res, err := validation.ValidateDocument(doc, d.InputSchema())
	if err != nil {
		return "", err
	}
	if res.Valid {
		return "", nil
	}
	switch {
	case res.HasErrors("comments"):
		if d.RequiresComments() && doc["comments"] == nil {
			return "Comments are required", nil
		}
		return "Comments must be at most 1000 characters", nil
	case res.HasErrors("endDate"):
		return "End date must be in YYYY-MM-DD format", nil
	default:
		return strings.Join(res.GetErrorMessages(), "; "), nil
	}
}
