package workflow

import (
	"strings"
	"time"

	"github.com/psds-microservice/admin-console/internal/validation"
)

type ActionKind string

const (
	ActionApprove   ActionKind = "approve"
	ActionReject    ActionKind = "reject"
	ActionSetStatus ActionKind = "setStatus"
	ActionAssign    ActionKind = "assign"
)

// Action is a state change requested against the selected record.
// For assign, a nil AdminID unassigns.
type Action struct {
	Kind    ActionKind `json:"action" validate:"required,oneof=approve reject setStatus assign"`
	Reason  string     `json:"reason,omitempty" validate:"required_if=Kind reject,max=1000"`
	Status  string     `json:"status,omitempty" validate:"required_if=Kind setStatus"`
	AdminID *string    `json:"adminId,omitempty"`
	Notes   string     `json:"notes,omitempty" validate:"max=2000"`
}

func (a Action) normalized() Action {
	a.Reason = strings.TrimSpace(a.Reason)
	a.Status = strings.TrimSpace(a.Status)
	a.Notes = strings.TrimSpace(a.Notes)
	if a.AdminID != nil {
		id := strings.TrimSpace(*a.AdminID)
		if id == "" {
			a.AdminID = nil
		} else {
			a.AdminID = &id
		}
	}
	return a
}

// Validate runs the form checks that never need the network.
func (a Action) Validate() error {
	return validation.Struct(a)
}

// Event describes a successful mutation for downstream consumers.
type Event struct {
	Feature  string    `json:"feature"`
	Action   string    `json:"action"`
	RecordID string    `json:"record_id,omitempty"`
	Status   string    `json:"status,omitempty"`
	ActorID  string    `json:"actor_id"`
	Count    int       `json:"count,omitempty"`
	At       time.Time `json:"at"`
}
