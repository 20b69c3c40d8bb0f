package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AssigneeKind tags the shape an assignee arrived in.
type AssigneeKind uint8

const (
	AssigneeNone AssigneeKind = iota
	AssigneeRef
	AssigneeExpanded
)

// Admin is the expanded form of an admin identity.
type Admin struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Assignee is either nothing, a bare admin id, or an expanded admin object.
// The zero value is AssigneeNone.
type Assignee struct {
	Kind  AssigneeKind
	ID    string
	Admin *Admin
}

func NoAssignee() Assignee { return Assignee{} }

func AssigneeRefTo(id string) Assignee {
	if id == "" {
		return Assignee{}
	}
	return Assignee{Kind: AssigneeRef, ID: id}
}

func ExpandedAssignee(a Admin) Assignee {
	return Assignee{Kind: AssigneeExpanded, ID: a.ID, Admin: &a}
}

func (a Assignee) IsNone() bool { return a.Kind == AssigneeNone }

// DisplayName prefers the expanded name and falls back to the id.
func (a Assignee) DisplayName() string {
	if a.Admin != nil && a.Admin.Name != "" {
		return a.Admin.Name
	}
	return a.ID
}

type rawAdmin struct {
	ID        string `json:"_id"`
	AltID     string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// NormalizeAssignee converts whatever the server sent (null, "", "id", {...}) into an Assignee.
func NormalizeAssignee(raw []byte) (Assignee, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Assignee{}, nil
	}
	switch raw[0] {
	case '"':
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return Assignee{}, fmt.Errorf("assignee id: %w", err)
		}
		return AssigneeRefTo(strings.TrimSpace(id)), nil
	case '{':
		var ra rawAdmin
		if err := json.Unmarshal(raw, &ra); err != nil {
			return Assignee{}, fmt.Errorf("assignee object: %w", err)
		}
		id := ra.ID
		if id == "" {
			id = ra.AltID
		}
		name := ra.Name
		if name == "" {
			name = strings.TrimSpace(ra.FirstName + " " + ra.LastName)
		}
		if id == "" && name == "" {
			return Assignee{}, nil
		}
		return ExpandedAssignee(Admin{ID: id, Name: name, Email: ra.Email, Role: ra.Role}), nil
	default:
		return Assignee{}, fmt.Errorf("assignee: unexpected json %s", string(raw))
	}
}

func (a *Assignee) UnmarshalJSON(b []byte) error {
	n, err := NormalizeAssignee(b)
	if err != nil {
		return err
	}
	*a = n
	return nil
}

func (a Assignee) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AssigneeRef:
		return json.Marshal(a.ID)
	case AssigneeExpanded:
		return json.Marshal(a.Admin)
	default:
		return []byte("null"), nil
	}
}

// MergeAssignee keeps an already expanded admin when next is only a bare
// reference to the same id. Any other combination accepts next as is.
func MergeAssignee(prev, next Assignee) Assignee {
	if next.Kind == AssigneeRef && prev.Kind == AssigneeExpanded && prev.Admin != nil && prev.Admin.ID == next.ID {
		return prev
	}
	return next
}
