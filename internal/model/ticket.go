package model

import "time"

type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusCancelled  TicketStatus = "cancelled"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusResolved, TicketStatusCancelled:
		return true
	}
	return false
}

// ContactInquiry is a support ticket raised through the marketplace contact form.
type ContactInquiry struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone,omitempty"`
	Subject       string       `json:"subject"`
	Message       string       `json:"message"`
	Category      string       `json:"category,omitempty"`
	Priority      string       `json:"priority,omitempty"`
	Status        TicketStatus `json:"status"`
	AssignedAdmin Assignee     `json:"assignedAdmin"`
	AdminNotes    string       `json:"adminNotes,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	AssignedAt    *time.Time   `json:"assignedAt,omitempty"`
	ResolvedAt    *time.Time   `json:"resolvedAt,omitempty"`
}

func (c ContactInquiry) RecordID() string { return c.ID }
