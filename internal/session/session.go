package session

import (
	"time"

	"github.com/psds-microservice/admin-console/internal/model"
)

// Level is a per-module grant. Full is a distinct, stronger grant than View.
type Level string

const (
	LevelView Level = "View"
	LevelFull Level = "Full"
)

// Permission modules as named by the marketplace's staff permission editor.
const (
	ModuleKYC          = "KYC"
	ModuleTickets      = "Support Tickets"
	ModuleBlogs        = "Blogs"
	ModuleProducts     = "Products"
	ModuleStaff        = "Staff"
	ModuleActivityLogs = "Activity Logs"
)

// Session is an authenticated operator. It is not mutated after creation.
type Session struct {
	ID          string           `json:"id"`
	User        *model.User      `json:"user"`
	Token       string           `json:"-"`
	Permissions map[string]Level `json:"permissions"`
	CreatedAt   time.Time        `json:"createdAt"`
	ExpiresAt   *time.Time       `json:"expiresAt,omitempty"`
}

// HasPermission reports whether the session holds level on module.
// A View request passes for a stored View or Full; a Full request passes only for Full.
// A missing session, user or permission map always denies.
func (s *Session) HasPermission(module string, level Level) bool {
	if s == nil || s.User == nil || s.Permissions == nil {
		return false
	}
	stored, ok := s.Permissions[module]
	if !ok {
		return false
	}
	switch level {
	case LevelView:
		return stored == LevelView || stored == LevelFull
	case LevelFull:
		return stored == LevelFull
	}
	return false
}

func (s *Session) Role() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Role
}

func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// ParseLevels converts the raw permission map, dropping unknown levels.
func ParseLevels(raw map[string]string) map[string]Level {
	out := make(map[string]Level, len(raw))
	for module, lvl := range raw {
		switch Level(lvl) {
		case LevelView, LevelFull:
			out[module] = Level(lvl)
		}
	}
	return out
}
