package workflow

import (
	"sync"
	"time"
)

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelInfo    NotificationLevel = "info"
)

// Notification is a transient toast for the operator.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Feature string            `json:"feature"`
	Message string            `json:"message"`
	At      time.Time         `json:"at"`
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Inbox queues notifications until the UI drains them. The oldest entries are
// dropped once max is reached.
type Inbox struct {
	mu    sync.Mutex
	items []Notification
	max   int
}

func NewInbox(max int) *Inbox {
	if max <= 0 {
		max = 50
	}
	return &Inbox{max: max}
}

func (b *Inbox) Notify(n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, n)
	if over := len(b.items) - b.max; over > 0 {
		b.items = append([]Notification(nil), b.items[over:]...)
	}
}

// Drain returns and clears the queued notifications.
func (b *Inbox) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
