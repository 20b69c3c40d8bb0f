package workflow

import (
	"sync"

	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/psds-microservice/admin-console/internal/session"
	"go.uber.org/zap"
)

// Workspace is one operator's pair of review controllers plus their shared inbox.
type Workspace struct {
	KYC     *Controller[model.KYCApplication]
	Tickets *Controller[model.ContactInquiry]
	Inbox   *Inbox
}

// Registry hands out a Workspace per session and drops it when the session ends.
type Registry struct {
	kyc     KYCAPI
	tickets TicketAPI
	events  EventSink
	log     *zap.Logger

	mu     sync.Mutex
	spaces map[string]*Workspace
}

func NewRegistry(kyc KYCAPI, tickets TicketAPI, events EventSink, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		kyc:     kyc,
		tickets: tickets,
		events:  events,
		log:     log,
		spaces:  make(map[string]*Workspace),
	}
}

// For returns the workspace bound to sess, creating it on first use.
func (r *Registry) For(sess *session.Session) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.spaces[sess.ID]; ok {
		return ws
	}
	inbox := NewInbox(50)
	opts := Options{
		Notifier: inbox,
		Events:   r.events,
		Logger:   r.log.With(zap.String("session_id", sess.ID)),
	}
	ws := &Workspace{
		KYC:     NewController[model.KYCApplication](NewKYCFeature(r.kyc), sess, opts),
		Tickets: NewController[model.ContactInquiry](NewTicketFeature(r.tickets), sess, opts),
		Inbox:   inbox,
	}
	r.spaces[sess.ID] = ws
	return ws
}

// Drop discards the workspace for a session id. Safe to call for unknown ids.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.spaces, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spaces)
}
