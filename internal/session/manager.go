package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/psds-microservice/admin-console/internal/apiclient"
	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/psds-microservice/admin-console/internal/metrics"
	"go.uber.org/zap"
)

// Authenticator exchanges credentials with the external auth service.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (apiclient.LoginResult, error)
}

// Manager owns the session lifecycle: created at login, torn down at logout,
// rehydrated once at process start.
type Manager struct {
	store Store
	auth  Authenticator
	log   *zap.Logger
	now   func() time.Time

	mu         sync.RWMutex
	sessions   map[string]*Session
	onEnd      []func(id string)
	rehydrated bool
}

func NewManager(store Store, auth Authenticator, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:    store,
		auth:     auth,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// OnEnd registers a hook run whenever a session is logged out or expires.
func (m *Manager) OnEnd(fn func(id string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnd = append(m.onEnd, fn)
}

func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	fields := map[string]string{}
	if email == "" {
		fields["email"] = "email is required"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return nil, &errs.ValidationError{Fields: fields}
	}

	res, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	user := res.User
	s := &Session{
		ID:          uuid.NewString(),
		User:        &user,
		Token:       res.Token,
		Permissions: ParseLevels(res.Permissions),
		CreatedAt:   m.now().UTC(),
	}
	if exp, ok := TokenExpiry(res.Token); ok {
		s.ExpiresAt = &exp
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.SetActiveSessions(n)
	m.log.Info("session: login", zap.String("session_id", s.ID), zap.String("user_id", user.ID), zap.String("role", user.Role))
	return s, nil
}

func (m *Manager) Logout(ctx context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	hooks := append([]func(string){}, m.onEnd...)
	m.mu.Unlock()
	if !ok {
		return errs.ErrSessionNotFound
	}
	metrics.SetActiveSessions(n)
	for _, fn := range hooks {
		fn(id)
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.log.Info("session: logout", zap.String("session_id", id))
	return nil
}

// Get returns a live session. Expired sessions are torn down on access.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errs.ErrSessionNotFound
	}
	if s.Expired(m.now()) {
		if err := m.Logout(ctx, id); err != nil {
			m.log.Warn("session: expire", zap.String("session_id", id), zap.Error(err))
		}
		return nil, errs.ErrSessionExpired
	}
	return s, nil
}

// Rehydrate loads persisted sessions. Only the first call does any work.
func (m *Manager) Rehydrate(ctx context.Context) (int, error) {
	m.mu.Lock()
	if m.rehydrated {
		n := len(m.sessions)
		m.mu.Unlock()
		return n, nil
	}
	m.rehydrated = true
	m.mu.Unlock()

	all, err := m.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("load sessions: %w", err)
	}
	now := m.now()
	loaded := 0
	for _, s := range all {
		if s.Expired(now) {
			if err := m.store.Delete(ctx, s.ID); err != nil {
				m.log.Warn("session: drop expired", zap.String("session_id", s.ID), zap.Error(err))
			}
			continue
		}
		m.mu.Lock()
		m.sessions[s.ID] = s
		m.mu.Unlock()
		loaded++
	}
	metrics.SetActiveSessions(loaded)
	m.log.Info("session: rehydrated", zap.Int("sessions", loaded), zap.Int("expired", len(all)-loaded))
	return loaded, nil
}

// TokenExpiry reads the exp claim without verifying the signature; the
// marketplace API stays the authority on token validity.
func TokenExpiry(token string) (time.Time, bool) {
	tok, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := tok.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time.UTC(), true
}
