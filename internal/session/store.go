package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/psds-microservice/admin-console/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists sessions so they survive a console restart.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Session, error)
}

type sessionRecord struct {
	ID          string           `gorm:"primaryKey;type:varchar(64)"`
	UserID      string           `gorm:"type:varchar(64);index;not null"`
	UserName    string           `gorm:"type:varchar(255)"`
	UserEmail   string           `gorm:"type:varchar(255)"`
	UserRole    string           `gorm:"type:varchar(64)"`
	Token       string           `gorm:"type:text;not null"`
	Permissions map[string]Level `gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time
	ExpiresAt   *time.Time `gorm:"index"`
}

func (sessionRecord) TableName() string { return "admin_sessions" }

func toRecord(s *Session) sessionRecord {
	r := sessionRecord{
		ID:          s.ID,
		Token:       s.Token,
		Permissions: s.Permissions,
		CreatedAt:   s.CreatedAt,
		ExpiresAt:   s.ExpiresAt,
	}
	if s.User != nil {
		r.UserID, r.UserName, r.UserEmail, r.UserRole = s.User.ID, s.User.Name, s.User.Email, s.User.Role
	}
	return r
}

func (r sessionRecord) toSession() *Session {
	return &Session{
		ID:          r.ID,
		User:        &model.User{ID: r.UserID, Name: r.UserName, Email: r.UserEmail, Role: r.UserRole},
		Token:       r.Token,
		Permissions: r.Permissions,
		CreatedAt:   r.CreatedAt,
		ExpiresAt:   r.ExpiresAt,
	}
}

// GormStore keeps sessions in the admin_sessions table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Save(ctx context.Context, sess *Session) error {
	rec := toRecord(sess)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
}

func (s *GormStore) Get(ctx context.Context, id string) (*Session, error) {
	var rec sessionRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrSessionNotFound
		}
		return nil, err
	}
	return rec.toSession(), nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "id = ?", id).Error
}

func (s *GormStore) List(ctx context.Context) ([]*Session, error) {
	var recs []sessionRecord
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*Session, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toSession())
	}
	return out, nil
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errs.ErrSessionNotFound
	}
	return s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out, nil
}
