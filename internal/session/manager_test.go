package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/psds-microservice/admin-console/internal/apiclient"
	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	res   apiclient.LoginResult
	err   error
	calls int
}

func (f *fakeAuth) Login(context.Context, string, string) (apiclient.LoginResult, error) {
	f.calls++
	return f.res, f.err
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2027, 5, 1, 12, 0, 0, 0, time.UTC)
	got, ok := TokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)
}

func TestLoginValidatesBeforeCallingAuth(t *testing.T) {
	auth := &fakeAuth{}
	m := NewManager(NewMemoryStore(), auth, nil)

	_, err := m.Login(context.Background(), " ", "")
	var ve *errs.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "password")
	assert.Zero(t, auth.calls)
}

func TestLoginLogoutLifecycle(t *testing.T) {
	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	auth := &fakeAuth{res: apiclient.LoginResult{
		User:        model.User{ID: "u1", Name: "Ann", Role: model.RoleSuperAdmin},
		Token:       signedToken(t, exp),
		Permissions: map[string]string{ModuleKYC: "Full", ModuleTickets: "View"},
	}}
	store := NewMemoryStore()
	m := NewManager(store, auth, nil)

	var ended []string
	m.OnEnd(func(id string) { ended = append(ended, id) })

	s, err := m.Login(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	require.NotNil(t, s.ExpiresAt)
	assert.True(t, exp.Equal(*s.ExpiresAt))
	assert.True(t, s.HasPermission(ModuleKYC, LevelFull))
	assert.False(t, s.HasPermission(ModuleTickets, LevelFull))

	persisted, err := store.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Token, persisted.Token)

	got, err := m.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Logout(context.Background(), s.ID))
	assert.Equal(t, []string{s.ID}, ended)
	_, err = m.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)
	_, err = store.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)

	assert.ErrorIs(t, m.Logout(context.Background(), s.ID), errs.ErrSessionNotFound)
}

func TestGetTearsDownExpiredSession(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, &fakeAuth{res: apiclient.LoginResult{
		User:  model.User{ID: "u1"},
		Token: signedToken(t, time.Now().Add(time.Minute)),
	}}, nil)
	var ended int
	m.OnEnd(func(string) { ended++ })

	s, err := m.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, errs.ErrSessionExpired)
	assert.Equal(t, 1, ended)
	_, err = store.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)
}

func TestRehydrateRunsOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now().UTC()
	past, future := now.Add(-time.Hour), now.Add(time.Hour)
	require.NoError(t, store.Save(ctx, &Session{ID: "live", User: &model.User{ID: "u1"}, Token: "t", ExpiresAt: &future}))
	require.NoError(t, store.Save(ctx, &Session{ID: "no-exp", User: &model.User{ID: "u2"}, Token: "t"}))
	require.NoError(t, store.Save(ctx, &Session{ID: "stale", User: &model.User{ID: "u3"}, Token: "t", ExpiresAt: &past}))

	m := NewManager(store, nil, nil)
	n, err := m.Rehydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = m.Get(ctx, "live")
	assert.NoError(t, err)
	_, err = m.Get(ctx, "stale")
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)
	_, err = store.Get(ctx, "stale")
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, &Session{ID: "late", User: &model.User{ID: "u4"}, Token: "t"}))
	n, err = m.Rehydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = m.Get(ctx, "late")
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)
}
