package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/admin-console/internal/apiclient"
	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/psds-microservice/admin-console/internal/handler"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/psds-microservice/admin-console/internal/session"
	"github.com/psds-microservice/admin-console/internal/workflow"
	"github.com/psds-microservice/helpy/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSessions struct {
	byID map[string]*session.Session
}

func (f *fakeSessions) Get(_ context.Context, id string) (*session.Session, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, errs.ErrSessionNotFound
}

func (f *fakeSessions) Login(context.Context, string, string) (*session.Session, error) {
	return nil, &errs.APIError{Kind: errs.KindHTTP, StatusCode: 401, Message: "Invalid credentials"}
}

func (f *fakeSessions) Logout(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func writeJSON(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func marketplace(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-full", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/admin/kyc/applications":
			writeJSON(w, 200, `{"success":true,"data":{"applications":[{"_id":"k1","status":"submitted","seller":{"_id":"s1","name":"Acme"}}],"pagination":{"page":1,"limit":10,"total":1}}}`)
		case r.Method == http.MethodGet && r.URL.Path == "/admin/kyc/applications/k1":
			writeJSON(w, 200, `{"success":true,"data":{"application":{"_id":"k1","status":"submitted"}}}`)
		case r.Method == http.MethodGet && r.URL.Path == "/admin/kyc/applications/missing":
			writeJSON(w, 404, `{"success":false,"message":"Application not found","statusCode":404}`)
		case r.Method == http.MethodPatch && r.URL.Path == "/admin/kyc/applications/k1/review":
			writeJSON(w, 200, `{"success":true,"data":{"application":{"_id":"k1","status":"approved","reviewedBy":{"_id":"u1","name":"Ann"}}}}`)
		default:
			writeJSON(w, 404, `{"status":"error","error":"no route"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	srv := marketplace(t)
	client := apiclient.New(apiclient.Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	reg := workflow.NewRegistry(client, client, nil, nil)
	sessions := &fakeSessions{byID: map[string]*session.Session{
		"full": {
			ID:    "full",
			User:  &model.User{ID: "u1", Name: "Ann", Role: model.RoleSuperAdmin},
			Token: "jwt-full",
			Permissions: map[string]session.Level{
				session.ModuleKYC:   session.LevelFull,
				session.ModuleStaff: session.LevelFull,
				session.ModuleBlogs: session.LevelFull,
			},
		},
		"viewer": {
			ID:          "viewer",
			User:        &model.User{ID: "u2", Name: "Vic", Role: "Support"},
			Token:       "jwt-view",
			Permissions: map[string]session.Level{session.ModuleKYC: session.LevelView},
		},
	}}
	return New(Deps{
		Sessions: sessions,
		KYC:      handler.NewKYCHandler(reg),
		Tickets:  handler.NewTicketHandler(reg),
		Content:  handler.NewContentHandler(client),
		Ready:    func() bool { return true },
	})
}

func do(t *testing.T, h http.Handler, method, path, sessionID, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("Authorization", "Bearer "+sessionID)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func TestHealthAndReady(t *testing.T) {
	h := newTestRouter(t)
	code, body := do(t, h, http.MethodGet, paths.PathHealth, "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin-console", body["service"])

	code, _ = do(t, h, http.MethodGet, paths.PathReady, "", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestAuthentication(t *testing.T) {
	h := newTestRouter(t)

	code, _ := do(t, h, http.MethodGet, "/api/v1/kyc", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, h, http.MethodGet, "/api/v1/kyc", "nobody", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := do(t, h, http.MethodPost, "/api/v1/session/login", "", `{"email":"a@b.c","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", body["error"])

	code, body = do(t, h, http.MethodGet, "/api/v1/session", "full", "")
	assert.Equal(t, http.StatusOK, code)
	assert.NotNil(t, body["session"])
}

func TestPermissionGate(t *testing.T) {
	h := newTestRouter(t)

	code, _ := do(t, h, http.MethodGet, "/api/v1/tickets", "viewer", "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, h, http.MethodPost, "/api/v1/kyc/actions", "viewer", `{"action":"approve"}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, h, http.MethodGet, "/api/v1/blogs", "viewer", "")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestKYCReviewFlow(t *testing.T) {
	h := newTestRouter(t)

	code, body := do(t, h, http.MethodGet, "/api/v1/kyc?page=1&limit=10", "full", "")
	require.Equal(t, http.StatusOK, code)
	state := body["state"].(map[string]any)
	assert.Equal(t, "list", state["viewMode"])
	require.Len(t, state["items"], 1)

	code, body = do(t, h, http.MethodGet, "/api/v1/kyc/missing", "full", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Application not found", body["error"])
	assert.Equal(t, "list", body["state"].(map[string]any)["viewMode"])
	require.Len(t, body["notifications"], 1)

	code, body = do(t, h, http.MethodGet, "/api/v1/kyc/k1", "full", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "detail", body["state"].(map[string]any)["viewMode"])

	code, body = do(t, h, http.MethodPost, "/api/v1/kyc/actions", "full", `{"action":"reject"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["fields"], "reason")

	code, body = do(t, h, http.MethodPost, "/api/v1/kyc/actions", "full", `{"action":"approve","notes":"ok"}`)
	require.Equal(t, http.StatusOK, code)
	record := body["record"].(map[string]any)
	assert.Equal(t, "approved", record["status"])
	assert.Equal(t, "Ann", record["reviewedBy"])
	items := body["state"].(map[string]any)["items"].([]any)
	assert.Equal(t, "approved", items[0].(map[string]any)["status"])

	code, body = do(t, h, http.MethodPost, "/api/v1/kyc/actions", "full", `{"action":"approve"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, body = do(t, h, http.MethodPost, "/api/v1/kyc/back", "full", "")
	require.Equal(t, http.StatusOK, code)
	st := body["state"].(map[string]any)
	assert.Equal(t, "list", st["viewMode"])
	assert.Nil(t, st["selected"])
}

func TestSetFilterRejectsUnknownKey(t *testing.T) {
	h := newTestRouter(t)
	code, body := do(t, h, http.MethodPatch, "/api/v1/kyc/filters", "full", `{"key":"colour","value":"red"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["fields"], "colour")

	code, body = do(t, h, http.MethodPatch, "/api/v1/kyc/filters", "full", `{"key":"search","value":"acme"}`)
	assert.Equal(t, http.StatusOK, code)
	filters := body["state"].(map[string]any)["filters"].(map[string]any)
	assert.Equal(t, "acme", filters["search"])
}

func TestListFilterChangeReturnsToFirstPage(t *testing.T) {
	h := newTestRouter(t)
	filtersOf := func(body map[string]any) map[string]any {
		return body["state"].(map[string]any)["filters"].(map[string]any)
	}

	code, body := do(t, h, http.MethodGet, "/api/v1/kyc?page=3", "full", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, filtersOf(body)["page"])

	code, body = do(t, h, http.MethodGet, "/api/v1/kyc", "full", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, filtersOf(body)["page"])

	code, body = do(t, h, http.MethodGet, "/api/v1/kyc?status=approved", "full", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, filtersOf(body)["page"])
	assert.Equal(t, "approved", filtersOf(body)["status"])

	code, body = do(t, h, http.MethodGet, "/api/v1/kyc?page=0", "full", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["fields"], "page")
}

func TestContentValidationNeverReachesUpstream(t *testing.T) {
	h := newTestRouter(t)
	code, body := do(t, h, http.MethodPost, "/api/v1/blogs", "full", `{"title":"Hi"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "content")

	code, body = do(t, h, http.MethodDelete, "/api/v1/staff/u1", "full", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, body["error"], "your own account")
}

func TestLogout(t *testing.T) {
	h := newTestRouter(t)
	code, _ := do(t, h, http.MethodPost, "/api/v1/session/logout", "full", "")
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = do(t, h, http.MethodGet, "/api/v1/session", "full", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}
