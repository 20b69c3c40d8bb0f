package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/psds-microservice/admin-console/internal/dto"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/psds-microservice/admin-console/internal/session"
)

var testTime = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

func testSession(role string, perms map[string]session.Level) *session.Session {
	return &session.Session{
		ID:          "s1",
		User:        &model.User{ID: "u1", Name: "Operator", Role: role},
		Token:       "tok",
		Permissions: perms,
	}
}

func fullSession() *session.Session {
	return testSession(model.RoleSuperAdmin, map[string]session.Level{
		session.ModuleKYC:     session.LevelFull,
		session.ModuleTickets: session.LevelFull,
	})
}

type fakeKYC struct {
	mu      sync.Mutex
	apps    map[string]dto.ApplicationDTO
	pages   []dto.KYCPage
	listErr error
	getErr  error
	review  func(id string, req dto.ReviewRequest) (dto.ApplicationDTO, error)
	bulk    func(req dto.BulkActionRequest) (dto.BulkActionResult, error)
	stats   model.Stats

	listCalls   int
	reviewCalls int
	// gate, when set, blocks the nth List call until released.
	gate map[int]chan struct{}
}

func (f *fakeKYC) ListKYCApplications(ctx context.Context, _ string, _ model.Filters) (dto.KYCPage, error) {
	f.mu.Lock()
	f.listCalls++
	n := f.listCalls
	gate := f.gate[n]
	var page dto.KYCPage
	if len(f.pages) >= n {
		page = f.pages[n-1]
	} else if len(f.pages) > 0 {
		page = f.pages[len(f.pages)-1]
	}
	err := f.listErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return page, err
}

func (f *fakeKYC) lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeKYC) reviews() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reviewCalls
}

func (f *fakeKYC) GetKYCApplication(_ context.Context, _ string, id string) (dto.ApplicationDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return dto.ApplicationDTO{}, f.getErr
	}
	return f.apps[id], nil
}

func (f *fakeKYC) ReviewKYCApplication(_ context.Context, _ string, id string, req dto.ReviewRequest) (dto.ApplicationDTO, error) {
	f.mu.Lock()
	f.reviewCalls++
	f.mu.Unlock()
	return f.review(id, req)
}

func (f *fakeKYC) BulkKYCAction(_ context.Context, _ string, req dto.BulkActionRequest) (dto.BulkActionResult, error) {
	return f.bulk(req)
}

func (f *fakeKYC) KYCStats(context.Context, string) (model.Stats, error) {
	return f.stats, nil
}

type fakeTickets struct {
	mu       sync.Mutex
	items    map[string]dto.InquiryDTO
	page     dto.InquiryPage
	assign   func(id string, adminID *string) (dto.InquiryDTO, error)
	status   func(id string, req dto.StatusUpdateRequest) (dto.InquiryDTO, error)
	getGate  chan struct{}
	getCalls int
	calls    int
}

func (f *fakeTickets) ListInquiries(context.Context, string, model.Filters) (dto.InquiryPage, error) {
	return f.page, nil
}

func (f *fakeTickets) GetInquiry(_ context.Context, _ string, id string) (dto.InquiryDTO, error) {
	f.mu.Lock()
	f.getCalls++
	gate := f.getGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id], nil
}

func (f *fakeTickets) UpdateInquiryStatus(_ context.Context, _ string, id string, req dto.StatusUpdateRequest) (dto.InquiryDTO, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.status(id, req)
}

func (f *fakeTickets) AssignInquiry(_ context.Context, _ string, id string, adminID *string) (dto.InquiryDTO, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.assign(id, adminID)
}

func (f *fakeTickets) gets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

func (f *fakeTickets) InquiryStats(context.Context, string) (model.Stats, error) {
	return model.Stats{}, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
