// Package workflow holds the review controllers behind the KYC and ticket screens.
//
// A Controller mediates between a paginated upstream collection and a single
// detail view. It is in exactly one of two modes: list (no selection) or detail
// (selection populated). Actions against the selection replace it with the
// server's record and patch the matching list entry in place.
//
// Upstream calls are made without holding the controller lock. Responses that
// arrive out of order are dropped: a list response older than the one already
// applied is ignored, and a selection response is ignored once a newer select
// or a Reset has been issued.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/psds-microservice/admin-console/internal/metrics"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/psds-microservice/admin-console/internal/session"
	"go.uber.org/zap"
)

type ViewMode string

const (
	ViewList   ViewMode = "list"
	ViewDetail ViewMode = "detail"
)

// Actor is whoever is driving the controller.
type Actor interface {
	HasPermission(module string, level session.Level) bool
	Role() string
}

// Feature adapts one review workflow (KYC, tickets) to the controller.
type Feature[T any] interface {
	Name() string
	Module() string
	ID(rec T) string
	List(ctx context.Context, token string, f model.Filters) ([]T, model.Pagination, error)
	Get(ctx context.Context, token, id string) (T, error)
	Stats(ctx context.Context, token string) (model.Stats, error)
	// Check returns a *errs.PreconditionError or *errs.ValidationError when a is not legal for rec.
	Check(actor Actor, rec T, a Action) error
	Apply(ctx context.Context, token string, rec T, a Action) (T, error)
	// Merge folds the server's record into the previously held selection.
	Merge(prev, next T) T
	// Patch copies only the fields a is known to change from updated onto a list entry.
	Patch(entry, updated T, a Action) T
	SuccessMessage(a Action, updated T) string
	Status(rec T) string
}

// BulkFeature is implemented by features that accept one action over many records.
type BulkFeature[T any] interface {
	Feature[T]
	Bulk(ctx context.Context, token string, ids []string, a Action) ([]T, int, error)
}

type EventSink interface {
	Publish(ctx context.Context, e Event)
}

// State is a copy of the controller's state at one instant.
type State[T any] struct {
	ViewMode       ViewMode         `json:"viewMode"`
	Items          []T              `json:"items"`
	Pagination     model.Pagination `json:"pagination"`
	Filters        model.Filters    `json:"filters"`
	Selected       *T               `json:"selected"`
	Error          string           `json:"error,omitempty"`
	Stats          *model.Stats     `json:"stats,omitempty"`
	ActionInFlight string           `json:"actionInFlight,omitempty"`
}

type Options struct {
	Notifier Notifier
	Events   EventSink
	Logger   *zap.Logger
}

type Controller[T any] struct {
	feature Feature[T]
	sess    *session.Session
	notify  Notifier
	events  EventSink
	log     *zap.Logger
	now     func() time.Time

	mu         sync.Mutex
	mode       ViewMode
	items      []T
	pagination model.Pagination
	filters    model.Filters
	selected   *T
	lastErr    string
	stats      *model.Stats
	inFlight   string

	loadSeq     uint64
	loadApplied uint64
	selectSeq   uint64
}

func NewController[T any](feature Feature[T], sess *session.Session, opts Options) *Controller[T] {
	c := &Controller[T]{
		feature: feature,
		sess:    sess,
		notify:  opts.Notifier,
		events:  opts.Events,
		log:     opts.Logger,
		now:     time.Now,
		mode:    ViewList,
		filters: model.DefaultFilters(),
		items:   []T{},
	}
	if c.notify == nil {
		c.notify = NotifierFunc(func(Notification) {})
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.With(zap.String("feature", feature.Name()))
	return c
}

func (c *Controller[T]) token() string {
	if c.sess == nil {
		return ""
	}
	return c.sess.Token
}

// State returns a snapshot safe to hand to other goroutines.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State[T]{
		ViewMode:       c.mode,
		Items:          append([]T(nil), c.items...),
		Pagination:     c.pagination,
		Filters:        c.filters,
		Error:          c.lastErr,
		ActionInFlight: c.inFlight,
	}
	if st.Items == nil {
		st.Items = []T{}
	}
	if c.selected != nil {
		sel := *c.selected
		st.Selected = &sel
	}
	if c.stats != nil {
		stats := *c.stats
		st.Stats = &stats
	}
	return st
}

func (c *Controller[T]) Filters() model.Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// SetFilter changes one filter field; any field other than page resets page to 1.
// It does not reload the list.
func (c *Controller[T]) SetFilter(key model.FilterKey, value string) (model.Filters, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := c.filters.Set(key, value)
	if err != nil {
		return c.filters, &errs.ValidationError{Fields: map[string]string{string(key): err.Error()}}
	}
	c.filters = f
	return f, nil
}

// Load fetches one page with f and replaces the list on success. On failure the
// previous list is kept and the error is recorded.
func (c *Controller[T]) Load(ctx context.Context, f model.Filters) error {
	f = f.Normalize()
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.filters = f
	c.mu.Unlock()

	items, pg, err := c.feature.List(ctx, c.token(), f)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.loadApplied {
		metrics.StaleResponse(c.feature.Name(), "load")
		c.log.Debug("workflow: stale list response dropped", zap.Uint64("seq", seq), zap.Uint64("applied", c.loadApplied))
		return nil
	}
	c.loadApplied = seq
	if err != nil {
		c.lastErr = errs.Message(err)
		c.emit(LevelError, "Failed to load list: "+c.lastErr)
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.pagination = pg
	c.lastErr = ""
	return nil
}

// Reload repeats Load with the current filters.
func (c *Controller[T]) Reload(ctx context.Context) error {
	return c.Load(ctx, c.Filters())
}

// SelectByID fetches id and moves to detail. On failure the mode is unchanged.
func (c *Controller[T]) SelectByID(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.emit(LevelError, "No record id given")
		return errs.ErrInvalidID
	}
	c.mu.Lock()
	c.selectSeq++
	seq := c.selectSeq
	c.mu.Unlock()

	rec, err := c.feature.Get(ctx, c.token(), id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.selectSeq {
		metrics.StaleResponse(c.feature.Name(), "select")
		c.log.Debug("workflow: superseded detail response dropped", zap.String("id", id))
		return nil
	}
	if err != nil {
		c.lastErr = errs.Message(err)
		c.emit(LevelError, "Failed to load details: "+c.lastErr)
		return err
	}
	c.selected = &rec
	c.mode = ViewDetail
	c.lastErr = ""
	return nil
}

// Reset clears the selection and returns to the list without refetching.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectSeq++
	c.selected = nil
	c.mode = ViewList
}

// LoadStats refreshes the stats snapshot. Failures are logged, not surfaced.
func (c *Controller[T]) LoadStats(ctx context.Context) (model.Stats, error) {
	st, err := c.feature.Stats(ctx, c.token())
	if err != nil {
		c.log.Warn("workflow: stats unavailable", zap.Error(err))
		return model.Stats{}, err
	}
	c.mu.Lock()
	c.stats = &st
	c.mu.Unlock()
	return st, nil
}

func (c *Controller[T]) guard(rec T, a Action) error {
	if !c.sess.HasPermission(c.feature.Module(), session.LevelFull) {
		return &errs.PreconditionError{
			Action: string(a.Kind),
			Reason: fmt.Sprintf("requires %s permission on %s", session.LevelFull, c.feature.Module()),
		}
	}
	if err := a.Validate(); err != nil {
		return err
	}
	return c.feature.Check(c.sess, rec, a)
}

// ApplyAction runs a against the selected record.
func (c *Controller[T]) ApplyAction(ctx context.Context, a Action) (T, error) {
	var zero T
	a = a.normalized()

	c.mu.Lock()
	if c.mode != ViewDetail || c.selected == nil {
		c.mu.Unlock()
		return zero, c.reject(&errs.PreconditionError{Action: string(a.Kind), Reason: errs.ErrNothingSelected.Error()})
	}
	if c.inFlight != "" {
		busy := c.inFlight
		c.mu.Unlock()
		return zero, c.reject(&errs.PreconditionError{Action: string(a.Kind), Reason: busy + " is still in progress"})
	}
	rec := *c.selected
	c.inFlight = string(a.Kind)
	c.mu.Unlock()

	if err := c.guard(rec, a); err != nil {
		c.mu.Lock()
		c.inFlight = ""
		c.mu.Unlock()
		return zero, c.reject(err)
	}

	updated, err := c.feature.Apply(ctx, c.token(), rec, a)

	c.mu.Lock()
	c.inFlight = ""
	if err != nil {
		c.lastErr = errs.Message(err)
		c.emit(LevelError, c.lastErr)
		c.mu.Unlock()
		c.log.Info("workflow: action failed", zap.String("action", string(a.Kind)), zap.String("id", c.feature.ID(rec)), zap.Error(err))
		return zero, err
	}
	id := c.feature.ID(rec)
	merged := c.feature.Merge(rec, updated)
	if c.selected != nil && c.feature.ID(*c.selected) == id {
		merged = c.feature.Merge(*c.selected, updated)
		c.selected = &merged
	}
	for i := range c.items {
		if c.feature.ID(c.items[i]) == id {
			c.items[i] = c.feature.Patch(c.items[i], merged, a)
		}
	}
	c.lastErr = ""
	c.emit(LevelSuccess, c.feature.SuccessMessage(a, merged))
	c.mu.Unlock()

	c.publish(ctx, Event{Action: string(a.Kind), RecordID: id, Status: c.feature.Status(merged)})
	return merged, nil
}

// BulkApply runs a over ids in one upstream call. Only approve and reject are accepted.
func (c *Controller[T]) BulkApply(ctx context.Context, ids []string, a Action) (int, error) {
	a = a.normalized()
	bf, ok := c.feature.(BulkFeature[T])
	if !ok {
		return 0, c.reject(&errs.PreconditionError{Action: string(a.Kind), Reason: "bulk actions are not supported for " + c.feature.Name()})
	}
	if a.Kind != ActionApprove && a.Kind != ActionReject {
		return 0, c.reject(&errs.PreconditionError{Action: string(a.Kind), Reason: "only approve and reject can be applied in bulk"})
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return 0, c.reject(&errs.ValidationError{Fields: map[string]string{"ids": "at least one id is required"}})
	}

	c.mu.Lock()
	known := make(map[string]T, len(c.items))
	for _, it := range c.items {
		known[c.feature.ID(it)] = it
	}
	c.mu.Unlock()

	for _, id := range ids {
		rec, inList := known[id]
		if err := c.bulkGuard(rec, inList, a); err != nil {
			return 0, c.reject(err)
		}
	}

	updated, n, err := bf.Bulk(ctx, c.token(), ids, a)

	c.mu.Lock()
	if err != nil {
		c.lastErr = errs.Message(err)
		c.emit(LevelError, c.lastErr)
		c.mu.Unlock()
		return 0, err
	}
	byID := make(map[string]T, len(updated))
	for _, u := range updated {
		byID[c.feature.ID(u)] = u
	}
	for i := range c.items {
		if u, ok := byID[c.feature.ID(c.items[i])]; ok {
			c.items[i] = c.feature.Patch(c.items[i], u, a)
		}
	}
	if c.selected != nil {
		if u, ok := byID[c.feature.ID(*c.selected)]; ok {
			merged := c.feature.Merge(*c.selected, u)
			c.selected = &merged
		}
	}
	c.lastErr = ""
	c.emit(LevelSuccess, fmt.Sprintf("%d record(s) updated: %s", n, a.Kind))
	c.mu.Unlock()

	c.publish(ctx, Event{Action: "bulk_" + string(a.Kind), Count: n})
	return n, nil
}

func (c *Controller[T]) bulkGuard(rec T, inList bool, a Action) error {
	if !inList {
		if !c.sess.HasPermission(c.feature.Module(), session.LevelFull) {
			return &errs.PreconditionError{Action: string(a.Kind), Reason: fmt.Sprintf("requires %s permission on %s", session.LevelFull, c.feature.Module())}
		}
		return a.Validate()
	}
	return c.guard(rec, a)
}

// reject reports an error that was caught before any upstream call.
func (c *Controller[T]) reject(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		c.emit(LevelError, "Please fix the highlighted fields")
		return err
	}
	c.emit(LevelError, err.Error())
	return err
}

// emit must be called with c.mu held.
func (c *Controller[T]) emit(level NotificationLevel, msg string) {
	c.notify.Notify(Notification{Level: level, Feature: c.feature.Name(), Message: msg, At: c.now().UTC()})
}

func (c *Controller[T]) publish(ctx context.Context, e Event) {
	if c.events == nil {
		return
	}
	e.Feature = c.feature.Name()
	e.At = c.now().UTC()
	if c.sess != nil && c.sess.User != nil {
		e.ActorID = c.sess.User.ID
	}
	c.events.Publish(ctx, e)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
