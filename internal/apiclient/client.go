// Package apiclient wraps the marketplace REST API, one function per endpoint.
// Every call is authenticated with the caller's bearer token and resolves to
// either a decoded payload or an *errs.APIError.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/psds-microservice/admin-console/internal/metrics"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

type Client struct {
	http *resty.Client
	log  *zap.Logger
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
	// HTTPClient replaces the default transport (tests, proxies).
	HTTPClient *http.Client
}

func New(opts Options) *Client {
	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	rc.SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{http: rc, log: log}
}

type call struct {
	endpoint string
	method   string
	path     string
	query    map[string]string
	body     any
	prepare  func(*resty.Request)
	// dataKey unwraps {"<key>": {...}} payloads when present.
	dataKey string
	// anonymous calls skip the bearer token (login).
	anonymous bool
}

// do performs the call and decodes the envelope's data into out (when non-nil).
func (c *Client) do(ctx context.Context, token string, cl call, out any) error {
	if !cl.anonymous && strings.TrimSpace(token) == "" {
		return errs.ErrUnauthenticated
	}
	req := c.http.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString())
	if !cl.anonymous {
		req.SetAuthToken(token)
	}
	if len(cl.query) > 0 {
		req.SetQueryParams(cl.query)
	}
	if cl.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(cl.body)
	}
	if cl.prepare != nil {
		cl.prepare(req)
	}

	start := time.Now()
	resp, err := req.Execute(cl.method, cl.path)
	if err != nil {
		metrics.ObserveUpstream(cl.endpoint, string(errs.KindNetwork), time.Since(start))
		c.log.Warn("apiclient: request failed",
			zap.String("endpoint", cl.endpoint), zap.String("path", cl.path), zap.Error(err))
		return &errs.APIError{Kind: errs.KindNetwork, Message: networkMessage(err), Err: err}
	}

	data, err := DecodeEnvelope(resp.StatusCode(), resp.Body())
	if err != nil {
		var apiErr *errs.APIError
		outcome := "error"
		if errors.As(err, &apiErr) {
			outcome = string(apiErr.Kind)
		}
		metrics.ObserveUpstream(cl.endpoint, outcome, time.Since(start))
		c.log.Debug("apiclient: upstream error",
			zap.String("endpoint", cl.endpoint), zap.Int("status", resp.StatusCode()), zap.Error(err))
		return err
	}
	metrics.ObserveUpstream(cl.endpoint, "success", time.Since(start))

	if out == nil || len(data) == 0 {
		return nil
	}
	if cl.dataKey != "" {
		if inner := gjson.GetBytes(data, cl.dataKey); inner.IsObject() || inner.IsArray() {
			data = json.RawMessage(inner.Raw)
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &errs.APIError{
			Kind:       errs.KindEnvelope,
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("unexpected %s payload", cl.endpoint),
			Err:        err,
		}
	}
	return nil
}

func networkMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return "network error: unable to reach the marketplace API"
}

func pathID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "/?#") {
		return "", errs.ErrInvalidID
	}
	return id, nil
}
