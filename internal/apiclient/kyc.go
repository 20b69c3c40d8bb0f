package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode"

	"github.com/psds-microservice/admin-console/internal/dto"
	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/tidwall/gjson"
)

const kycBase = "/admin/kyc"

func (c *Client) ListKYCApplications(ctx context.Context, token string, f model.Filters) (dto.KYCPage, error) {
	var page dto.KYCPage
	err := c.do(ctx, token, call{
		endpoint: "kyc.list",
		method:   http.MethodGet,
		path:     kycBase + "/applications",
		query:    f.Query(),
	}, &page)
	return page, err
}

func (c *Client) GetKYCApplication(ctx context.Context, token, id string) (dto.ApplicationDTO, error) {
	var app dto.ApplicationDTO
	id, err := pathID(id)
	if err != nil {
		return app, err
	}
	err = c.do(ctx, token, call{
		endpoint: "kyc.get",
		method:   http.MethodGet,
		path:     kycBase + "/applications/" + id,
		dataKey:  "application",
	}, &app)
	return app, err
}

// ReviewKYCApplication moves an application to approved, rejected or under_review
// and returns the server's updated record.
func (c *Client) ReviewKYCApplication(ctx context.Context, token, id string, req dto.ReviewRequest) (dto.ApplicationDTO, error) {
	var app dto.ApplicationDTO
	id, err := pathID(id)
	if err != nil {
		return app, err
	}
	err = c.do(ctx, token, call{
		endpoint: "kyc.review",
		method:   http.MethodPatch,
		path:     kycBase + "/applications/" + id + "/review",
		body:     req,
		dataKey:  "application",
	}, &app)
	return app, err
}

func (c *Client) BulkKYCAction(ctx context.Context, token string, req dto.BulkActionRequest) (dto.BulkActionResult, error) {
	var res dto.BulkActionResult
	if len(req.ApplicationIDs) == 0 {
		return res, &errs.ValidationError{Fields: map[string]string{"applicationIds": "at least one id is required"}}
	}
	err := c.do(ctx, token, call{
		endpoint: "kyc.bulk",
		method:   http.MethodPost,
		path:     kycBase + "/applications/bulk-action",
		body:     req,
	}, &res)
	return res, err
}

func (c *Client) KYCStats(ctx context.Context, token string) (model.Stats, error) {
	var raw json.RawMessage
	if err := c.do(ctx, token, call{
		endpoint: "kyc.stats",
		method:   http.MethodGet,
		path:     kycBase + "/stats",
	}, &raw); err != nil {
		return model.Stats{}, err
	}
	return DecodeStats(raw), nil
}

// DecodeStats reads a counts-by-status object. It accepts either a nested
// "byStatus" object or flat numeric fields; camelCase keys become snake_case
// so they line up with status values.
func DecodeStats(raw []byte) model.Stats {
	st := model.Stats{ByStatus: map[string]int{}}
	root := gjson.ParseBytes(raw)
	if root.Get("stats").IsObject() {
		root = root.Get("stats")
	}
	counts := root
	if root.Get("byStatus").IsObject() {
		counts = root.Get("byStatus")
	}
	totalSet := false
	for _, key := range []string{"total", "totalApplications", "totalInquiries"} {
		if v := root.Get(key); v.Type == gjson.Number {
			st.Total = int(v.Int())
			totalSet = true
			break
		}
	}
	counts.ForEach(func(k, v gjson.Result) bool {
		name := k.String()
		if v.Type != gjson.Number || strings.HasPrefix(strings.ToLower(name), "total") {
			return true
		}
		st.ByStatus[snakeCase(name)] = int(v.Int())
		return true
	})
	if !totalSet {
		for _, n := range st.ByStatus {
			st.Total += n
		}
	}
	return st
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
