package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/psds-microservice/admin-console/internal/dto"
	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/tidwall/gjson"
)

const (
	adminBase    = "/admin/admins"
	activityBase = "/admin/activity-logs"
	dateLayout   = "2006-01-02"
)

func (c *Client) ListAdmins(ctx context.Context, token string, f model.Filters) (dto.AdminPage, error) {
	var page dto.AdminPage
	err := c.do(ctx, token, call{endpoint: "admin.list", method: http.MethodGet, path: adminBase, query: f.Query()}, &page)
	return page, err
}

func (c *Client) GetAdmin(ctx context.Context, token, id string) (dto.AdminAccountDTO, error) {
	var a dto.AdminAccountDTO
	id, err := pathID(id)
	if err != nil {
		return a, err
	}
	err = c.do(ctx, token, call{endpoint: "admin.get", method: http.MethodGet, path: adminBase + "/" + id, dataKey: "admin"}, &a)
	return a, err
}

func (c *Client) CreateAdmin(ctx context.Context, token string, in dto.AdminAccountDTO) (dto.AdminAccountDTO, error) {
	var a dto.AdminAccountDTO
	in.ID = ""
	err := c.do(ctx, token, call{endpoint: "admin.create", method: http.MethodPost, path: adminBase, body: in, dataKey: "admin"}, &a)
	return a, err
}

func (c *Client) UpdateAdmin(ctx context.Context, token, id string, in dto.AdminAccountDTO) (dto.AdminAccountDTO, error) {
	var a dto.AdminAccountDTO
	id, err := pathID(id)
	if err != nil {
		return a, err
	}
	in.ID = ""
	err = c.do(ctx, token, call{endpoint: "admin.update", method: http.MethodPut, path: adminBase + "/" + id, body: in, dataKey: "admin"}, &a)
	return a, err
}

func (c *Client) DeleteAdmin(ctx context.Context, token, id string) error {
	id, err := pathID(id)
	if err != nil {
		return err
	}
	return c.do(ctx, token, call{endpoint: "admin.delete", method: http.MethodDelete, path: adminBase + "/" + id}, nil)
}

// ActivityLogsByDate returns one day of admin activity.
func (c *Client) ActivityLogsByDate(ctx context.Context, token string, day time.Time, page, limit int) (dto.ActivityLogPage, error) {
	var out dto.ActivityLogPage
	err := c.do(ctx, token, call{
		endpoint: "activity.by_date",
		method:   http.MethodGet,
		path:     activityBase + "/date/" + day.Format(dateLayout),
		query:    pageQuery(page, limit),
	}, &out)
	return out, err
}

func (c *Client) ActivityLogsInRange(ctx context.Context, token string, from, to time.Time, page, limit int) (dto.ActivityLogPage, error) {
	var out dto.ActivityLogPage
	if to.Before(from) {
		return out, &errs.ValidationError{Fields: map[string]string{"endDate": "must not be before startDate"}}
	}
	q := pageQuery(page, limit)
	q["startDate"] = from.Format(dateLayout)
	q["endDate"] = to.Format(dateLayout)
	err := c.do(ctx, token, call{endpoint: "activity.range", method: http.MethodGet, path: activityBase + "/range", query: q}, &out)
	return out, err
}

// ActivityLogDates lists the days that have at least one log entry.
func (c *Client) ActivityLogDates(ctx context.Context, token string) ([]string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, token, call{endpoint: "activity.dates", method: http.MethodGet, path: activityBase + "/available-dates"}, &raw); err != nil {
		return nil, err
	}
	list := gjson.ParseBytes(raw)
	if list.IsObject() {
		list = list.Get("dates")
	}
	dates := make([]string, 0)
	for _, d := range list.Array() {
		if d.Type == gjson.String {
			dates = append(dates, d.String())
		}
	}
	return dates, nil
}

// UploadMedia posts a multipart form and returns the hosted URL.
func (c *Client) UploadMedia(ctx context.Context, token, folder, filename string, r io.Reader) (dto.MediaUpload, error) {
	var out dto.MediaUpload
	if filename == "" || r == nil {
		return out, &errs.ValidationError{Fields: map[string]string{"file": "a file is required"}}
	}
	err := c.do(ctx, token, call{
		endpoint: "media.upload",
		method:   http.MethodPost,
		path:     "/admin/media/upload",
		prepare: func(req *resty.Request) {
			req.SetFileReader("file", filename, r)
			if folder != "" {
				req.SetFormData(map[string]string{"folder": folder})
			}
		},
	}, &out)
	if err == nil && out.URL == "" {
		err = &errs.APIError{Kind: errs.KindEnvelope, Message: fmt.Sprintf("upload of %s returned no url", filename)}
	}
	return out, err
}

// LoginResult is what the auth endpoint hands back at login.
type LoginResult struct {
	User        model.User
	Token       string
	Permissions map[string]string
}

// Login exchanges credentials for a token and permission map.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	var raw json.RawMessage
	if err := c.do(ctx, "", call{
		endpoint:  "auth.login",
		method:    http.MethodPost,
		path:      "/admin/auth/login",
		body:      map[string]string{"email": email, "password": password},
		anonymous: true,
	}, &raw); err != nil {
		return res, err
	}
	root := gjson.ParseBytes(raw)
	u := root.Get("user")
	if !u.Exists() {
		u = root.Get("admin")
	}
	res.User = model.User{
		ID:    firstNonEmpty(u.Get("_id").String(), u.Get("id").String()),
		Name:  u.Get("name").String(),
		Email: u.Get("email").String(),
		Role:  u.Get("role").String(),
	}
	res.Token = firstNonEmpty(root.Get("token").String(), root.Get("accessToken").String())
	res.Permissions = parsePermissions(firstExisting(root.Get("permissions"), u.Get("permissions")))
	if res.Token == "" {
		return res, &errs.APIError{Kind: errs.KindEnvelope, Message: "login response carried no token"}
	}
	return res, nil
}

// parsePermissions accepts {"KYC":"Full"} or [{"module":"KYC","access":"Full"}].
func parsePermissions(v gjson.Result) map[string]string {
	out := map[string]string{}
	switch {
	case v.IsObject():
		v.ForEach(func(k, lvl gjson.Result) bool {
			out[k.String()] = lvl.String()
			return true
		})
	case v.IsArray():
		for _, p := range v.Array() {
			module := p.Get("module").String()
			level := firstNonEmpty(p.Get("access").String(), p.Get("level").String())
			if module != "" {
				out[module] = level
			}
		}
	}
	return out
}

func firstExisting(vals ...gjson.Result) gjson.Result {
	for _, v := range vals {
		if v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func pageQuery(page, limit int) map[string]string {
	f := model.Filters{Page: page, Limit: limit}.Normalize()
	return map[string]string{"page": strconv.Itoa(f.Page), "limit": strconv.Itoa(f.Limit)}
}
