package apiclient

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/tidwall/gjson"
)

// Result is the tagged outcome of an upstream call: {ok, value} or {ok:false, error}.
type Result[T any] struct {
	OK    bool   `json:"ok"`
	Value T      `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// Capture folds a (value, error) pair into a Result.
func Capture[T any](v T, err error) Result[T] {
	if err != nil {
		return Result[T]{Error: errs.Message(err)}
	}
	return Result[T]{OK: true, Value: v}
}

// DecodeEnvelope unwraps either response convention the backend uses:
//
//	{"status":"success","data":...}   {"status":"error","error":"..."}
//	{"success":true,"data":...}       {"success":false,"message":"...","statusCode":400}
//
// and returns the raw data payload. A 2xx body without a recognizable envelope
// is returned as the payload itself.
func DecodeEnvelope(statusCode int, body []byte) (json.RawMessage, error) {
	ok := statusCode >= 200 && statusCode < 300
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		if ok {
			return nil, nil
		}
		return nil, &errs.APIError{Kind: errs.KindHTTP, StatusCode: statusCode, Message: statusText(statusCode)}
	}
	if !gjson.ValidBytes(body) {
		if ok {
			return nil, &errs.APIError{Kind: errs.KindEnvelope, StatusCode: statusCode, Message: "malformed response body"}
		}
		return nil, &errs.APIError{Kind: errs.KindHTTP, StatusCode: statusCode, Message: statusText(statusCode)}
	}

	root := gjson.ParseBytes(body)
	success := root.Get("success")
	status := root.Get("status")

	switch {
	case success.Type == gjson.True && ok:
		return rawData(root), nil
	case success.Type == gjson.False || (success.Type == gjson.True && !ok):
		code := int(root.Get("statusCode").Int())
		if code == 0 {
			code = statusCode
		}
		return nil, failure(ok, code, errorMessage(root, statusCode))
	case status.Type == gjson.String:
		switch strings.ToLower(status.String()) {
		case "success", "ok":
			if ok {
				return rawData(root), nil
			}
		case "error", "fail", "failed":
			return nil, failure(ok, statusCode, errorMessage(root, statusCode))
		}
	}

	if !ok {
		return nil, &errs.APIError{Kind: errs.KindHTTP, StatusCode: statusCode, Message: errorMessage(root, statusCode)}
	}
	return json.RawMessage(body), nil
}

func rawData(root gjson.Result) json.RawMessage {
	d := root.Get("data")
	if !d.Exists() || d.Type == gjson.Null {
		return nil
	}
	return json.RawMessage(d.Raw)
}

func failure(httpOK bool, code int, msg string) error {
	kind := errs.KindHTTP
	if httpOK {
		kind = errs.KindEnvelope
	}
	return &errs.APIError{Kind: kind, StatusCode: code, Message: msg}
}

func errorMessage(root gjson.Result, statusCode int) string {
	for _, path := range []string{"error.message", "message", "error", "msg"} {
		if v := root.Get(path); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return statusText(statusCode)
}

func statusText(code int) string {
	if t := http.StatusText(code); t != "" {
		return t
	}
	return "request failed"
}
