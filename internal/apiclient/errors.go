package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/julianstephens/weekmenu/internal/constants"
)

// Error is the single error type returned by the pipeline. A transport failure
// has StatusCode 0 and Err set; an HTTP failure has the status and whatever
// detail the server sent.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	// Detail is the server-provided "detail" field, if any.
	Detail string
	// TimeoutMessage is set when the request hit the configured client timeout.
	TimeoutMessage string
	RequestID      string
	// Refresh marks a failure of the token refresh call.
	Refresh bool
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Method, e.Path)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request was cut off by the client timeout.
func (e *Error) Timeout() bool {
	return e.TimeoutMessage != ""
}

// IsAuthError reports whether err ended the session: a 401 or 403 answer, or a
// failed refresh.
func IsAuthError(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Refresh || e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// UserMessage picks the text shown to the user for a failed request: the
// server's detail, then the timeout notice, then a generic message.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Detail != "" {
			return e.Detail
		}
		if e.Timeout() {
			return e.TimeoutMessage
		}
	}
	return constants.MsgMissingRequest
}

// parseDetail extracts the "detail" field of an error body. Non-string details
// (validation error lists) are kept as compact JSON.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}
	if string(payload.Detail) == "null" {
		return ""
	}
	return string(payload.Detail)
}
