package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/logger"
	"github.com/julianstephens/weekmenu/internal/session"
)

// Config configures a Client.
type Config struct {
	BaseURL string
	// Timeout applies to every request. Zero disables it.
	Timeout time.Duration
	// Verbosity controls failure logging: "debug" logs the full error,
	// "error" logs a generic notice, anything else is silent. Empty means
	// the logger's configured verbosity.
	Verbosity string
	// HTTPClient overrides the underlying client. Its Timeout is replaced by
	// Config.Timeout.
	HTTPClient *http.Client
}

// Request describes one logical API call. Body is sent as JSON and kept so
// the call can be resent after a token refresh.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// Response is a successful (2xx) answer.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v interface{}) error {
	if v == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// attempt carries a request through the pipeline together with its one-shot
// retry marker, so the marker never lives on the shared Request.
type attempt struct {
	req     *Request
	retried bool
}

// Client is the session-aware HTTP client.
type Client struct {
	baseURL   *url.URL
	timeout   time.Duration
	http      *http.Client
	session   *session.Manager
	verbosity string
}

// New creates a Client bound to the given session.
func New(cfg Config, sess *session.Manager) (*Client, error) {
	if sess == nil {
		return nil, errors.New("session manager is required")
	}
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = constants.DefaultAPIURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q: scheme and host are required", cfg.BaseURL)
	}

	var httpClient *http.Client
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		httpClient = &copied
	} else {
		// The refresh token travels as a cookie
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar}
	}
	httpClient.Timeout = cfg.Timeout

	return &Client{
		baseURL:   base,
		timeout:   cfg.Timeout,
		http:      httpClient,
		session:   sess,
		verbosity: strings.ToLower(strings.TrimSpace(cfg.Verbosity)),
	}, nil
}

// Session returns the session manager the client reports to.
func (c *Client) Session() *session.Manager {
	return c.session
}

// Do sends req through the pipeline. Callers see either the eventual success
// or a terminal *Error; whether a refresh happened in between is invisible.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	return c.execute(ctx, attempt{req: req})
}

func (c *Client) execute(ctx context.Context, at attempt) (*Response, error) {
	resp, apiErr := c.send(ctx, at.req)
	if apiErr == nil {
		return resp, nil
	}
	return c.recover(ctx, at, apiErr)
}

// recover is the inbound stage for a failed attempt.
func (c *Client) recover(ctx context.Context, at attempt, apiErr *Error) (*Response, error) {
	if apiErr.StatusCode == http.StatusUnauthorized {
		if !at.retried {
			if err := c.refresh(ctx); err != nil {
				logger.Warn("Access token refresh failed", "error", err)
				_ = c.session.Logout()
				return nil, err
			}
			logger.Debug("Access token refreshed, resending request", "method", at.req.Method, "path", at.req.Path)
			return c.execute(ctx, attempt{req: at.req, retried: true})
		}
		// Still unauthorized after a refresh: the session cannot be saved
		_ = c.session.Logout()
	}

	if apiErr.StatusCode == http.StatusForbidden {
		_ = c.session.Logout()
	}

	c.logFailure(apiErr)
	return nil, apiErr
}

// refresh asks the server for a new access token and stores it. The refresh
// call is marked as already retried so a 401 on it cannot cascade.
func (c *Client) refresh(ctx context.Context) error {
	resp, err := c.execute(ctx, attempt{
		req:     &Request{Method: http.MethodPost, Path: constants.PathLoginRefresh},
		retried: true,
	})
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			apiErr.Refresh = true
		}
		return err
	}

	refreshErr := func(err error) error {
		return &Error{Method: http.MethodPost, Path: constants.PathLoginRefresh, Refresh: true, Err: err}
	}

	var payload struct {
		NewAccessToken string `json:"newAccessToken"`
	}
	if err := resp.Decode(&payload); err != nil {
		return refreshErr(err)
	}
	if payload.NewAccessToken == "" {
		return refreshErr(errors.New("refresh response carried no access token"))
	}
	if err := c.session.Store().Set(payload.NewAccessToken); err != nil {
		return refreshErr(err)
	}
	logger.Info("Access token refresh successful")
	return nil
}

// send performs one HTTP exchange. The outbound stage lives here: the bearer
// credential is read fresh on every send, so a resend after a refresh picks up
// the new token.
func (c *Client) send(ctx context.Context, req *Request) (*Response, *Error) {
	requestID := uuid.New().String()
	apiErr := &Error{Method: req.Method, Path: req.Path, RequestID: requestID}

	target := c.baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(req.Path, "/")})
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		apiErr.Err = fmt.Errorf("failed to create request: %w", err)
		return nil, apiErr
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(constants.RequestIDHeader, requestID)
	if token, err := c.session.Store().Get(); err == nil && token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		apiErr.Err = err
		if c.isClientTimeout(ctx, err) {
			apiErr.TimeoutMessage = constants.MsgTimeout
		}
		return nil, apiErr
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		apiErr.StatusCode = httpResp.StatusCode
		apiErr.Err = fmt.Errorf("failed to read response: %w", err)
		if c.isClientTimeout(ctx, err) {
			apiErr.TimeoutMessage = constants.MsgTimeout
		}
		return nil, apiErr
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		apiErr.StatusCode = httpResp.StatusCode
		apiErr.Detail = parseDetail(data)
		return nil, apiErr
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

// isClientTimeout tells a timeout of the configured duration apart from the
// caller cancelling or a generic network failure.
func (c *Client) isClientTimeout(ctx context.Context, err error) bool {
	if c.timeout <= 0 || ctx.Err() != nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) logFailure(apiErr *Error) {
	verbosity := c.verbosity
	if verbosity == "" {
		verbosity = logger.Verbosity()
	}
	switch verbosity {
	case constants.LogLevelDebug:
		logger.Debug("Request failed",
			"method", apiErr.Method,
			"path", apiErr.Path,
			"status", apiErr.StatusCode,
			"request_id", apiErr.RequestID,
			"error", apiErr)
	case constants.LogLevelError:
		logger.Error("An error occurred")
	}
}
