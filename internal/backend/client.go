// Package backend is the single HTTP client the console uses to reach the
// content API. It attaches the session's bearer token, unwraps response
// envelopes and turns authorization failures into a session teardown.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	apperrors "github.com/wishara/admin-console/internal/errors"
	"github.com/wishara/admin-console/internal/observability/metrics"
	"github.com/wishara/admin-console/internal/observability/statsd"
)

const maxResponseBytes = 8 << 20

// UnauthorizedHook is called when the API rejects a session's token.
type UnauthorizedHook func(ctx context.Context, sessionID string)

// Request describes one API call.
type Request struct {
	Method string
	// Path is relative to the configured base URL, e.g. "/category/".
	Path  string
	Query url.Values
	// Body is JSON-encoded when non-nil.
	Body any
	// Unwrap is a JMESPath expression selecting the payload from the response
	// document before it is decoded. Empty means UnwrapData.
	Unwrap string
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Transport is the base round tripper; defaults to http.DefaultTransport.
	Transport http.RoundTripper
	Logger    *slog.Logger
	Metrics   statsd.Sink
}

// Client talks JSON to the content API.
type Client struct {
	base      *url.URL
	timeout   time.Duration
	userAgent string
	transport http.RoundTripper
	logger    *slog.Logger
	metrics   statsd.Sink

	onUnauthorized UnauthorizedHook
}

// New builds a Client. BaseURL must be absolute.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend: invalid base URL %q", opts.BaseURL)
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Noop{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		base:      base,
		timeout:   timeout,
		userAgent: opts.UserAgent,
		transport: transport,
		logger:    logger.With("component", "backend"),
		metrics:   sink,
	}, nil
}

// OnUnauthorized installs the session teardown hook. It is set after
// construction because the auth service that owns teardown itself needs a Client.
func (c *Client) OnUnauthorized(h UnauthorizedHook) { c.onUnauthorized = h }

// httpClient returns a client whose transport adds the bearer token for ctx's session.
func (c *Client) httpClient(ctx context.Context) *http.Client {
	rt := c.transport
	if _, token, ok := SessionFrom(ctx); ok {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.transport,
		}
	}
	return &http.Client{Transport: rt, Timeout: c.timeout}
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(path, "/")
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Do performs req and decodes the unwrapped payload into out (which may be nil).
//
// Non-2xx responses become *APIError. A 401 on a request made for a session
// runs the teardown hook and returns ErrUnauthorized instead.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, req.Path, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.endpoint(req.Path, req.Query), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient(ctx).Do(httpReq)
	if err != nil {
		metrics.EmitBackendCall(c.metrics, method, 0, time.Since(start))
		return c.transportError(ctx, method, req.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	metrics.EmitBackendCall(c.metrics, method, resp.StatusCode, time.Since(start))
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "Could not read response from %s", req.Path)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if sessionID, _, ok := SessionFrom(ctx); ok {
			c.logger.InfoContext(ctx, "api rejected session token", "method", method, "path", req.Path)
			if c.onUnauthorized != nil {
				// Teardown must finish even if the triggering request was canceled.
				c.onUnauthorized(context.WithoutCancel(ctx), sessionID)
			}
			return ErrUnauthorized
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, fieldErrs := parseErrorBody(raw, resp.StatusCode)
		apiErr := &APIError{Status: resp.StatusCode, Message: msg, Errors: fieldErrs}
		c.logger.DebugContext(ctx, "api request failed",
			"method", method, "path", req.Path, "status", resp.StatusCode, "message", msg)
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := rejectSuccessFalse(raw); err != nil {
		return err
	}

	expr := req.Unwrap
	if expr == "" {
		expr = UnwrapData
	}
	if err := decodeEnvelope(raw, expr, out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "Unexpected response from %s", req.Path)
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, method, path string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return apperrors.Wrap(err, apperrors.ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "The content API did not respond in time.")
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "The content API did not respond in time.")
	}
	c.logger.WarnContext(ctx, "api unreachable", "method", method, "path", path, "error", err)
	return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "The content API is unreachable.")
}

// rejectSuccessFalse treats a 2xx `{success:false, ...}` body as a failure.
func rejectSuccessFalse(raw []byte) error {
	var probe struct {
		Success *bool `json:"success"`
	}
	if json.Unmarshal(raw, &probe) != nil || probe.Success == nil || *probe.Success {
		return nil
	}
	msg, fieldErrs := parseErrorBody(raw, http.StatusBadRequest)
	return &APIError{Status: http.StatusBadRequest, Message: msg, Errors: fieldErrs}
}

// Get is Do with GET.
func (c *Client) Get(ctx context.Context, path string, q url.Values, unwrap string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: q, Unwrap: unwrap}, out)
}

// Send is Do for a mutating method with a JSON body.
func (c *Client) Send(ctx context.Context, method, path string, body any, out any) error {
	return c.Do(ctx, Request{Method: method, Path: path, Body: body}, out)
}
