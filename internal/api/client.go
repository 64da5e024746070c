package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/journal"
)

// RequestIDHeader carries a per-request id so server logs can be correlated
// with the local journal.
const RequestIDHeader = "X-Request-ID"

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 10 << 20

// maxMessageLen bounds error messages taken from plain-text bodies.
const maxMessageLen = 200

// Recorder receives one entry per completed exchange.
type Recorder interface {
	Record(ctx context.Context, e *journal.Entry) (int64, error)
}

// Client is a typed client for one PhishGuard server.
type Client struct {
	baseURL       string
	routes        config.Routes
	httpClient    *http.Client
	limiter       *rate.Limiter
	logger        *slog.Logger
	recorder      Recorder
	maxUploadSize int64
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client. It should carry a cookie jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRateLimit paces requests to rps per second. Zero disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithRecorder journals every exchange.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithMaxUploadSize rejects uploads larger than n bytes. Zero disables the check.
func WithMaxUploadSize(n int64) Option {
	return func(c *Client) { c.maxUploadSize = n }
}

// New creates a client for serverURL using routes.
func New(serverURL string, routes config.Routes, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(serverURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidServerURL, serverURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		routes:     routes,
		httpClient: &http.Client{Timeout: config.DefaultTimeout},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the server base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Routes returns the endpoint paths in use.
func (c *Client) Routes() config.Routes {
	return c.routes
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// payload is a request body with its content type.
type payload struct {
	body        []byte
	contentType string
}

func jsonPayload(v any) (*payload, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &payload{body: b, contentType: "application/json"}, nil
}

func formPayload(values url.Values) *payload {
	return &payload{body: []byte(values.Encode()), contentType: "application/x-www-form-urlencoded"}
}

// response is a fully read HTTP response.
type response struct {
	status      int
	contentType string
	body        []byte
	// finalPath is the path of the last request after redirects.
	finalPath string
}

func (r *response) isHTML() bool {
	mt, _, err := mime.ParseMediaType(r.contentType)
	if err == nil {
		return mt == "text/html"
	}
	return bytes.HasPrefix(bytes.TrimSpace(r.body), []byte("<"))
}

// exchange sends one request and reads the whole response. A non-2xx status
// is returned as *Error of KindStatus together with the response.
func (c *Client) exchange(ctx context.Context, op, method, path string, p *payload) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindTransport, Op: op, Err: err}
		}
	}

	var body io.Reader
	if p != nil {
		body = bytes.NewReader(p.body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	if p != nil {
		req.Header.Set("Content-Type", p.contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	entry := &journal.Entry{
		RequestID: requestID,
		Method:    method,
		Path:      req.URL.Path,
		Latency:   elapsed,
		Timestamp: start,
	}

	if err != nil {
		entry.Error = err.Error()
		c.record(ctx, entry)
		c.logger.Debug("request failed",
			"op", op, "method", method, "url", req.URL.String(),
			"request_id", requestID, "elapsed", elapsed, "error", err)
		return nil, &Error{Kind: KindTransport, Op: op, Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	entry.Status = resp.StatusCode
	if readErr != nil {
		entry.Error = readErr.Error()
	}
	c.record(ctx, entry)
	c.logger.Debug("request",
		"op", op, "method", method, "url", req.URL.String(),
		"status", resp.StatusCode, "request_id", requestID, "elapsed", elapsed)

	if readErr != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Status: resp.StatusCode, Message: "reading response failed", Err: readErr}
	}

	r := &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        data,
		finalPath:   resp.Request.URL.Path,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return r, &Error{Kind: KindStatus, Op: op, Status: resp.StatusCode, Message: failureMessage(r)}
	}
	return r, nil
}

func (c *Client) record(ctx context.Context, e *journal.Entry) {
	if c.recorder == nil {
		return
	}
	// The journal must outlive a cancelled request context.
	if _, err := c.recorder.Record(context.WithoutCancel(ctx), e); err != nil {
		c.logger.Warn("failed to journal request", "path", e.Path, "error", err)
	}
}

// do performs a JSON exchange and decodes the body into out.
func (c *Client) do(ctx context.Context, op, method, path string, p *payload, out any) error {
	r, err := c.exchange(ctx, op, method, path, p)
	if err != nil {
		return err
	}
	return c.decode(op, r, out)
}

func (c *Client) decode(op string, r *response, out any) error {
	if r.isHTML() {
		if c.isLoginPath(r.finalPath) {
			return &Error{Kind: KindAuth, Op: op, Status: r.status, Err: ErrUnauthenticated}
		}
		return &Error{Kind: KindDecode, Op: op, Status: r.status, Message: "expected JSON, got HTML"}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return &Error{Kind: KindDecode, Op: op, Message: "invalid JSON response", Err: err}
	}
	return nil
}

func (c *Client) isLoginPath(path string) bool {
	if c.routes.Login == "" {
		return false
	}
	login := c.routes.Login
	if u, err := url.Parse(login); err == nil {
		login = u.Path
	}
	return path == login || strings.HasSuffix(path, "/login")
}

// errorBody is the server's JSON failure shape.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// failureMessage extracts a message from a failed response: the JSON error
// field (with detail), else the trimmed text body, else the status text.
func failureMessage(r *response) string {
	var eb errorBody
	if err := json.Unmarshal(r.body, &eb); err == nil && eb.Error != "" {
		if eb.Detail != "" {
			return eb.Error + ": " + eb.Detail
		}
		return eb.Error
	}
	if !r.isHTML() {
		if text := strings.TrimSpace(string(r.body)); text != "" {
			return truncateMessage(text)
		}
	}
	return http.StatusText(r.status)
}

// truncateMessage cuts text to at most maxMessageLen bytes on a rune boundary.
func truncateMessage(text string) string {
	if len(text) <= maxMessageLen {
		return text
	}
	cut := maxMessageLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func transportMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	default:
		var ue *url.Error
		if errors.As(err, &ue) {
			if ue.Timeout() {
				return "request timed out"
			}
			return ue.Err.Error()
		}
		return err.Error()
	}
}
