package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/breakly/api-smoke-tests/framework"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	// DefaultTimeout is used when no timeout option is given.
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a unique ID for every request, so that a failure can be found
	// in the target service's logs.
	RequestIDHeader = "X-Request-Id"

	maxLoggedBodyLength = 2000
)

// Request describes one HTTP call relative to the runner's base URL.
type Request struct {
	Method string
	Path   string

	// JSON, if not nil, is marshaled and sent with a JSON content type.
	JSON interface{}

	// RawBody, if not nil, is sent verbatim. It takes precedence over JSON.
	RawBody []byte

	Headers map[string]string
}

// Response is the result of a request that reached the service, whatever its status.
type Response struct {
	StatusCode int
	Header     http.Header
	RawBody    []byte

	// Body is the parsed JSON body, or a null value if the body was empty or not JSON.
	Body ldvalue.Value

	// ParseErr is set if the body was not empty but could not be parsed as JSON.
	ParseErr error

	Duration time.Duration
}

// ContentType returns the response's Content-Type header, or "" if there was none.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// IsJSON returns true if the body was successfully parsed as JSON.
func (r *Response) IsJSON() bool {
	return len(bytes.TrimSpace(r.RawBody)) > 0 && r.ParseErr == nil
}

// Runner performs requests against one base URL. It keeps no state between requests: there
// is no cookie jar and no stored credentials, so the outcome of one request can never
// influence another.
type Runner struct {
	baseURL string
	client  *http.Client
	logger  framework.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the overall timeout for each request.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.client.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client should not have a cookie jar.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) {
		r.client = c
	}
}

// WithDebugLogger sets the logger that receives a trace of each request and response.
func WithDebugLogger(logger framework.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner for the given base URL, such as "https://example.com".
func NewRunner(baseURL string, opts ...Option) *Runner {
	r := &Runner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  framework.NullLogger(),
	}
	for _, o := range opts {
		o(r)
	}
	if r.logger == nil {
		r.logger = framework.NullLogger()
	}
	return r
}

// BaseURL returns the base URL that request paths are appended to.
func (r *Runner) BaseURL() string {
	return r.baseURL
}

// WithLogger returns a copy of the Runner that logs to a different logger. The copy shares
// the underlying HTTP client.
func (r *Runner) WithLogger(logger framework.Logger) *Runner {
	r1 := *r
	if logger == nil {
		logger = framework.NullLogger()
	}
	r1.logger = logger
	return &r1
}

// URL returns the absolute URL for a request path.
func (r *Runner) URL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.baseURL + path
}

// Do performs a single attempt of the request. It returns a *TransportError if no response
// could be obtained; any HTTP status, including 4xx and 5xx, is returned as a Response.
func (r *Runner) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	url := r.URL(req.Path)

	var body io.Reader
	var contentType string
	switch {
	case req.RawBody != nil:
		body = bytes.NewReader(req.RawBody)
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("encoding request body for %s %s: %w", method, url, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s %s: %w", method, url, err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)

	r.logger.Printf("Request %s: %s %s", requestID, method, url)

	start := time.Now()
	resp, err := r.client.Do(httpReq)
	if err != nil {
		r.logger.Printf("Request %s failed after %s: %s", requestID, time.Since(start), err)
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	if err != nil {
		r.logger.Printf("Request %s: reading body failed after %s: %s", requestID, duration, err)
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("reading response body: %w", err)}
	}

	ret := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		RawBody:    data,
		Body:       ldvalue.Null(),
		Duration:   duration,
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &ret.Body); err != nil {
			ret.ParseErr = err
			ret.Body = ldvalue.Null()
		}
	}

	r.logger.Printf("Response %s: status %d in %s, body: %s", requestID, resp.StatusCode, duration,
		truncate(string(data), maxLoggedBodyLength))
	return ret, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
