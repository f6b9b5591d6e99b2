package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonHeaders() http.Header {
	return http.Header{"Content-Type": []string{"application/json"}}
}

func TestErrorStatusIsNotAnError(t *testing.T) {
	for _, status := range []int{401, 404, 500} {
		server := httptest.NewServer(httphelpers.HandlerWithResponse(status, jsonHeaders(),
			[]byte(`{"error":"nope"}`)))
		runner := NewRunner(server.URL)

		resp, err := runner.Do(context.Background(), Request{Path: "/api/user"})
		server.Close()

		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode)
		assert.True(t, resp.IsJSON())
		assert.Equal(t, "nope", resp.Body.GetByKey("error").StringValue())
	}
}

func TestRequestIsSentToBaseURLPlusPath(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(204))
	server := httptest.NewServer(handler)
	defer server.Close()

	runner := NewRunner(server.URL + "/")
	resp, err := runner.Do(context.Background(), Request{
		Method:  "DELETE",
		Path:    "/api/leaves",
		Headers: map[string]string{"Authorization": "Bearer x"},
	})
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.False(t, resp.IsJSON())
	assert.True(t, resp.Body.IsNull())
	assert.NoError(t, resp.ParseErr)

	r := <-requestsCh
	assert.Equal(t, "DELETE", r.Request.Method)
	assert.Equal(t, "/api/leaves", r.Request.URL.Path)
	assert.Equal(t, "Bearer x", r.Request.Header.Get("Authorization"))
	assert.NotEmpty(t, r.Request.Header.Get(RequestIDHeader))
}

func TestMethodDefaultsToGet(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	_, err := NewRunner(server.URL).Do(context.Background(), Request{Path: "/api"})
	require.NoError(t, err)
	assert.Equal(t, "GET", (<-requestsCh).Request.Method)
}

func TestJSONBodyIsEncoded(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	_, err := NewRunner(server.URL).Do(context.Background(), Request{
		Method: "POST",
		Path:   "/api/auth/login",
		JSON:   map[string]string{"idToken": "abc"},
	})
	require.NoError(t, err)

	r := <-requestsCh
	assert.Equal(t, "application/json", r.Request.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"idToken":"abc"}`, string(r.Body))
}

func TestRawBodyIsSentVerbatim(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(400))
	server := httptest.NewServer(handler)
	defer server.Close()

	_, err := NewRunner(server.URL).Do(context.Background(), Request{
		Method:  "POST",
		Path:    "/api/auth/login",
		RawBody: []byte("invalid json"),
		JSON:    map[string]string{"ignored": "yes"},
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	require.NoError(t, err)

	r := <-requestsCh
	assert.Equal(t, "invalid json", string(r.Body))
	assert.Equal(t, "application/json", r.Request.Header.Get("Content-Type"))
}

func TestEachRequestGetsANewRequestID(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	runner := NewRunner(server.URL)
	for i := 0; i < 2; i++ {
		_, err := runner.Do(context.Background(), Request{Path: "/api"})
		require.NoError(t, err)
	}
	first, second := <-requestsCh, <-requestsCh
	assert.NotEqual(t, first.Request.Header.Get(RequestIDHeader), second.Request.Header.Get(RequestIDHeader))
}

func TestNonJSONBodyIsReportedAsParseError(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithResponse(200,
		http.Header{"Content-Type": []string{"text/html"}}, []byte("<html>hi</html>")))
	defer server.Close()

	resp, err := NewRunner(server.URL).Do(context.Background(), Request{Path: "/api"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Error(t, resp.ParseErr)
	assert.False(t, resp.IsJSON())
	assert.True(t, resp.Body.IsNull())
	assert.Equal(t, "<html>hi</html>", string(resp.RawBody))
	assert.Equal(t, "text/html", resp.ContentType())
}

func TestConnectionRefusedIsTransportError(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	url := server.URL
	server.Close()

	resp, err := NewRunner(url).Do(context.Background(), Request{Path: "/api"})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, IsTransportError(err))

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "GET", te.Method)
	assert.Equal(t, url+"/api", te.URL)
}

func TestTimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewRunner(server.URL, WithTimeout(50*time.Millisecond)).Do(context.Background(), Request{Path: "/api"})
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
}

func TestCancelledContextIsReported(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(server.URL).Do(ctx, Request{Path: "/api"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDebugLoggerReceivesTrace(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithResponse(200, jsonHeaders(), []byte(`{"message":"ok"}`)))
	defer server.Close()

	logger := &recordingLogger{}
	_, err := NewRunner(server.URL).WithLogger(logger).Do(context.Background(), Request{Path: "/api"})
	require.NoError(t, err)
	require.Len(t, logger.lines, 2)
	assert.Contains(t, logger.lines[0], "GET "+server.URL+"/api")
	assert.Contains(t, logger.lines[1], `{"message":"ok"}`)
}

func TestWithLoggerDoesNotModifyOriginal(t *testing.T) {
	original := NewRunner("http://localhost:3000")
	copied := original.WithLogger(&recordingLogger{})
	assert.NotSame(t, original, copied)
	assert.Equal(t, original.BaseURL(), copied.BaseURL())
}

func TestURL(t *testing.T) {
	runner := NewRunner("http://localhost:3000/")
	assert.Equal(t, "http://localhost:3000/api/user", runner.URL("/api/user"))
	assert.Equal(t, "http://localhost:3000/api/user", runner.URL("api/user"))
	assert.Equal(t, "http://localhost:3000", runner.URL(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...(truncated)", truncate("abc", 2))
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(message string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(message, args...))
}
