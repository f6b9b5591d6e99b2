package mockservice

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	status int
	body   map[string]interface{}
	header http.Header
}

func do(t *testing.T, handler http.Handler, method, path, token, body string) result {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	r := result{status: rec.Code, header: rec.Header()}
	if strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		var v interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
		if m, ok := v.(map[string]interface{}); ok {
			r.body = m
		}
	}
	return r
}

func TestRoot(t *testing.T) {
	r := do(t, New().Router(), "GET", "/api", "", "")
	assert.Equal(t, 200, r.status)
	assert.Equal(t, RootMessage, r.body["message"])
	assert.Equal(t, "application/json", r.header.Get("Content-Type"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := New().Router()
	for _, route := range []struct{ method, path string }{
		{"GET", "/api/user"},
		{"GET", "/api/leaves"},
		{"POST", "/api/leaves"},
		{"GET", "/api/leaves/pending"},
		{"PUT", "/api/leaves/approve"},
		{"GET", "/api/dashboard/stats"},
	} {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			r := do(t, router, route.method, route.path, "", "{}")
			assert.Equal(t, 401, r.status)
			assert.Equal(t, "Unauthorized", r.body["error"])

			r = do(t, router, route.method, route.path, "wrong", "{}")
			assert.Equal(t, 401, r.status)
		})
	}
}

func TestProtectedRoutesWithToken(t *testing.T) {
	router := New().Router()

	r := do(t, router, "GET", "/api/user", ValidToken, "")
	assert.Equal(t, 200, r.status)
	assert.Equal(t, "mock-user", r.body["uid"])

	r = do(t, router, "GET", "/api/dashboard/stats", ValidToken, "")
	assert.Equal(t, 200, r.status)
	assert.Contains(t, r.body, "leaveBalance")

	r = do(t, router, "POST", "/api/leaves", ValidToken, `{"type":"annual"}`)
	assert.Equal(t, 200, r.status)
	assert.Equal(t, "pending", r.body["status"])

	r = do(t, router, "GET", "/api/leaves/pending", ValidToken, "")
	assert.Equal(t, 403, r.status)
}

func TestRegister(t *testing.T) {
	router := New().Router()

	r := do(t, router, "POST", "/api/auth/register", "", `{"displayName":"x"}`)
	assert.Equal(t, 500, r.status)
	assert.Equal(t, "Registration failed", r.body["error"])

	r = do(t, router, "POST", "/api/auth/register", "", `{"idToken":"`+ValidToken+`","displayName":"Jean"}`)
	assert.Equal(t, 200, r.status)
	assert.Equal(t, true, r.body["success"])
}

func TestLogin(t *testing.T) {
	router := New().Router()

	r := do(t, router, "POST", "/api/auth/login", "", `{}`)
	assert.Equal(t, 401, r.status)

	r = do(t, router, "POST", "/api/auth/login", "", `invalid json`)
	assert.Equal(t, 401, r.status)

	r = do(t, router, "POST", "/api/auth/login", "", `{"idToken":"`+ValidToken+`"}`)
	assert.Equal(t, 200, r.status)
}

func TestFallback(t *testing.T) {
	router := New().Router()

	r := do(t, router, "GET", "/api/unknown", "", "")
	assert.Equal(t, 200, r.status)
	assert.Equal(t, RootMessage, r.body["message"])

	r = do(t, router, "GET", "/api/auth/login", "", "")
	assert.Equal(t, 200, r.status)

	r = do(t, router, "POST", "/api/unknown", "", "{}")
	assert.Equal(t, 404, r.status)
	assert.Equal(t, "Endpoint not found", r.body["error"])

	r = do(t, router, "DELETE", "/api/user", "", "")
	assert.Equal(t, 405, r.status)
	assert.Equal(t, "GET, POST, PUT", r.header.Get("Allow"))

	r = do(t, router, "GET", "/other", "", "")
	assert.Equal(t, 404, r.status)
}

func TestOverride(t *testing.T) {
	router := New(
		WithOverride("get", "/api/unknown", 404, nil),
		WithOverride("GET", "/api", 200, map[string]string{"message": "API root"}),
	).Router()

	r := do(t, router, "GET", "/api/unknown", "", "")
	assert.Equal(t, 404, r.status)
	assert.Equal(t, "Not Found", r.body["error"])

	r = do(t, router, "GET", "/api", "", "")
	assert.Equal(t, "API root", r.body["message"])

	r = do(t, router, "POST", "/api/unknown", "", "{}")
	assert.Equal(t, 404, r.status)
	assert.Equal(t, "Endpoint not found", r.body["error"])
}

func TestRequestCount(t *testing.T) {
	s := New()
	router := s.Router()
	do(t, router, "GET", "/api", "", "")
	do(t, router, "GET", "/api/user", "", "")
	assert.Equal(t, 2, s.RequestCount())
}
