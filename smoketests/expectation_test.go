package smoketests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/breakly/api-smoke-tests/client"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func makeResponse(status int, contentType, body string) *client.Response {
	r := &client.Response{
		StatusCode: status,
		Header:     http.Header{},
		RawBody:    []byte(body),
		Body:       ldvalue.Null(),
	}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	if body != "" {
		if err := json.Unmarshal([]byte(body), &r.Body); err != nil {
			r.ParseErr = err
			r.Body = ldvalue.Null()
		}
	}
	return r
}

func TestStatusPredicates(t *testing.T) {
	ok, _ := StatusEquals(401)(401)
	assert.True(t, ok)
	ok, message := StatusEquals(401)(200)
	assert.False(t, ok)
	assert.Equal(t, "Expected HTTP 401, got HTTP 200", message)

	ok, _ = StatusAtLeast(400)(500)
	assert.True(t, ok)
	ok, message = StatusAtLeast(400)(204)
	assert.False(t, ok)
	assert.Equal(t, "Expected HTTP 400 or higher, got HTTP 204", message)

	ok, message = StatusNot(404, 405)(404)
	assert.False(t, ok)
	assert.Equal(t, "Unexpected HTTP 404 (Not Found)", message)
	ok, _ = StatusNot(404, 405)(401)
	assert.True(t, ok)

	ok, message = StatusIn(400, 401)(500)
	assert.False(t, ok)
	assert.Equal(t, "Expected one of HTTP 400, 401, got HTTP 500", message)

	ok, message = AllStatus(StatusAtLeast(400), StatusNot(500))(500)
	assert.False(t, ok)
	assert.Equal(t, "Unexpected HTTP 500 (Internal Server Error)", message)
}

func TestIsJSON(t *testing.T) {
	ok, _ := IsJSON()(makeResponse(200, "", `{"a":1}`))
	assert.True(t, ok)

	ok, message := IsJSON()(makeResponse(200, "", "<html>"))
	assert.False(t, ok)
	assert.True(t, strings.HasPrefix(message, "Response is not valid JSON"))

	ok, message = IsJSON()(makeResponse(204, "", ""))
	assert.False(t, ok)
	assert.Equal(t, "Response body is empty, expected JSON", message)
}

func TestFieldPredicates(t *testing.T) {
	ok, _ := HasJSONKey("error")(makeResponse(401, "", `{"error":null}`))
	assert.True(t, ok)

	ok, message := HasStringField("error")(makeResponse(401, "", `{"error":null}`))
	assert.False(t, ok)
	assert.Contains(t, message, "wrong type")

	ok, message = HasStringField("error")(makeResponse(401, "", `{}`))
	assert.False(t, ok)
	assert.Equal(t, `Response missing "error" field`, message)

	ok, message = HasStringField("error")(makeResponse(401, "", `nope`))
	assert.False(t, ok)
	assert.Contains(t, message, "Response is not in JSON format")

	ok, _ = JSONStringContains("message", "Ready")(makeResponse(200, "", `{"message":"Breakly API - Ready!"}`))
	assert.True(t, ok)
}

func TestContentTypeContains(t *testing.T) {
	ok, _ := ContentTypeContains("application/json")(makeResponse(200, "Application/JSON; charset=utf-8", "{}"))
	assert.True(t, ok)

	ok, message := ContentTypeContains("application/json")(makeResponse(200, "text/html", "x"))
	assert.False(t, ok)
	assert.Equal(t, `Unexpected content type "text/html", expected "application/json"`, message)
}

func TestMatchesSchema(t *testing.T) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(
		`{"type":"object","required":["error"],"properties":{"error":{"type":"string"}}}`))
	require.NoError(t, err)
	compiler := jsonschema.NewCompiler()
	require.NoError(t, compiler.AddResource("test://error.json", doc))
	schema, err := compiler.Compile("test://error.json")
	require.NoError(t, err)

	ok, _ := MatchesSchema(schema)(makeResponse(401, "", `{"error":"Unauthorized"}`))
	assert.True(t, ok)

	ok, message := MatchesSchema(schema)(makeResponse(401, "", `{"error":1}`))
	assert.False(t, ok)
	assert.Contains(t, message, "does not match schema")

	ok, message = MatchesSchema(schema)(makeResponse(401, "", `oops`))
	assert.False(t, ok)
	assert.Contains(t, message, "not valid JSON")
}

func TestEvaluateStopsAtFirstFailure(t *testing.T) {
	calls := 0
	counting := func(*client.Response) (bool, string) {
		calls++
		return true, ""
	}
	e := EndpointExpectation{
		Status: StatusEquals(200),
		Checks: []ResponsePredicate{counting},
	}
	ok, message := e.Evaluate(makeResponse(404, "", ""))
	assert.False(t, ok)
	assert.Equal(t, "Expected HTTP 200, got HTTP 404", message)
	assert.Equal(t, 0, calls)

	ok, _ = e.Evaluate(makeResponse(200, "", ""))
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
}

func TestExpectationRequestDefaultsToGet(t *testing.T) {
	req := EndpointExpectation{Path: PathRoot}.Request()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, PathRoot, req.Path)
}

func TestResponseDetails(t *testing.T) {
	d := responseDetails(makeResponse(500, "", `{"error":"x"}`))
	assert.Equal(t, 500, d.GetByKey("status").IntValue())
	assert.Equal(t, "x", d.GetByKey("body").GetByKey("error").StringValue())

	d = responseDetails(makeResponse(500, "", strings.Repeat("a", 600)))
	assert.Equal(t, strings.Repeat("a", maxDetailsBodyLength)+"...", d.GetByKey("text").StringValue())
}
