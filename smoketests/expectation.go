package smoketests

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/breakly/api-smoke-tests/client"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// StatusPredicate decides whether a status code is acceptable. If it is not, the returned
// message says why.
type StatusPredicate func(status int) (bool, string)

// ResponsePredicate decides whether some property of a response holds. If it does not, the
// returned message says why.
type ResponsePredicate func(resp *client.Response) (bool, string)

// EndpointExpectation declares a request and what its response must look like.
type EndpointExpectation struct {
	Method  string
	Path    string
	JSON    interface{}
	RawBody []byte
	Headers map[string]string

	// Status is checked first. If nil, any status is accepted.
	Status StatusPredicate

	// Checks are evaluated in order after the status predicate.
	Checks []ResponsePredicate

	// PassMessage is the message recorded when everything matched.
	PassMessage string
}

// Request returns the request the expectation describes.
func (e EndpointExpectation) Request() client.Request {
	method := e.Method
	if method == "" {
		method = http.MethodGet
	}
	return client.Request{
		Method:  method,
		Path:    e.Path,
		JSON:    e.JSON,
		RawBody: e.RawBody,
		Headers: e.Headers,
	}
}

// Evaluate applies the status predicate and then each check, stopping at the first one
// that does not hold.
func (e EndpointExpectation) Evaluate(resp *client.Response) (bool, string) {
	if e.Status != nil {
		if ok, message := e.Status(resp.StatusCode); !ok {
			return false, message
		}
	}
	for _, check := range e.Checks {
		if ok, message := check(resp); !ok {
			return false, message
		}
	}
	return true, ""
}

func StatusEquals(code int) StatusPredicate {
	return func(status int) (bool, string) {
		if status == code {
			return true, ""
		}
		return false, fmt.Sprintf("Expected HTTP %d, got HTTP %d", code, status)
	}
}

func StatusAtLeast(code int) StatusPredicate {
	return func(status int) (bool, string) {
		if status >= code {
			return true, ""
		}
		return false, fmt.Sprintf("Expected HTTP %d or higher, got HTTP %d", code, status)
	}
}

func StatusNot(codes ...int) StatusPredicate {
	return func(status int) (bool, string) {
		for _, c := range codes {
			if status == c {
				return false, fmt.Sprintf("Unexpected HTTP %d (%s)", status, http.StatusText(status))
			}
		}
		return true, ""
	}
}

func StatusIn(codes ...int) StatusPredicate {
	return func(status int) (bool, string) {
		for _, c := range codes {
			if status == c {
				return true, ""
			}
		}
		return false, fmt.Sprintf("Expected one of HTTP %s, got HTTP %d", joinInts(codes), status)
	}
}

// AllStatus combines status predicates; all of them must hold.
func AllStatus(preds ...StatusPredicate) StatusPredicate {
	return func(status int) (bool, string) {
		for _, p := range preds {
			if ok, message := p(status); !ok {
				return false, message
			}
		}
		return true, ""
	}
}

// IsJSON requires the body to be valid JSON.
func IsJSON() ResponsePredicate {
	return func(resp *client.Response) (bool, string) {
		if resp.IsJSON() {
			return true, ""
		}
		if resp.ParseErr != nil {
			return false, fmt.Sprintf("Response is not valid JSON: %s", resp.ParseErr)
		}
		return false, "Response body is empty, expected JSON"
	}
}

// HasJSONKey requires the body to be a JSON object containing the key, with a value of any type.
func HasJSONKey(key string) ResponsePredicate {
	return func(resp *client.Response) (bool, string) {
		if _, err := resp.Field(key); err != nil {
			return false, fieldErrorMessage(err)
		}
		return true, ""
	}
}

// HasStringField requires the body to be a JSON object whose key holds a string.
func HasStringField(key string) ResponsePredicate {
	return JSONStringContains(key, "")
}

// JSONStringContains requires a top-level string field that contains substr.
func JSONStringContains(key, substr string) ResponsePredicate {
	return func(resp *client.Response) (bool, string) {
		value, err := resp.StringField(key)
		if err != nil {
			return false, fieldErrorMessage(err)
		}
		if !strings.Contains(value, substr) {
			return false, fmt.Sprintf("Field %q is %q, expected it to contain %q", key, value, substr)
		}
		return true, ""
	}
}

// ContentTypeContains requires the Content-Type header to contain s, ignoring case.
func ContentTypeContains(s string) ResponsePredicate {
	return func(resp *client.Response) (bool, string) {
		ct := resp.ContentType()
		if strings.Contains(strings.ToLower(ct), strings.ToLower(s)) {
			return true, ""
		}
		return false, fmt.Sprintf("Unexpected content type %q, expected %q", ct, s)
	}
}

// MatchesSchema requires the body to be JSON that validates against the schema.
func MatchesSchema(schema *jsonschema.Schema) ResponsePredicate {
	return func(resp *client.Response) (bool, string) {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(resp.RawBody))
		if err != nil {
			return false, fmt.Sprintf("Response is not valid JSON: %s", err)
		}
		if err := schema.Validate(doc); err != nil {
			return false, fmt.Sprintf("Response does not match schema: %s", err)
		}
		return true, ""
	}
}

func fieldErrorMessage(err error) string {
	var fe *client.FieldError
	switch {
	case errors.As(err, &fe) && fe.Reason == client.FieldAbsent:
		return fmt.Sprintf("Response missing %q field", fe.Key)
	case errors.As(err, &fe):
		return fmt.Sprintf("Response field has wrong type: %s", fe)
	case errors.Is(err, client.ErrNotJSON):
		return fmt.Sprintf("Response is not in JSON format: %s", err)
	default:
		return fmt.Sprintf("Unexpected response format: %s", err)
	}
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, ", ")
}
