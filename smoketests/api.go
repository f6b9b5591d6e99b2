package smoketests

import (
	"context"
	"errors"
	"fmt"

	"github.com/breakly/api-smoke-tests/client"
	"github.com/breakly/api-smoke-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const maxDetailsBodyLength = 500

// T represents one test case in the smoke test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that
// is outside of the Go test runner. Those features are provided by the lower-level framework
// package. On top of that it can make requests to the service under test and record named
// outcomes.
//
// Each outcome is recorded explicitly, with Pass, Fail, or one of the request helpers that
// record a result for you. The assert and require packages can also be used, passing the *T
// as if it were a *testing.T; a failed assertion is recorded under the name of the case.
type T struct {
	context *framework.Context
	ctx     context.Context
	runner  *client.Runner
	params  SuiteParams
}

func newTestScope(ctx context.Context, c *framework.Context, runner *client.Runner, params SuiteParams) *T {
	return &T{
		context: c,
		ctx:     ctx,
		runner:  runner.WithLogger(c.DebugLogger()),
		params:  params,
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a test case. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(t.ctx, c, t.runner, t.params))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Params returns the parameters the suite was started with.
func (t *T) Params() SuiteParams {
	return t.params
}

// Record adds an outcome to the test run.
func (t *T) Record(name string, passed bool, message string, details ldvalue.Value) {
	t.context.Record(name, passed, message, details)
}

// Pass records a passed outcome.
func (t *T) Pass(name, message string, details ldvalue.Value) {
	t.Record(name, true, message, details)
}

// Fail records a failed outcome. Unlike FailNow, the case continues.
func (t *T) Fail(name, message string, details ldvalue.Value) {
	t.Record(name, false, message, details)
}

// Failed returns true if this case has recorded any failed outcome so far.
func (t *T) Failed() bool {
	return t.context.Failed()
}

// Call makes a request to the service under test. If no response could be obtained, it
// records exactly one failed outcome with the given name and returns false; the caller
// should then stop checking that outcome.
func (t *T) Call(name string, req client.Request) (*client.Response, bool) {
	resp, err := t.runner.Do(t.ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			t.Fail(name, fmt.Sprintf("Request cancelled: %s", err), ldvalue.Null())
		} else if client.IsTransportError(err) {
			t.Fail(name, fmt.Sprintf("Connection error: %s", err), ldvalue.String(t.runner.URL(req.Path)))
		} else {
			t.Fail(name, fmt.Sprintf("Request error: %s", err), ldvalue.String(t.runner.URL(req.Path)))
		}
		return nil, false
	}
	return resp, true
}

// Expect performs the request described by the expectation and records exactly one outcome
// with the given name: passed if the status predicate and every response predicate hold,
// otherwise failed with the message of the first predicate that did not hold.
func (t *T) Expect(name string, e EndpointExpectation) bool {
	resp, ok := t.Call(name, e.Request())
	if !ok {
		return false
	}
	return t.Check(name, resp, e)
}

// Check records one outcome for a response that was already obtained.
func (t *T) Check(name string, resp *client.Response, e EndpointExpectation) bool {
	if ok, message := e.Evaluate(resp); !ok {
		t.Fail(name, message, responseDetails(resp))
		return false
	}
	message := e.PassMessage
	if message == "" {
		message = "Response matched expectations"
	}
	t.Pass(name, message, statusDetails(resp))
	return true
}

// URL returns the absolute URL for a request path.
func (t *T) URL(path string) string {
	return t.runner.URL(path)
}

func statusDetails(resp *client.Response) ldvalue.Value {
	return ldvalue.String(fmt.Sprintf("Status: %d", resp.StatusCode))
}

// responseDetails describes a response for a failed outcome: the parsed body if it is JSON,
// otherwise the start of the raw body.
func responseDetails(resp *client.Response) ldvalue.Value {
	if resp.IsJSON() {
		return ldvalue.ObjectBuild().
			Set("status", ldvalue.Int(resp.StatusCode)).
			Set("body", resp.Body).
			Build()
	}
	body := string(resp.RawBody)
	if len(body) > maxDetailsBodyLength {
		body = body[:maxDetailsBodyLength] + "..."
	}
	return ldvalue.ObjectBuild().
		Set("status", ldvalue.Int(resp.StatusCode)).
		Set("text", ldvalue.String(body)).
		Build()
}
