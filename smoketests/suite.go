package smoketests

import (
	"context"
	"time"

	"github.com/breakly/api-smoke-tests/client"
	"github.com/breakly/api-smoke-tests/framework"
)

// SuiteParams holds the settings that individual cases depend on.
type SuiteParams struct {
	// HealthMessage, if not empty, must appear in the "message" field of the API root response.
	HealthMessage string

	// SlowResponseThreshold is the longest acceptable response time for the API root.
	SlowResponseThreshold time.Duration

	// ExtraChecks are run as additional cases after the built-in ones.
	ExtraChecks []NamedExpectation

	// Now supplies outcome timestamps. If nil, time.Now is used.
	Now func() time.Time
}

// NamedExpectation is a declarative check that runs as its own case.
type NamedExpectation struct {
	Name        string
	Expectation EndpointExpectation
}

// AllCaseNames lists the built-in cases in execution order.
var AllCaseNames = []string{
	"health check",
	"database connectivity",
	"endpoint routing",
	"http methods",
	"response headers",
	"auth register without token",
	"auth login without token",
	"protected endpoints",
	"leave request validation",
	"error handling",
	"error response format",
	"unsupported methods",
	"response time",
}

// RunTestSuite runs every case, one after another, and returns the resulting test run.
// A new TestRun is created for each call, so repeated calls never share state.
func RunTestSuite(
	ctx context.Context,
	runner *client.Runner,
	params SuiteParams,
	filter framework.Filter,
	testLogger framework.TestLogger,
) *framework.TestRun {
	if params.SlowResponseThreshold <= 0 {
		params.SlowResponseThreshold = time.Second
	}
	return framework.Run(filter, testLogger, params.Now, func(c *framework.Context) {
		t := newTestScope(ctx, c, runner, params)

		t.Run("health check", DoHealthCheckTests)
		t.Run("database connectivity", DoDatabaseConnectivityTests)
		t.Run("endpoint routing", DoEndpointRoutingTests)
		t.Run("http methods", DoHTTPMethodTests)
		t.Run("response headers", DoResponseHeaderTests)
		t.Run("auth register without token", DoRegisterWithoutTokenTests)
		t.Run("auth login without token", DoLoginWithoutTokenTests)
		t.Run("protected endpoints", DoProtectedEndpointTests)
		t.Run("leave request validation", DoLeaveValidationTests)
		t.Run("error handling", DoErrorHandlingTests)
		t.Run("error response format", DoErrorFormatTests)
		t.Run("unsupported methods", DoUnsupportedMethodTests)
		t.Run("response time", DoResponseTimeTests)

		for _, check := range params.ExtraChecks {
			check := check
			t.Run(check.Name, func(t *T) {
				t.Expect(check.Name, check.Expectation)
			})
		}
	})
}
