package framework

import (
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// TestOutcome is a single recorded pass/fail result. It is never modified after it is recorded.
type TestOutcome struct {
	Name      string        `json:"test"`
	Passed    bool          `json:"success"`
	Message   string        `json:"message"`
	Details   ldvalue.Value `json:"details"`
	Timestamp time.Time     `json:"timestamp"`
}

// HasDetails returns true if the outcome carries a details value.
func (o TestOutcome) HasDetails() bool {
	return !o.Details.IsNull()
}

// CaseResult summarizes one test case after it finished.
type CaseResult struct {
	ID       TestID `json:"id"`
	Passed   bool   `json:"passed"`
	Skipped  bool   `json:"skipped,omitempty"`
	Outcomes int    `json:"outcomes"`
}

// TestRun is the ordered log of outcomes for one invocation of the harness.
//
// It is append-only while cases run and read-only afterward. It is not safe for concurrent
// use; cases are always executed one at a time.
type TestRun struct {
	outcomes []TestOutcome
	cases    []CaseResult
	now      func() time.Time
}

// NewTestRun creates an empty TestRun. If now is nil, time.Now is used for timestamps.
func NewTestRun(now func() time.Time) *TestRun {
	if now == nil {
		now = time.Now
	}
	return &TestRun{now: now}
}

// Record appends an outcome with the current timestamp and returns it.
func (r *TestRun) Record(name string, passed bool, message string, details ldvalue.Value) TestOutcome {
	o := TestOutcome{
		Name:      name,
		Passed:    passed,
		Message:   message,
		Details:   details,
		Timestamp: r.now(),
	}
	r.outcomes = append(r.outcomes, o)
	return o
}

// Outcomes returns a copy of all recorded outcomes in the order they were recorded.
func (r *TestRun) Outcomes() []TestOutcome {
	return append([]TestOutcome(nil), r.outcomes...)
}

// Cases returns a copy of the per-case results in execution order.
func (r *TestRun) Cases() []CaseResult {
	return append([]CaseResult(nil), r.cases...)
}

// PassCount returns the number of passed outcomes.
func (r *TestRun) PassCount() int {
	n := 0
	for _, o := range r.outcomes {
		if o.Passed {
			n++
		}
	}
	return n
}

// Total returns the number of recorded outcomes.
func (r *TestRun) Total() int {
	return len(r.outcomes)
}

// OK returns true if every recorded outcome passed.
func (r *TestRun) OK() bool {
	return r.PassCount() == r.Total()
}

// FailedCases returns the IDs of cases that did not pass, in execution order.
func (r *TestRun) FailedCases() []TestID {
	var ret []TestID
	for _, c := range r.cases {
		if !c.Passed && !c.Skipped {
			ret = append(ret, c.ID)
		}
	}
	return ret
}

func (r *TestRun) addCase(c CaseResult) {
	r.cases = append(r.cases, c)
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

func (t TestID) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
