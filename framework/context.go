package framework

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type environment struct {
	run        *TestRun
	testLogger TestLogger
	filter     Filter
}

// Context is the scope of one test case, or of the root of a test run.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	recorded    int
}

// Run creates a new TestRun, executes the action in a root Context, and returns the run
// once every case started by the action has finished.
func Run(
	filter Filter,
	testLogger TestLogger,
	now func() time.Time,
	action func(*Context),
) *TestRun {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		run:        NewTestRun(now),
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.run
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			if _, ok := r.(*Context); ok {
				if !c.failed {
					c.Record(c.id.String(), false, "test failed with no failure message", ldvalue.Null())
				}
			} else {
				c.Record(c.id.String(), false, fmt.Sprintf("unexpected panic in test: %+v", r),
					ldvalue.String(string(debug.Stack())))
			}
		}
	}()

	action(c)
}

func (c *Context) ID() TestID {
	return c.id
}

// Run executes a test case. The case is isolated: if it panics or calls FailNow, the failure
// is recorded and control returns here, so later cases still run.
func (c *Context) Run(name string, action func(*Context)) {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	c.env.run.addCase(CaseResult{
		ID:       id,
		Passed:   !c1.failed && !c1.skipped,
		Skipped:  c1.skipped,
		Outcomes: c1.recorded,
	})
	if c1.failed {
		c.failed = true
	}
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Record appends an outcome to the test run. A failed outcome also marks this case as failed.
func (c *Context) Record(name string, passed bool, message string, details ldvalue.Value) {
	o := c.env.run.Record(name, passed, message, details)
	c.recorded++
	if !passed {
		c.failed = true
	}
	c.env.testLogger.OutcomeRecorded(c.id, o)
}

// Errorf records a failed outcome named after the current case. It is called by the assert
// and require packages, and does not cause an immediate exit.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.Record(c.id.String(), false, reformatError(fmt.Sprintf(format, args...)), ldvalue.Null())
}

// FailNow ends the current case immediately.
func (c *Context) FailNow() {
	panic(c)
}

// Failed returns true if the current case has recorded a failure.
func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// reformatError condenses the multi-line layout produced by the assert package into
// "label: value" lines, dropping the stack trace section, which only points into this
// harness.
func reformatError(message string) string {
	var lines []string
	skipping := false
	for _, line := range strings.Split(message, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if label, value, ok := strings.Cut(trimmed, ":"); ok && isAssertLabel(label) {
			skipping = label == "Error Trace" || label == "Test"
			if !skipping {
				lines = append(lines, label+": "+strings.TrimSpace(value))
			}
			continue
		}
		if !skipping {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}

func isAssertLabel(s string) bool {
	switch s {
	case "Error Trace", "Error", "Test", "Messages":
		return true
	}
	return false
}
