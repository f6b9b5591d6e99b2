package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/breakly/api-smoke-tests/framework"

	"github.com/fatih/color"
)

var (
	passLabel = color.New(color.FgGreen, color.Bold).Sprint("PASS")
	failLabel = color.New(color.FgRed, color.Bold).Sprint("FAIL")
)

// ConsoleTestLogger prints each outcome as soon as it is recorded.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) OutcomeRecorded(id framework.TestID, outcome framework.TestOutcome) {
	label := passLabel
	if !outcome.Passed {
		label = failLabel
	}
	lines := strings.Split(outcome.Message, "\n")
	fmt.Fprintf(c.Out, "  %s: %s - %s\n", label, outcome.Name, lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(c.Out, "    %s\n", line)
	}
	if outcome.HasDetails() {
		fmt.Fprintf(c.Out, "     Details: %s\n", formatDetails(outcome))
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		fmt.Fprintf(c.Out, "  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		fmt.Fprintf(c.Out, "  SKIPPED: %s\n", id)
	} else {
		fmt.Fprintf(c.Out, "  SKIPPED: %s (%s)\n", id, reason)
	}
}

// formatDetails shows string details as-is and anything else as JSON. Stack traces from
// recovered panics are only shown in debug output.
func formatDetails(o framework.TestOutcome) string {
	if o.Details.IsString() {
		s := o.Details.StringValue()
		if strings.HasPrefix(o.Message, "unexpected panic") {
			if i := strings.IndexByte(s, '\n'); i >= 0 {
				return s[:i] + " ..."
			}
		}
		return s
	}
	return o.Details.JSONString()
}
