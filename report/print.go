package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/breakly/api-smoke-tests/framework"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

const separatorWidth = 60

var (
	successText = color.New(color.FgGreen).SprintFunc()
	failureText = color.New(color.FgRed).SprintFunc()
	warningText = color.New(color.FgYellow).SprintFunc()
	headerText  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Print writes the human-readable report: a table of every outcome, the pass counts, any
// critical failures, and the derived status lines.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", separatorWidth))
	fmt.Fprintln(w, headerText("Test Results"))

	if len(s.Outcomes) > 0 {
		renderOutcomes(w, s.Outcomes)
	}

	fmt.Fprintf(w, "Outcomes: %s passed\n", formatCount(s.Passed, s.Total))
	fmt.Fprintf(w, "Cases:    %s passed\n", formatCount(s.CasesPassed, s.CasesTotal))

	if len(s.CriticalFailures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, failureText("Critical Issues Found:"))
		for _, f := range s.CriticalFailures {
			fmt.Fprintf(w, "   • %s: %s\n", f.Name, f.Message)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Auth Status:     %s\n", formatStatus(s.AuthOK, "Working", "Issues Detected"))
	fmt.Fprintf(w, "Database Status: %s\n", formatStatus(s.DatabaseOK, "Accessible", "Connection Issues"))
	fmt.Fprintf(w, "API Routing:     %s\n", formatStatus(s.RoutingOK, "All endpoints routed", "Some endpoints missing"))

	fmt.Fprintln(w)
	if s.OK() {
		fmt.Fprintln(w, successText("All tests passed."))
	} else {
		fmt.Fprintln(w, warningText(fmt.Sprintf("%d of %d checks failed. Check the issues above.", s.Failed(), s.Total)))
	}
}

func renderOutcomes(w io.Writer, outcomes []framework.TestOutcome) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Result", "Test", "Message"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(true)
	for _, o := range outcomes {
		table.Append([]string{formatResult(o.Passed), o.Name, o.Message})
	}
	table.Render()
}

func formatResult(passed bool) string {
	if passed {
		return successText("PASS")
	}
	return failureText("FAIL")
}

func formatCount(passed, total int) string {
	text := fmt.Sprintf("%d/%d", passed, total)
	if passed == total {
		return successText(text)
	}
	return failureText(text)
}

func formatStatus(ok bool, good, bad string) string {
	if ok {
		return successText(good)
	}
	return failureText(bad)
}
