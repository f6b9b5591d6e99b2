// Package report aggregates a finished test run into a summary and prints it.
package report

import (
	"strings"

	"github.com/breakly/api-smoke-tests/framework"
)

// DefaultCriticalKeywords name the core capabilities whose failures are listed as critical.
var DefaultCriticalKeywords = []string{"health", "database", "routing", "endpoint"}

// Summary is the aggregate view of a TestRun.
type Summary struct {
	Passed int
	Total  int

	CasesPassed int
	CasesTotal  int

	// CriticalFailures are the failed outcomes whose name matches a critical keyword, in
	// the order they were recorded.
	CriticalFailures []framework.TestOutcome

	// AuthOK is true if every outcome with "auth" in its name passed.
	AuthOK bool
	// DatabaseOK is true if no outcome with "database" in its name failed.
	DatabaseOK bool
	// RoutingOK is true if no outcome with "routing" in its name failed.
	RoutingOK bool

	Outcomes []framework.TestOutcome
}

// Summarize computes the summary of a run. If keywords is empty, DefaultCriticalKeywords
// is used. Keywords are matched case-insensitively against outcome names.
func Summarize(run *framework.TestRun, keywords []string) Summary {
	if len(keywords) == 0 {
		keywords = DefaultCriticalKeywords
	}
	s := Summary{
		Outcomes:   run.Outcomes(),
		AuthOK:     true,
		DatabaseOK: true,
		RoutingOK:  true,
	}
	for _, o := range s.Outcomes {
		s.Total++
		if o.Passed {
			s.Passed++
			continue
		}
		if nameMatchesAny(o.Name, keywords) {
			s.CriticalFailures = append(s.CriticalFailures, o)
		}
		if nameMatchesAny(o.Name, []string{"auth"}) {
			s.AuthOK = false
		}
		if nameMatchesAny(o.Name, []string{"database"}) {
			s.DatabaseOK = false
		}
		if nameMatchesAny(o.Name, []string{"routing"}) {
			s.RoutingOK = false
		}
	}
	for _, c := range run.Cases() {
		if c.Skipped {
			continue
		}
		s.CasesTotal++
		if c.Passed {
			s.CasesPassed++
		}
	}
	return s
}

// OK is the overall result: true if and only if every recorded outcome passed.
func (s Summary) OK() bool {
	return s.Passed == s.Total
}

// Failed returns the number of failed outcomes.
func (s Summary) Failed() int {
	return s.Total - s.Passed
}

func nameMatchesAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
