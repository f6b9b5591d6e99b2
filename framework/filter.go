package framework

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects cases by ID. A case runs if it matches no MustNotMatch pattern and
// either matches a MustMatch pattern or there are none.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// IsDefined returns true if any pattern was given.
func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

func (r RegexFilters) AsFilter(id TestID) bool {
	name := id.String()
	if r.MustNotMatch.AnyMatch(name) {
		return false
	}
	return !r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(name)
}

// RegexList is a repeatable command-line flag holding regular expressions. It implements
// pflag.Value.
//
// Patterns are matched case-insensitively: case IDs are lower-case, but the names people
// copy from a report are the capitalized outcome names.
type RegexList struct {
	sources  []string
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	quoted := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		quoted = append(quoted, strconv.Quote(s))
	}
	return strings.Join(quoted, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile("(?i)" + value)
	if err != nil {
		return fmt.Errorf("invalid regex %q: %w", value, err)
	}
	r.sources = append(r.sources, value)
	r.patterns = append(r.patterns, rx)
	return nil
}

// Type is the placeholder shown for this flag in usage output.
func (r *RegexList) Type() string {
	return "regex"
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// PrintFilterDescription explains which cases the filters will exclude. It writes nothing
// if no filters were given.
func PrintFilterDescription(w io.Writer, filters RegexFilters) {
	if !filters.IsDefined() {
		return
	}
	fmt.Fprintln(w, "Some tests will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Fprintf(w, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Fprintf(w, "  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Fprintln(w)
}
