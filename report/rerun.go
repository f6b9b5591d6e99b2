package report

import (
	"regexp"
	"strings"

	"github.com/breakly/api-smoke-tests/framework"

	"github.com/alessio/shellescape"
)

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// RerunCommand returns a shell command line that runs only the failed cases again. The
// base arguments should be the program name followed by any arguments that are not case
// filters. It returns "" if nothing failed.
func RerunCommand(base []string, failed []framework.TestID) string {
	if len(failed) == 0 {
		return ""
	}
	var b commandBuilder
	b.add(base...)
	for _, id := range failed {
		b.add("--run", "^"+regexp.QuoteMeta(id.String())+"$")
	}
	return b.String()
}
