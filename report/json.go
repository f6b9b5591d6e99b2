package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/breakly/api-smoke-tests/framework"
)

type jsonReport struct {
	Passed   int                     `json:"passed"`
	Total    int                     `json:"total"`
	OK       bool                    `json:"ok"`
	Cases    []framework.CaseResult  `json:"cases"`
	Outcomes []framework.TestOutcome `json:"outcomes"`
}

// WriteJSON writes the run's cases and outcomes as an indented JSON document.
func WriteJSON(w io.Writer, run *framework.TestRun) error {
	r := jsonReport{
		Passed:   run.PassCount(),
		Total:    run.Total(),
		OK:       run.OK(),
		Cases:    run.Cases(),
		Outcomes: run.Outcomes(),
	}
	if r.Cases == nil {
		r.Cases = []framework.CaseResult{}
	}
	if r.Outcomes == nil {
		r.Outcomes = []framework.TestOutcome{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
