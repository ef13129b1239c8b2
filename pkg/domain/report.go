package domain

import "time"

// Report is the outcome of a single evaluation.
type Report struct {
	ID         string        `json:"id,omitempty"`
	Schema     string        `json:"schema,omitempty"`
	OK         bool          `json:"ok"`
	Errors     []string      `json:"errors"`
	Violations []Violation   `json:"violations"`
	Duration   time.Duration `json:"-"`
}

// NewReport builds a report from the violations of one evaluation.
func NewReport(violations []Violation) *Report {
	if violations == nil {
		violations = []Violation{}
	}
	return &Report{
		OK:         len(violations) == 0,
		Errors:     Messages(violations),
		Violations: violations,
	}
}
