package domain

import "time"

// EvaluationEvent describes a finished evaluation.
type EvaluationEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Report    *Report   `json:"report"`
}

// FailureEvent describes an evaluation aborted by a configuration or document error.
type FailureEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Err       error     `json:"-"`
}

// EvaluationHooks defines callbacks for matcher observability.
type EvaluationHooks struct {
	OnEvaluate func(*EvaluationEvent)
	OnFailure  func(*FailureEvent)
}
