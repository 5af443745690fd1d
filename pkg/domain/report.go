package domain

import (
	"errors"
	"time"
)

// Outcome classifies a planning result.
type Outcome string

const (
	OutcomeSolved          Outcome = "solved"
	OutcomeUnreachable     Outcome = "unreachable"
	OutcomeBudgetExceeded  Outcome = "budget_exceeded"
	OutcomeSchemaError     Outcome = "schema_error"
	OutcomeProblemError    Outcome = "problem_error"
	OutcomeValidationError Outcome = "validation_error"

	// OutcomeError covers failures outside the planning model, such as I/O.
	OutcomeError Outcome = "error"
)

// Report is the externally visible result of a solve or validate request.
type Report struct {
	ID        string      `json:"id"`
	Domain    string      `json:"domain,omitempty"`
	Problem   string      `json:"problem,omitempty"`
	Strategy  string      `json:"strategy,omitempty"`
	Outcome   Outcome     `json:"outcome"`
	Plan      []Step      `json:"plan,omitempty"`
	Warnings  []string    `json:"warnings,omitempty"`
	Stats     SearchStats `json:"stats"`
	Detail    string      `json:"detail,omitempty"`
	Step      *int        `json:"step,omitempty"` // failing step of a validation error
	CreatedAt time.Time   `json:"created_at"`

	// Sealed is the encrypted body of a report written through an
	// encrypting store; the plan and details are then left empty.
	Sealed []byte `json:"sealed,omitempty"`
}

// Solved reports whether the report carries a plan.
func (r *Report) Solved() bool {
	return r.Outcome == OutcomeSolved
}

// Clone returns a deep copy of the report.
func (r *Report) Clone() *Report {
	c := *r
	if r.Plan != nil {
		c.Plan = make([]Step, len(r.Plan))
		for i, s := range r.Plan {
			c.Plan[i] = Step{Action: s.Action, Args: append([]string(nil), s.Args...)}
		}
	}
	c.Warnings = append([]string(nil), r.Warnings...)
	if r.Step != nil {
		step := *r.Step
		c.Step = &step
	}
	c.Sealed = append([]byte(nil), r.Sealed...)
	return &c
}

// OutcomeOf maps an error returned by the planning pipeline to an Outcome.
// A nil error is a success.
func OutcomeOf(err error) Outcome {
	var (
		schemaErr     *SchemaError
		problemErr    *ProblemError
		validationErr *ValidationError
	)
	switch {
	case err == nil:
		return OutcomeSolved
	case errors.As(err, &schemaErr):
		return OutcomeSchemaError
	case errors.As(err, &problemErr), errors.Is(err, ErrUnknownDomain):
		return OutcomeProblemError
	case errors.As(err, &validationErr), errors.Is(err, ErrGoalNotReached):
		return OutcomeValidationError
	case errors.Is(err, ErrUnreachable):
		return OutcomeUnreachable
	case errors.Is(err, ErrBudgetExceeded):
		return OutcomeBudgetExceeded
	default:
		return OutcomeError
	}
}
