package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreachable is returned when a complete search exhausts the state
	// space, or a pre-flight check proves the goal cannot be reached.
	ErrUnreachable = errors.New("goal unreachable")

	// ErrBudgetExceeded is returned when a search is stopped by its node
	// budget, its timeout or context cancellation. It says nothing about
	// whether a plan exists.
	ErrBudgetExceeded = errors.New("search budget exceeded")

	// ErrUnknownDomain is returned when a problem references a domain that is not loaded.
	ErrUnknownDomain = errors.New("unknown domain")

	// ErrUnknownAction is returned when a plan step names an undeclared action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrGoalNotReached is matched by GoalNotReachedError.
	ErrGoalNotReached = errors.New("goal not reached")

	// ErrReportNotFound is returned when a report ID cannot be found in the store.
	ErrReportNotFound = errors.New("report not found")

	// ErrDefinitionNotFound is returned when a loader has no domain or problem under an ID.
	ErrDefinitionNotFound = errors.New("definition not found")
)

// Issue is a single defect found while loading a domain or problem.
type Issue struct {
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
}

func (i Issue) String() string {
	return i.Subject + ": " + i.Reason
}

// SchemaError reports every defect found in a domain definition.
type SchemaError struct {
	Domain string
	Issues []Issue
}

func (e *SchemaError) Error() string {
	return formatIssues(fmt.Sprintf("schema error in domain %q", e.Domain), e.Issues)
}

// ProblemError reports every defect found in a problem instance.
type ProblemError struct {
	Problem string
	Issues  []Issue
	Err     error
}

func (e *ProblemError) Error() string {
	return formatIssues(fmt.Sprintf("problem error in %q", e.Problem), e.Issues)
}

func (e *ProblemError) Unwrap() error {
	return e.Err
}

func formatIssues(head string, issues []Issue) string {
	if len(issues) == 1 {
		return head + ": " + issues[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d issues", head, len(issues))
	for _, i := range issues {
		b.WriteString("\n  - ")
		b.WriteString(i.String())
	}
	return b.String()
}

// ValidationError reports the first step of a plan that cannot be applied.
// Step is the zero-based index into the plan.
type ValidationError struct {
	Step    int
	Action  string
	Literal string // violated precondition, empty for structural errors
	Missing bool   // true if a required atom is absent, false if a forbidden atom is present
	Reason  string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Literal != "" {
		what := "extra"
		if e.Missing {
			what = "missing"
		}
		return fmt.Sprintf("step %d %s: precondition %s violated (%s)", e.Step, e.Action, e.Literal, what)
	}
	return fmt.Sprintf("step %d %s: %s", e.Step, e.Action, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// GoalNotReachedError reports goal literals left unsatisfied after a plan ran to completion.
type GoalNotReachedError struct {
	Unmet []string
}

func (e *GoalNotReachedError) Error() string {
	return "goal not reached: unmet " + strings.Join(e.Unmet, " ")
}

func (e *GoalNotReachedError) Is(target error) bool {
	return target == ErrGoalNotReached
}
