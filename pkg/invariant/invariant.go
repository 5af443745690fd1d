// Package invariant provides pre-flight checks that run on a problem before
// grounding. Checks only read the model; they annotate a run with warnings
// or prove the goal unreachable early.
package invariant

import "fmt"

// Severity of a finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityFatal   Severity = "fatal"
)

// Finding is a single diagnostic produced by a Checker.
type Finding struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	Subject  string   `json:"subject,omitempty"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Check, f.Message)
}

// Findings is an ordered list of diagnostics.
type Findings []Finding

// Fatal reports whether any finding proves the goal unreachable.
func (fs Findings) Fatal() bool {
	for _, f := range fs {
		if f.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// Messages renders every finding.
func (fs Findings) Messages() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.String()
	}
	return out
}
