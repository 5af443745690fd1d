package domain

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Step is one ground action of a plan, by name.
type Step struct {
	Action string   `json:"action" yaml:"action"`
	Args   []string `json:"args" yaml:"args"`
}

func (s Step) String() string {
	if len(s.Args) == 0 {
		return "(" + s.Action + ")"
	}
	return "(" + s.Action + " " + strings.Join(s.Args, " ") + ")"
}

// ParseStep parses "(navigate r1 base pharmacy)".
func ParseStep(s string) (Step, error) {
	fields, err := sexpFields(s)
	if err != nil {
		return Step{}, err
	}
	if len(fields) == 0 {
		return Step{}, fmt.Errorf("empty step %q", s)
	}
	for _, f := range fields {
		if strings.ContainsAny(f, "()") {
			return Step{}, fmt.Errorf("nested term in step %q", s)
		}
	}
	return Step{Action: fields[0], Args: fields[1:]}, nil
}

// ParsePlan reads one step per line. Everything after a ';' is a comment
// and blank lines are skipped, so the trailer written by the raw formatter
// round-trips.
func ParsePlan(r io.Reader) ([]Step, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text, _, _ := strings.Cut(scanner.Text(), ";")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		step, err := ParseStep(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return steps, nil
}
