// Package format renders planning reports for people and for downstream
// robot APIs.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/validate"
)

// Format names an output layout.
type Format string

const (
	// Raw prints one step per line followed by a "; Plan length: N" trailer.
	Raw Format = "raw"
	// JSON prints the full result object.
	JSON Format = "json"
	// API prints the minimal navigation command.
	API Format = "api"
	// Waypoints prints the navigation command with waypoints and an ETA.
	Waypoints Format = "waypoints"
	// Pretty prints a Markdown summary.
	Pretty Format = "pretty"
)

// SecondsPerHop is the ETA estimate for one navigation step.
const SecondsPerHop = 30

var all = []Format{Raw, JSON, API, Waypoints, Pretty}

// Formats lists the supported formats.
func Formats() []Format {
	return slices.Clone(all)
}

// Parse resolves a format name.
func Parse(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if slices.Contains(all, f) {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want one of %v)", name, all)
}

// Options tunes rendering.
type Options struct {
	// Labels overrides the humanized form of object names.
	Labels map[string]string
	// Goal is the intended destination, used when there is no plan.
	Goal string
	// Trace is the per-step diff of a validated plan, shown by Pretty.
	Trace []validate.StepDiff
}

// Humanize turns an identifier such as "corridor_wing_1" into a label.
// An entry in labels wins over the default underscore replacement.
func Humanize(name string, labels map[string]string) string {
	if label, ok := labels[name]; ok {
		return label
	}
	return strings.ReplaceAll(name, "_", " ")
}

// Destination is the last argument of the final step, or "" for an empty plan.
func Destination(plan []domain.Step) string {
	if len(plan) == 0 {
		return ""
	}
	args := plan[len(plan)-1].Args
	if len(args) == 0 {
		return ""
	}
	return args[len(args)-1]
}

// Path lists the locations visited by a navigation plan: the origin of
// the first step followed by the destination of every step. Steps are
// read as (action mover ... from to).
func Path(plan []domain.Step) []string {
	if len(plan) == 0 {
		return nil
	}
	first := plan[0].Args
	if len(first) < 2 {
		return nil
	}
	path := []string{first[len(first)-2]}
	for _, s := range plan {
		if len(s.Args) == 0 {
			return nil
		}
		path = append(path, s.Args[len(s.Args)-1])
	}
	return path
}

// Write renders r to w.
func Write(w io.Writer, f Format, r *domain.Report, opts Options) error {
	switch f {
	case Raw:
		return writeRaw(w, r)
	case JSON:
		return writeJSON(w, ResultOf(r), true)
	case API:
		return writeJSON(w, commandOf(r, opts, false), false)
	case Waypoints:
		return writeJSON(w, commandOf(r, opts, true), false)
	case Pretty:
		_, err := io.WriteString(w, Markdown(r, opts))
		return err
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

func writeRaw(w io.Writer, r *domain.Report) error {
	var b strings.Builder
	if r.Solved() {
		for _, s := range r.Plan {
			b.WriteString(s.String())
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "; Plan length: %d\n", len(r.Plan))
	} else {
		fmt.Fprintf(&b, "; %s", r.Outcome)
		if r.Detail != "" {
			fmt.Fprintf(&b, ": %s", r.Detail)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// Result is the JSON layout of a report.
type Result struct {
	Status      string   `json:"status"`
	Planner     string   `json:"planner,omitempty"`
	Plan        []string `json:"plan"`
	NumActions  int      `json:"num_actions"`
	Destination string   `json:"destination,omitempty"`
	Report      string   `json:"report_id,omitempty"`
	Detail      string   `json:"detail,omitempty"`
	Step        *int     `json:"step,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// ResultOf condenses a report into its JSON layout.
func ResultOf(r *domain.Report) Result {
	res := Result{
		Status:     string(r.Outcome),
		Planner:    r.Strategy,
		Plan:       make([]string, len(r.Plan)),
		NumActions: len(r.Plan),
		Report:     r.ID,
		Detail:     r.Detail,
		Step:       r.Step,
		Warnings:   r.Warnings,
	}
	if r.Solved() {
		res.Status = "success"
		res.Destination = Destination(r.Plan)
	}
	for i, s := range r.Plan {
		res.Plan[i] = s.String()
	}
	return res
}

// Command is the navigation payload sent to a robot API.
type Command struct {
	Intent           string    `json:"intent,omitempty"`
	Task             string    `json:"task"`
	Status           string    `json:"status,omitempty"`
	Destination      string    `json:"destination,omitempty"`
	DestinationLabel string    `json:"destination_label,omitempty"`
	Waypoints        []string  `json:"waypoints,omitempty"`
	WaypointLabels   []string  `json:"waypoint_labels,omitempty"`
	Priority         string    `json:"priority,omitempty"`
	Constraints      *[]string `json:"constraints,omitempty"`
	ETASeconds       *int      `json:"eta_seconds,omitempty"`
}

func commandOf(r *domain.Report, opts Options, verbose bool) Command {
	if !r.Solved() {
		return Command{Task: "navigate", Destination: opts.Goal, Status: "no_path"}
	}

	dest := Destination(r.Plan)
	if dest == "" {
		dest = opts.Goal
	}
	cmd := Command{
		Task:             "navigate",
		Destination:      dest,
		DestinationLabel: Humanize(dest, opts.Labels),
	}
	if !verbose {
		return cmd
	}

	cmd.Intent = "NAVIGATE"
	cmd.Priority = "normal"
	cmd.Constraints = &[]string{}
	cmd.Waypoints = Path(r.Plan)
	if len(cmd.Waypoints) == 0 && dest != "" {
		cmd.Waypoints = []string{dest}
	}
	for _, wp := range cmd.Waypoints {
		cmd.WaypointLabels = append(cmd.WaypointLabels, Humanize(wp, opts.Labels))
	}
	eta := len(r.Plan) * SecondsPerHop
	cmd.ETASeconds = &eta
	return cmd
}

// Markdown summarises a report, with the validation trace when present.
func Markdown(r *domain.Report, opts Options) string {
	var b strings.Builder
	title := r.Problem
	if title == "" {
		title = "Plan"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- **Outcome:** `%s`\n", r.Outcome)
	if r.Domain != "" {
		fmt.Fprintf(&b, "- **Domain:** %s\n", r.Domain)
	}
	if r.Strategy != "" {
		fmt.Fprintf(&b, "- **Strategy:** %s\n", r.Strategy)
	}
	if r.Stats.Expanded > 0 {
		fmt.Fprintf(&b, "- **Expanded:** %d nodes in %s\n", r.Stats.Expanded, r.Stats.Elapsed)
	}
	if r.Detail != "" {
		fmt.Fprintf(&b, "- **Detail:** %s\n", r.Detail)
	}
	if r.Step != nil {
		fmt.Fprintf(&b, "- **Failing step:** %d\n", *r.Step+1)
	}

	if len(r.Plan) > 0 {
		b.WriteString("\n## Plan\n\n")
		for i, s := range r.Plan {
			fmt.Fprintf(&b, "%d. `%s`\n", i+1, s)
		}
		if dest := Destination(r.Plan); r.Solved() && dest != "" {
			fmt.Fprintf(&b, "\nDestination: **%s**\n", Humanize(dest, opts.Labels))
		}
	}

	if len(opts.Trace) > 0 {
		b.WriteString("\n## Trace\n\n| Step | Action | Added | Removed |\n|---|---|---|---|\n")
		for _, d := range opts.Trace {
			fmt.Fprintf(&b, "| %d | `%s` | %s | %s |\n", d.Step+1, d.Action,
				strings.Join(d.Added, " "), strings.Join(d.Removed, " "))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

// GoalOf is the last argument of the first positive goal literal of p,
// the destination of a navigation problem.
func GoalOf(p *domain.Problem) string {
	for _, g := range p.Goal() {
		if !g.Negated && len(g.Atom.Args) > 0 {
			return p.ObjectByID(g.Atom.Args[len(g.Atom.Args)-1]).Name
		}
	}
	return ""
}
