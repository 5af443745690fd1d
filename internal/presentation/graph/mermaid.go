package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/format"
)

// Overlay contains plan data to visualize on the graph.
type Overlay struct {
	// Path is the sequence of visited objects; the last one is the current position.
	Path []string
	// Goal is styled as the destination.
	Goal string
}

// Mermaid produces a Mermaid flowchart of a binary relation of p, such as
// the adjacency of a navigation problem. Edges declared in both directions
// are drawn once as <-->. It applies semantic styling:
// - Origin (first step of the overlay path): ((Circle))
// - Goal: ([Stadium])
// - Default: [Rectangle]
func Mermaid(p *domain.Problem, relation string, labels map[string]string, overlay *Overlay) (string, error) {
	rel, err := p.Relation(relation)
	if err != nil {
		return "", err
	}

	var origin, goal string
	if overlay != nil {
		goal = overlay.Goal
		if len(overlay.Path) > 0 {
			origin = overlay.Path[0]
		}
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, id := range rel.Nodes {
		name := p.ObjectByID(id).Name
		opener, closer := "[", "]"
		switch name {
		case origin:
			opener, closer = "((", "))"
		case goal:
			opener, closer = "([", "])"
		}
		label := strings.ReplaceAll(format.Humanize(name, labels), "\"", "'")
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(name), opener, label, closer)
	}

	for _, from := range rel.Nodes {
		for _, to := range rel.Successors(from) {
			back := rel.HasEdge(to, from)
			if back && to < from {
				continue
			}
			arrow := "-->"
			if back {
				arrow = "<-->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n",
				sanitizeMermaidID(p.ObjectByID(from).Name), arrow, sanitizeMermaidID(p.ObjectByID(to).Name))
		}
	}

	if overlay != nil && len(overlay.Path) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		current := overlay.Path[len(overlay.Path)-1]
		visited := make(map[string]bool)
		for _, name := range overlay.Path[:len(overlay.Path)-1] {
			safeID := sanitizeMermaidID(name)
			if name == current || visited[safeID] || safeID == "" {
				continue
			}
			visited[safeID] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
		}
		fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(current))
	}

	return sb.String(), nil
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
