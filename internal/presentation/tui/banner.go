package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{` __      __              __ _         _`, "#818cf8"},
	{` \ \    / /_ _ _  _ ___ / _(_)_ _  __| |___ _ _`, "#a78bfa"},
	{`  \ \/\/ / _' | || |___|  _| | ' \/ _' / -_) '_|`, "#c084fc"},
	{`   \_/\_/\__,_|\_, |   |_| |_|_||_\__,_\___|_|`, "#e879f9"},
	{`               |__/`, "#f472b6"},
}

// PrintBanner writes the ASCII art banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}

// Status colours an outcome for terminal output: green when solved, yellow
// when the search ran out of budget and red otherwise.
func Status(outcome domain.Outcome) string {
	p := termenv.ColorProfile()
	color := "#ef4444"
	switch outcome {
	case domain.OutcomeSolved:
		color = "#22c55e"
	case domain.OutcomeBudgetExceeded:
		color = "#eab308"
	}
	return termenv.String(string(outcome)).Foreground(p.Color(color)).Bold().String()
}
