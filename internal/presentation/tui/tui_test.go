package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer(t *testing.T) {
	render, err := tui.NewRenderer(60)
	require.NoError(t, err)

	out, err := render("# ward-route\n\n1. `(navigate r1 base reception)`\n")
	require.NoError(t, err)
	assert.Contains(t, out, "ward-route")
	assert.Contains(t, out, "navigate")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}

func TestStatus(t *testing.T) {
	for _, o := range []domain.Outcome{domain.OutcomeSolved, domain.OutcomeBudgetExceeded, domain.OutcomeUnreachable} {
		assert.Contains(t, tui.Status(o), string(o))
	}
}
