package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		in      string
		want    Literal
		wantErr bool
	}{
		{in: "(at ?r ?to)", want: Pos("at", "?r", "?to")},
		{in: "  (at   r1\tbase) ", want: Pos("at", "r1", "base")},
		{in: "(handempty)", want: Literal{Predicate: "handempty"}},
		{in: "(not (at ?r ?to))", want: Neg("at", "?r", "?to")},
		{in: "(not(at r1 base))", want: Neg("at", "r1", "base")},
		{in: "at r1 base", wantErr: true},
		{in: "(at r1 (base))", wantErr: true},
		{in: "(not (not (at r1 base)))", wantErr: true},
		{in: "(at r1 base", wantErr: true},
		{in: "()", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLiteral(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Predicate, got.Predicate)
			assert.Equal(t, tt.want.Negated, got.Negated)
			assert.Equal(t, len(tt.want.Args), len(got.Args))
			for i := range tt.want.Args {
				assert.Equal(t, tt.want.Args[i], got.Args[i])
			}
		})
	}
}

func TestLiteral_JSONUsesTextForm(t *testing.T) {
	spec := ActionSpec{
		Name: "navigate",
		Pre:  []Literal{Pos("at", "?r", "?from"), Neg("blocked", "?to")},
	}
	data, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"(not (blocked ?to))"`)

	var back ActionSpec
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, spec.Pre[1].String(), back.Pre[1].String())
	assert.True(t, back.Pre[1].Negated)
}

func TestParsePlan(t *testing.T) {
	input := strings.Join([]string{
		"; produced by hand",
		"(navigate r1 base reception)",
		"",
		"(navigate r1 reception room)   ; last hop",
		"; Plan length: 2",
	}, "\n")

	steps, err := ParsePlan(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, Step{Action: "navigate", Args: []string{"r1", "reception", "room"}}, steps[1])
	assert.Equal(t, "(navigate r1 base reception)", steps[0].String())

	_, err = ParsePlan(strings.NewReader("(navigate r1\n"))
	assert.ErrorContains(t, err, "line 1")
}
