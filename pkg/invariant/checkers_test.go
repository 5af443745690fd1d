package invariant_test

import (
	"context"
	"testing"

	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/invariant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymmetry(t *testing.T) {
	spec := testutils.NavigationProblem([]string{"a", "b", "c"},
		[][2]string{{"a", "b"}}, true, "a", "c")
	spec.Init = append(spec.Init, domain.Pos("connected", "b", "c"))
	p := testutils.MustProblem(t, testutils.NavigationDomain(), spec)

	fs, err := invariant.Symmetry{Predicate: "connected"}.Check(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, invariant.SeverityWarning, fs[0].Severity)
	assert.Equal(t, "(connected b c) has no inverse (connected c b)", fs[0].Message)
	assert.False(t, fs.Fatal())
}

func TestReachability(t *testing.T) {
	tests := []struct {
		name      string
		spec      domain.ProblemSpec
		wantFatal bool
	}{
		{"connected", testutils.Chain("base", "reception", "room"), false},
		{"disjoint", testutils.NavigationProblem([]string{"base", "reception", "ward", "lab"},
			[][2]string{{"base", "reception"}, {"ward", "lab"}}, true, "base", "lab"), true},
		{"one-way against travel", testutils.NavigationProblem([]string{"a", "b"},
			[][2]string{{"b", "a"}}, false, "a", "b"), true},
		{"already there", testutils.Chain("base"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutils.MustProblem(t, testutils.NavigationDomain(), tt.spec)
			fs, err := invariant.Reachability{Adjacency: "connected", Location: "at"}.Check(context.Background(), p)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFatal, fs.Fatal())
		})
	}
}

func TestReachability_SkipsDynamicAdjacency(t *testing.T) {
	d := testutils.NavigationDomain()
	d.Actions = append(d.Actions, domain.ActionSpec{
		Name:   "build-corridor",
		Params: []domain.Param{{Name: "?a", Type: "location"}, {Name: "?b", Type: "location"}},
		Add:    []domain.Literal{domain.Pos("connected", "?a", "?b")},
	})
	p := testutils.MustProblem(t, d, testutils.NavigationProblem([]string{"a", "b"}, nil, true, "a", "b"))

	fs, err := invariant.Reachability{Adjacency: "connected", Location: "at"}.Check(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.False(t, fs.Fatal())
	assert.Contains(t, fs[0].Message, "skipped")
}

func TestReachability_SkipsOtherMoves(t *testing.T) {
	p := testutils.MustProblem(t, testutils.TeleportDomain(), testutils.PortalProblem())

	fs, err := invariant.Reachability{Adjacency: "connected", Location: "at"}.Check(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.False(t, fs.Fatal())
	assert.Equal(t, invariant.SeverityWarning, fs[0].Severity)
	assert.Contains(t, fs[0].Message, "skipped")
}

func TestRun_Navigation(t *testing.T) {
	spec := testutils.NavigationProblem([]string{"base", "pharmacy", "storage"},
		[][2]string{{"base", "pharmacy"}}, false, "base", "pharmacy")
	p := testutils.MustProblem(t, testutils.NavigationDomain(), spec)

	fs, err := invariant.Run(context.Background(), p, invariant.Navigation("connected", "at")...)
	require.NoError(t, err)
	assert.False(t, fs.Fatal())

	checks := map[string]int{}
	for _, f := range fs {
		checks[f.Check]++
	}
	assert.Equal(t, map[string]int{"symmetry": 1, "isolated": 1}, checks)
	assert.Len(t, fs.Messages(), 2)

	_, err = invariant.Run(context.Background(), p, invariant.Symmetry{Predicate: "missing"})
	assert.Error(t, err)
}
