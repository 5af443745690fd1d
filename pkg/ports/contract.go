package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractReport(id string, created time.Time) *domain.Report {
	return &domain.Report{
		ID:       id,
		Domain:   "navigation",
		Problem:  "nav-base-room",
		Strategy: "bfs",
		Outcome:  domain.OutcomeSolved,
		Plan: []domain.Step{
			{Action: "navigate", Args: []string{"r1", "base", "reception"}},
			{Action: "navigate", Args: []string{"r1", "reception", "room"}},
		},
		Warnings:  []string{"[warning] symmetry: (connected a b) has no inverse (connected b a)"},
		Stats:     domain.SearchStats{Expanded: 3, Generated: 5},
		CreatedAt: created,
	}
}

// RunReportStoreContract runs a suite of tests to verify that a ReportStore
// implementation adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		report := contractReport(prefix, time.Now().UTC().Truncate(time.Second))
		require.NoError(t, store.Save(ctx, report), "Save should not return error")

		loaded, err := store.Load(ctx, report.ID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report.Outcome, loaded.Outcome)
		assert.Equal(t, report.Plan, loaded.Plan)
		assert.Equal(t, report.Warnings, loaded.Warnings)
		assert.Equal(t, report.Stats.Expanded, loaded.Stats.Expanded)
		assert.True(t, report.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, prefix)
		require.NoError(t, err)
		loaded.Plan[0].Action = "mutated"

		again, err := store.Load(ctx, prefix)
		require.NoError(t, err)
		assert.Equal(t, "navigate", again.Plan[0].Action)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+prefix)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, prefix), "Delete should not return error")

		_, err := store.Load(ctx, prefix)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, "Load after Delete should return ErrReportNotFound")
	})

	t.Run("List", func(t *testing.T) {
		older := prefix + "-1"
		newer := prefix + "-2"
		now := time.Now().UTC()
		require.NoError(t, store.Save(ctx, contractReport(older, now.Add(-time.Minute))))
		require.NoError(t, store.Save(ctx, contractReport(newer, now)))
		defer func() {
			_ = store.Delete(ctx, older)
			_ = store.Delete(ctx, newer)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, older)
		assert.Contains(t, ids, newer)

		posOlder, posNewer := -1, -1
		for i, id := range ids {
			switch id {
			case older:
				posOlder = i
			case newer:
				posNewer = i
			}
		}
		assert.Less(t, posNewer, posOlder, "most recent report first")
	})
}

// RunDefinitionLoaderContract verifies a loader seeded with a navigation
// domain under domainID and a problem for it under problemID.
func RunDefinitionLoaderContract(t *testing.T, loader DefinitionLoader, domainID, problemID string) {
	ctx := context.Background()

	t.Run("Load domain and problem", func(t *testing.T) {
		dspec, err := loader.LoadDomain(ctx, domainID)
		require.NoError(t, err)
		d, err := domain.NewDomain(dspec)
		require.NoError(t, err)

		pspec, err := loader.LoadProblem(ctx, problemID)
		require.NoError(t, err)
		_, err = domain.NewProblem(d, pspec)
		require.NoError(t, err)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := loader.LoadDomain(ctx, "missing-domain")
		assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
		_, err = loader.LoadProblem(ctx, "missing-problem")
		assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		refs, err := loader.List(ctx)
		require.NoError(t, err)

		kinds := make(map[string]Kind)
		for _, r := range refs {
			kinds[r.ID] = r.Kind
		}
		assert.Equal(t, KindDomain, kinds[domainID])
		assert.Equal(t, KindProblem, kinds[problemID])
	})
}
