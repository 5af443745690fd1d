package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/adapters/sqlite"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "history", "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	ports.RunReportStoreContract(t, openStore(t))
}

func TestSQLiteStore_ListByOutcome(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Save(ctx, &domain.Report{ID: "a", Outcome: domain.OutcomeSolved, CreatedAt: now.Add(-time.Second)}))
	require.NoError(t, store.Save(ctx, &domain.Report{ID: "b", Outcome: domain.OutcomeUnreachable, CreatedAt: now}))
	require.NoError(t, store.Save(ctx, &domain.Report{ID: "c", Outcome: domain.OutcomeSolved, CreatedAt: now}))

	ids, err := store.ListByOutcome(ctx, domain.OutcomeSolved)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids)

	// saving again replaces the row
	require.NoError(t, store.Save(ctx, &domain.Report{ID: "a", Outcome: domain.OutcomeBudgetExceeded, CreatedAt: now}))
	ids, err = store.ListByOutcome(ctx, domain.OutcomeSolved)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids)
}
