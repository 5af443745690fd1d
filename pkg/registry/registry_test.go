package registry_test

import (
	"sync"
	"testing"

	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ProblemBinding(t *testing.T) {
	r := registry.New()
	_, err := r.Load(testutils.NavigationDomain())
	require.NoError(t, err)
	_, err = r.Load(testutils.GripperDomain())
	require.NoError(t, err)
	assert.Equal(t, []string{"gripper", "navigation"}, r.Names())

	p, err := r.Problem(testutils.Chain("base", "pharmacy"))
	require.NoError(t, err)
	assert.Equal(t, "navigation", p.Domain().Name)

	spec := testutils.Chain("base", "pharmacy")
	spec.Domain = "logistics"
	_, err = r.Problem(spec)
	var problemErr *domain.ProblemError
	require.ErrorAs(t, err, &problemErr)
	assert.ErrorIs(t, err, domain.ErrUnknownDomain)
}

func TestRegistry_LoadRejectsInvalid(t *testing.T) {
	r := registry.New()
	spec := testutils.NavigationDomain()
	spec.Actions[0].Params[0].Type = "droid"

	_, err := r.Load(spec)
	var schemaErr *domain.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
	assert.Empty(t, r.Names())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := registry.New()
	d, err := domain.NewDomain(testutils.NavigationDomain())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register(d)
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Domain("navigation")
		}()
	}
	wg.Wait()

	got, err := r.Domain("navigation")
	require.NoError(t, err)
	assert.Same(t, d, got)
}
