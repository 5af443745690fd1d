package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.DefinitionLoader = (*Loader)(nil)

func seed(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	tmpDir, repo := testutils.SetupTestRepo(t)
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o644))
	}
	return New(loam.NewTypedRepository[DefinitionMetadata](repo))
}

func TestLoader_Contract(t *testing.T) {
	loader := seed(t, map[string]string{
		"navigation.md":   "---\n" + testutils.NavigationDomainYAML + "---\nSingle robot moving along connected locations.\n",
		"ward-route.yaml": testutils.WardRouteYAML,
	})
	ports.RunDefinitionLoaderContract(t, loader, "navigation", "ward-route")
}

func TestLoader_List_NormalizesIDs(t *testing.T) {
	loader := seed(t, map[string]string{
		"navigation.md":   "---\n" + testutils.NavigationDomainYAML + "---\n",
		"ward-route.json": testutils.WardRouteJSON,
		"renamed.yaml":    "id: custom.yaml\n" + testutils.WardRouteYAML,
	})

	refs, err := loader.List(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"custom", "navigation", "ward-route"}, ids)
}

func TestLoader_List_DetectsCollisions(t *testing.T) {
	loader := seed(t, map[string]string{
		"foo.yaml": "id: foo\n" + testutils.WardRouteYAML,
		"foo.json": testutils.WardRouteJSON[:1] + `"id": "foo",` + testutils.WardRouteJSON[1:],
	})

	_, err := loader.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "foo")
}

func TestLoader_LoadProblem_WrongKind(t *testing.T) {
	loader := seed(t, map[string]string{
		"navigation.md": "---\n" + testutils.NavigationDomainYAML + "---\n",
	})

	_, err := loader.LoadProblem(context.Background(), "navigation")
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
}

func TestLoader_LoadDomain_AcceptsExtension(t *testing.T) {
	loader := seed(t, map[string]string{
		"navigation.md": "---\n" + testutils.NavigationDomainYAML + "---\n",
	})

	spec, err := loader.LoadDomain(context.Background(), "navigation.md")
	require.NoError(t, err)
	assert.Equal(t, "navigation", spec.Name)
	require.Len(t, spec.Actions, 1)
	assert.Equal(t, "(connected ?from ?to)", spec.Actions[0].Pre[1].String())
}
