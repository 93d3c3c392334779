package emit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector-generator/internal/analyze"
	"projector-generator/internal/plan"
)

func TestCache_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cachePath := filepath.Join(dir, ".cache", "projector.yaml")
	out := filepath.Join(dir, "view_projection.go")
	content := []byte("package warehouse\n")

	c, err := LoadCache(cachePath)
	require.NoError(t, err)
	assert.Empty(t, c.Files)
	assert.False(t, c.Fresh(out, "fp"))

	require.NoError(t, os.WriteFile(out, content, filePerm))
	c.Record(out, "fp", content)
	assert.True(t, c.Fresh(out, "fp"))
	assert.False(t, c.Fresh(out, "other"))
	require.NoError(t, c.Save())

	loaded, err := LoadCache(cachePath)
	require.NoError(t, err)
	assert.True(t, loaded.Fresh(out, "fp"))

	// Hand edits invalidate the entry.
	require.NoError(t, os.WriteFile(out, []byte("package edited\n"), filePerm))
	assert.False(t, loaded.Fresh(out, "fp"))

	loaded.Prune(nil)
	assert.Empty(t, loaded.Files)
}

func TestLoadCache_Invalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	stale := filepath.Join(dir, "stale.yaml")
	require.NoError(t, os.WriteFile(stale, []byte("version: \"0\"\nfiles:\n  a.go: {fingerprint: x, content: y}\n"), filePerm))
	c, err := LoadCache(stale)
	require.NoError(t, err)
	assert.Empty(t, c.Files)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("files: [\n"), filePerm))
	_, err = LoadCache(broken)
	require.Error(t, err)
}

func TestEntryFingerprint(t *testing.T) {
	t.Parallel()

	target := analyze.NewTypeID(testWarehouse, "View")
	dep := analyze.NewTypeID(testWarehouse, "Card")

	entry := func(depProps ...plan.PropertyMapping) plan.ProjectionDependencies {
		return plan.ProjectionDependencies{
			Projection: &plan.Projection{Target: target, Constructor: &plan.ConstructorMapping{}},
			Dependencies: map[analyze.TypeID]*plan.Projection{
				dep: {Target: dep, Properties: depProps},
			},
		}
	}

	a, b := entry(), entry()
	assert.Equal(t, EntryFingerprint(a), EntryFingerprint(b))

	// A change in an inlined dependency changes the entry.
	c := entry(plan.IgnoredMapping{Name: "X"})
	assert.NotEqual(t, EntryFingerprint(a), EntryFingerprint(c))
}
