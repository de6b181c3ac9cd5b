package plotcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedEntry lays out a fake published entry: category -> file names.
// Empty file lists create the directory with no contents.
func seedEntry(t *testing.T, layout map[string][]string) string {
	t.Helper()

	root := t.TempDir()
	for category, files := range layout {
		dir := filepath.Join(root, category)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		for _, name := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644))
		}
	}

	return root
}

func TestIndexer_GroupsByCategory(t *testing.T) {
	root := seedEntry(t, map[string][]string{
		"unit":  {"b.png", "a.png"},
		"bench": {"latency.png"},
	})

	got, err := NewIndexer().Index(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, Categories{
		"unit":  {"a.png", "b.png"},
		"bench": {"latency.png"},
	}, got)
}

func TestIndexer_CaseInsensitiveExtensions(t *testing.T) {
	root := seedEntry(t, map[string][]string{
		"unit": {"a.png", "b.PNG", "notes.txt"},
		"lint": {"report.txt"},
	})

	got, err := NewIndexer().Index(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, Categories{"unit": {"a.png", "b.PNG"}}, got)
}

func TestIndexer_EmptyCategoriesOmitted(t *testing.T) {
	root := seedEntry(t, map[string][]string{
		"unit":  {"a.png"},
		"empty": {},
	})

	got, err := NewIndexer().Index(context.Background(), root)

	require.NoError(t, err)
	assert.NotContains(t, got, "empty")
	assert.Contains(t, got, "unit")
}

func TestIndexer_TopLevelFilesIgnored(t *testing.T) {
	root := seedEntry(t, map[string][]string{"unit": {"a.png"}})
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.png"), []byte("img"), 0o644))

	got, err := NewIndexer().Index(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, Categories{"unit": {"a.png"}}, got)
}

func TestIndexer_DeepNestingIgnored(t *testing.T) {
	root := seedEntry(t, map[string][]string{
		"unit":        {"a.png"},
		"unit/nested": {"deep.png"},
	})

	got, err := NewIndexer().Index(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, Categories{"unit": {"a.png"}}, got)
}

func TestIndexer_MissingPathYieldsEmpty(t *testing.T) {
	got, err := NewIndexer().Index(context.Background(), filepath.Join(t.TempDir(), "nope"))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIndexer_CustomExtensions(t *testing.T) {
	root := seedEntry(t, map[string][]string{
		"unit": {"a.png", "b.svg", "c.txt"},
	})

	got, err := NewIndexer(".png", ".svg").Index(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, Categories{"unit": {"a.png", "b.svg"}}, got)
}
