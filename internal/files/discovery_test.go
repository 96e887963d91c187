package files

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("id\n1\n"), 0644))
}

func TestDiscover_DirNotFound(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, brix.ErrDirNotFound), "expected ErrDirNotFound, got: %v", err)
}

func TestDiscover_FileIsNotADirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "data.csv")

	_, err := Discover(filepath.Join(dir, "data.csv"))
	assert.True(t, errors.Is(err, brix.ErrDirNotFound))
}

func TestDiscover_SortedCSVOnly(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "parts.csv")
	touch(t, dir, "colors.csv")
	touch(t, dir, "readme.txt")
	touch(t, dir, "themes.CSV") // extension matching is case-insensitive
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0755))

	sources, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "colors", sources[0].Table)
	assert.Equal(t, "parts", sources[1].Table)
	assert.Equal(t, "themes", sources[2].Table)
}

func TestDiscover_SanitizesTableNames(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "inventory parts.csv")
	touch(t, dir, "2023-sets.csv")

	sources, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "_2023_sets", sources[0].Table)
	assert.Equal(t, "inventory_parts", sources[1].Table)
}

func TestDiscover_DeduplicatesCollidingNames(t *testing.T) {
	// part num.csv, part-num.csv and part_num.csv all sanitize to part_num.
	dir := t.TempDir()
	touch(t, dir, "part num.csv")
	touch(t, dir, "part-num.csv")
	touch(t, dir, "part_num.csv")

	sources, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, sources, 3)

	names := map[string]bool{}
	for _, s := range sources {
		assert.False(t, names[s.Table], "duplicate table name %q", s.Table)
		names[s.Table] = true
	}
	assert.True(t, names["part_num"])
	assert.True(t, names["part_num_2"])
	assert.True(t, names["part_num_3"])
}

func TestDiscover_EmptyDir(t *testing.T) {
	sources, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, sources)
}
