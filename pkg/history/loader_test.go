// SPDX-License-Identifier: Apache-2.0

package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

func TestSQLLoaderSortsByFilename(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"002_second.sql": "CREATE TABLE b (id int);",
		"001_first.sql":  "CREATE TABLE a (id int);",
		"010_tenth.sql":  "CREATE TABLE c (id int);",
		"notes.txt":      "not a migration",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	h, err := NewSQLLoader(true).Load([]string{dir})
	require.NoError(t, err)
	require.Len(t, h.Units, 3)

	assert.Equal(t, "001_first.sql", filepath.Base(h.Units[0].SourceFile))
	assert.Equal(t, "002_second.sql", filepath.Base(h.Units[1].SourceFile))
	assert.Equal(t, "010_tenth.sql", filepath.Base(h.Units[2].SourceFile))

	for _, unit := range h.Units {
		assert.True(t, unit.RunInTransaction)
		assert.False(t, unit.IsDown)
		require.Len(t, unit.Statements, 1)
		_, ok := unit.Statements[0].Node.(*ir.CreateTable)
		assert.True(t, ok)
	}
}

func TestSQLLoaderMarksDownMigrations(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_x.down.sql"), []byte("DROP TABLE a;"), 0o644))

	h, err := NewSQLLoader(false).Load([]string{dir})
	require.NoError(t, err)
	require.Len(t, h.Units, 1)
	assert.True(t, h.Units[0].IsDown)
	assert.False(t, h.Units[0].RunInTransaction)
}

func TestSQLLoaderAcceptsSingleFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "standalone.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE a (id int);"), 0o644))

	h, err := NewSQLLoader(true).Load([]string{path})
	require.NoError(t, err)
	assert.Len(t, h.Units, 1)
}

func TestSQLLoaderMissingPathIsError(t *testing.T) {
	_, err := NewSQLLoader(true).Load([]string{"does/not/exist"})
	assert.Error(t, err)
}
