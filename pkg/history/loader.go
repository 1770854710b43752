// SPDX-License-Identifier: Apache-2.0

package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/sql2ir"
)

// SQLLoader loads .sql files from one or more directories in
// filename-lexicographic order.
type SQLLoader struct {
	// RunInTransaction is applied to every loaded unit; frameworks that
	// wrap each file in a transaction should leave it true.
	RunInTransaction bool
}

// NewSQLLoader creates a loader with the given default transaction flag.
func NewSQLLoader(runInTransaction bool) *SQLLoader {
	return &SQLLoader{RunInTransaction: runInTransaction}
}

// Load reads every *.sql file under the given paths (directories are
// scanned non-recursively; files are taken as-is), sorts them by base
// filename, and parses each into a unit. Unreadable files are tool
// errors.
func (l *SQLLoader) Load(paths []string) (*History, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat migration path %q: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read migration directory %q: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
				continue
			}
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return filepath.Base(files[i]) < filepath.Base(files[j])
	})

	h := &History{}
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read migration file %q: %w", file, err)
		}
		h.Units = append(h.Units, &Unit{
			SourceFile:       file,
			Statements:       sql2ir.Parse(string(source)),
			RunInTransaction: l.RunInTransaction,
			IsDown:           IsDownFile(file),
		})
	}

	return h, nil
}

// IsDownFile reports whether a filename marks a down/rollback migration.
func IsDownFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(base, ".down.sql") || strings.HasSuffix(base, "_down.sql")
}
