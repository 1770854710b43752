// SPDX-License-Identifier: Apache-2.0

// Package catalog maintains the virtual schema state built by replaying
// migration history. It tracks the minimum required for the rule
// predicates: tables, columns, indexes, constraints, primary-key state,
// and partition relations.
package catalog

import (
	"strings"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// Catalog is the virtual schema. Keys are catalog keys ("schema.name"
// after normalization). A reverse index maps index names to the owning
// table's catalog key for O(1) lookup.
type Catalog struct {
	tables     map[string]*TableState
	indexes    map[string]*IndexState
	indexOwner map[string]string
}

// TableState is the tracked state of one table.
type TableState struct {
	// DisplayName is the user-facing name used in messages.
	DisplayName string
	// Columns maps column name to its tracked state.
	Columns map[string]ColumnState
	// Constraints holds the table's constraints in addition order.
	Constraints []NamedConstraint
	// Indexes lists the names of indexes on this table.
	Indexes []string
	// HasPrimaryKey is true iff the constraint list contains at least one
	// primary key that has not been dropped.
	HasPrimaryKey bool
	// IsPartitioned is true for declaratively partitioned parents.
	IsPartitioned bool
	// ParentTable is the parent's catalog key for partition children.
	ParentTable string
	// Incomplete is set when an unparseable statement hinted at this
	// table; rules may soften or suppress on incomplete tables.
	Incomplete bool
}

// ColumnState is the tracked state of one column.
type ColumnState struct {
	Type     ir.TypeName
	Nullable bool
}

// NamedConstraint pairs a constraint with its resolved name so drops can
// match it. Name is empty for unnamed constraints.
type NamedConstraint struct {
	Name       string
	Constraint ir.TableConstraint
}

// IndexState is the tracked state of one index.
type IndexState struct {
	Unique bool
	// Only is true for ON ONLY parent stubs that have not had partitions
	// attached yet.
	Only         bool
	AccessMethod string
	Columns      []ir.IndexColumn
	// IsPartial is true when the index has a WHERE predicate.
	IsPartial bool
}

// IsBtree reports whether the index uses the btree access method.
func (i *IndexState) IsBtree() bool {
	return i.AccessMethod == "" || i.AccessMethod == "btree"
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		tables:     make(map[string]*TableState),
		indexes:    make(map[string]*IndexState),
		indexOwner: make(map[string]string),
	}
}

// GetTable returns the table for a catalog key, or nil.
func (c *Catalog) GetTable(key string) *TableState {
	return c.tables[key]
}

// HasTable reports whether a catalog key resolves to a table.
func (c *Catalog) HasTable(key string) bool {
	_, ok := c.tables[key]
	return ok
}

// GetIndex returns the index state for an index name, or nil.
func (c *Catalog) GetIndex(name string) *IndexState {
	return c.indexes[name]
}

// TableForIndex returns the catalog key of the table owning the named
// index, or "" when the index is unknown.
func (c *Catalog) TableForIndex(name string) string {
	return c.indexOwner[name]
}

// Tables returns the set of catalog keys currently present.
func (c *Catalog) Tables() []string {
	keys := make([]string, 0, len(c.tables))
	for k := range c.tables {
		keys = append(keys, k)
	}
	return keys
}

// Clone returns a deep copy of the catalog. The copy is handed to rules
// as the pre-unit snapshot, so it must not share mutable state with the
// live catalog. Constraint and index-column values are immutable after
// conversion and are shared.
func (c *Catalog) Clone() *Catalog {
	out := New()
	for key, t := range c.tables {
		nt := &TableState{
			DisplayName:   t.DisplayName,
			Columns:       make(map[string]ColumnState, len(t.Columns)),
			Constraints:   append([]NamedConstraint(nil), t.Constraints...),
			Indexes:       append([]string(nil), t.Indexes...),
			HasPrimaryKey: t.HasPrimaryKey,
			IsPartitioned: t.IsPartitioned,
			ParentTable:   t.ParentTable,
			Incomplete:    t.Incomplete,
		}
		for name, col := range t.Columns {
			nt.Columns[name] = col
		}
		out.tables[key] = nt
	}
	for name, idx := range c.indexes {
		ni := *idx
		ni.Columns = append([]ir.IndexColumn(nil), idx.Columns...)
		out.indexes[name] = &ni
	}
	for name, owner := range c.indexOwner {
		out.indexOwner[name] = owner
	}
	return out
}

// addTable inserts a table under the given key.
func (c *Catalog) addTable(key string, t *TableState) {
	if t.Columns == nil {
		t.Columns = make(map[string]ColumnState)
	}
	c.tables[key] = t
}

// removeTable drops a table and every index registered on it.
func (c *Catalog) removeTable(key string) {
	t, ok := c.tables[key]
	if !ok {
		return
	}
	for _, idx := range t.Indexes {
		delete(c.indexes, idx)
		delete(c.indexOwner, idx)
	}
	delete(c.tables, key)
}

// removeSchema drops every table whose catalog key lives in the schema,
// eagerly purging their indexes from the reverse map.
func (c *Catalog) removeSchema(schema string) {
	prefix := schema + "."
	for key := range c.tables {
		if strings.HasPrefix(key, prefix) {
			c.removeTable(key)
		}
	}
}

// addIndex registers an index on a table, maintaining the reverse map. A
// stub table marked incomplete is created when the owner is unknown, so
// the reverse-map invariant holds under incremental analysis.
func (c *Catalog) addIndex(tableKey, name string, idx *IndexState) {
	t, ok := c.tables[tableKey]
	if !ok {
		t = &TableState{
			DisplayName: tableKey,
			Columns:     make(map[string]ColumnState),
			Incomplete:  true,
		}
		c.tables[tableKey] = t
	}
	c.indexes[name] = idx
	c.indexOwner[name] = tableKey
	t.Indexes = append(t.Indexes, name)
}

// removeIndex drops an index and its reverse-map entry.
func (c *Catalog) removeIndex(name string) {
	owner, ok := c.indexOwner[name]
	if ok {
		if t := c.tables[owner]; t != nil {
			for i, idx := range t.Indexes {
				if idx == name {
					t.Indexes = append(t.Indexes[:i], t.Indexes[i+1:]...)
					break
				}
			}
		}
	}
	delete(c.indexes, name)
	delete(c.indexOwner, name)
}

// renameTable moves a table to a new key and display name, keeping the
// reverse index map consistent.
func (c *Catalog) renameTable(oldKey, newKey, newDisplay string) {
	t, ok := c.tables[oldKey]
	if !ok {
		return
	}
	delete(c.tables, oldKey)
	t.DisplayName = newDisplay
	c.tables[newKey] = t
	for _, idx := range t.Indexes {
		c.indexOwner[idx] = newKey
	}
	for key, other := range c.tables {
		if other.ParentTable == oldKey {
			c.tables[key].ParentTable = newKey
		}
	}
}

// HasUniqueNotNull reports whether the table carries a UNIQUE NOT NULL
// substitute for a primary key: a unique constraint over NOT NULL
// columns, or a unique non-partial index on NOT NULL columns.
func (t *TableState) HasUniqueNotNull(c *Catalog) bool {
	for _, nc := range t.Constraints {
		u, ok := nc.Constraint.(*ir.UniqueConstraint)
		if !ok || len(u.Columns) == 0 {
			continue
		}
		if t.columnsNotNull(u.Columns) {
			return true
		}
	}
	for _, name := range t.Indexes {
		idx := c.GetIndex(name)
		if idx == nil || !idx.Unique || idx.IsPartial {
			continue
		}
		cols := make([]string, 0, len(idx.Columns))
		plain := true
		for _, col := range idx.Columns {
			if col.IsExpression() {
				plain = false
				break
			}
			cols = append(cols, col.Name)
		}
		if plain && len(cols) > 0 && t.columnsNotNull(cols) {
			return true
		}
	}
	return false
}

func (t *TableState) columnsNotNull(columns []string) bool {
	for _, name := range columns {
		col, ok := t.Columns[name]
		if !ok || col.Nullable {
			return false
		}
	}
	return true
}

// PrimaryKeyColumns returns the columns of the table's primary key, or
// nil when the table has none.
func (t *TableState) PrimaryKeyColumns(c *Catalog) []string {
	for _, nc := range t.Constraints {
		pk, ok := nc.Constraint.(*ir.PrimaryKeyConstraint)
		if !ok {
			continue
		}
		if len(pk.Columns) > 0 {
			return pk.Columns
		}
		if pk.UsingIndex != "" {
			if idx := c.GetIndex(pk.UsingIndex); idx != nil {
				cols := make([]string, 0, len(idx.Columns))
				for _, col := range idx.Columns {
					if !col.IsExpression() {
						cols = append(cols, col.Name)
					}
				}
				return cols
			}
		}
	}
	return nil
}
