// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// Builder constructs catalog fixtures for tests without going through
// SQL. Construction mirrors replay so invariants hold on the result.
type Builder struct {
	catalog *Catalog
}

// NewBuilder creates an empty catalog builder.
func NewBuilder() *Builder {
	return &Builder{catalog: New()}
}

// Table adds a table under the given catalog key and configures it
// through the callback.
func (b *Builder) Table(key string, fn func(*TableBuilder)) *Builder {
	t := &TableState{
		DisplayName: key,
		Columns:     make(map[string]ColumnState),
	}
	b.catalog.addTable(key, t)
	fn(&TableBuilder{catalog: b.catalog, key: key, table: t})
	return b
}

// Build returns the constructed catalog.
func (b *Builder) Build() *Catalog {
	return b.catalog
}

// TableBuilder configures a single table within a Builder.
type TableBuilder struct {
	catalog *Catalog
	key     string
	table   *TableState
}

// Column adds a column with the given type and nullability.
func (t *TableBuilder) Column(name, typeName string, nullable bool) *TableBuilder {
	t.table.Columns[name] = ColumnState{Type: ir.SimpleType(typeName), Nullable: nullable}
	return t
}

// PK adds a primary key over the given columns.
func (t *TableBuilder) PK(columns ...string) *TableBuilder {
	addConstraint(t.catalog, t.table, &ir.PrimaryKeyConstraint{Columns: columns})
	return t
}

// Unique adds a named unique constraint over the given columns.
func (t *TableBuilder) Unique(name string, columns ...string) *TableBuilder {
	addConstraint(t.catalog, t.table, &ir.UniqueConstraint{Name: name, Columns: columns})
	return t
}

// ForeignKey adds a named foreign key.
func (t *TableBuilder) ForeignKey(name string, columns []string, refTable string, refColumns []string) *TableBuilder {
	addConstraint(t.catalog, t.table, &ir.ForeignKeyConstraint{
		Name:       name,
		Columns:    columns,
		RefTable:   ir.Unqualified(refTable),
		RefColumns: refColumns,
	})
	return t
}

// Index adds an index over plain columns.
func (t *TableBuilder) Index(name string, columns []string, unique bool) *TableBuilder {
	return t.addIndex(name, columns, unique, false, "btree", false)
}

// OnlyIndex adds an ON ONLY parent stub index.
func (t *TableBuilder) OnlyIndex(name string, columns []string, unique bool) *TableBuilder {
	return t.addIndex(name, columns, unique, true, "btree", false)
}

// PartialIndex adds an index with a WHERE predicate.
func (t *TableBuilder) PartialIndex(name string, columns []string, unique bool) *TableBuilder {
	return t.addIndex(name, columns, unique, false, "btree", true)
}

// MethodIndex adds an index with an explicit access method.
func (t *TableBuilder) MethodIndex(name string, columns []string, method string) *TableBuilder {
	return t.addIndex(name, columns, false, false, method, false)
}

// ExpressionIndex adds an expression index with its referenced columns.
func (t *TableBuilder) ExpressionIndex(name, expression string, referenced []string) *TableBuilder {
	t.catalog.addIndex(t.key, name, &IndexState{
		AccessMethod: "btree",
		Columns: []ir.IndexColumn{{
			Expression:        expression,
			ReferencedColumns: referenced,
		}},
	})
	return t
}

// PartitionedBy marks the table as a partitioned parent.
func (t *TableBuilder) PartitionedBy(strategy ir.PartitionStrategy, columns ...string) *TableBuilder {
	t.table.IsPartitioned = true
	return t
}

// PartitionOf marks the table as a partition child of the given parent.
func (t *TableBuilder) PartitionOf(parentKey string) *TableBuilder {
	t.table.ParentTable = parentKey
	return t
}

// Incomplete marks the table incomplete.
func (t *TableBuilder) Incomplete() *TableBuilder {
	t.table.Incomplete = true
	return t
}

func (t *TableBuilder) addIndex(name string, columns []string, unique, only bool, method string, partial bool) *TableBuilder {
	cols := make([]ir.IndexColumn, len(columns))
	for i, c := range columns {
		cols[i] = ir.IndexColumn{Name: c}
	}
	t.catalog.addIndex(t.key, name, &IndexState{
		Unique:       unique,
		Only:         only,
		AccessMethod: method,
		Columns:      cols,
		IsPartial:    partial,
	})
	return t
}
