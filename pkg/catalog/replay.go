// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// Apply replays one migration unit's statements into the catalog, in
// source order. Replay is deterministic and strictly sequential; it also
// back-fills AlterColumnType.OldType from the pre-action column state for
// downstream rule use.
func Apply(c *Catalog, statements []ir.Located[ir.Node]) {
	for _, stmt := range statements {
		applyNode(c, stmt.Node)
	}
}

func applyNode(c *Catalog, node ir.Node) {
	switch n := node.(type) {
	case *ir.CreateTable:
		applyCreateTable(c, n)
	case *ir.AlterTable:
		applyAlterTable(c, n)
	case *ir.CreateIndex:
		applyCreateIndex(c, n)
	case *ir.DropIndex:
		c.removeIndex(n.IndexName)
	case *ir.DropTable:
		c.removeTable(n.Name.CatalogKey())
	case *ir.DropSchema:
		c.removeSchema(n.Name)
	case *ir.RenameTable:
		// Rebuild the key in the same schema; the derived key cache is
		// recomputed through the constructor.
		newName := ir.Unqualified(n.NewName)
		if n.Name.Schema != "" {
			newName = ir.Qualified(n.Name.Schema, n.NewName)
		}
		c.renameTable(n.Name.CatalogKey(), newName.CatalogKey(), n.NewName)
	case *ir.RenameColumn:
		if t := c.GetTable(n.Table.CatalogKey()); t != nil {
			if col, ok := t.Columns[n.OldName]; ok {
				delete(t.Columns, n.OldName)
				t.Columns[n.NewName] = col
			}
		}
	case *ir.AlterIndexAttachPartition:
		// The parent is no longer a pure ON ONLY stub, and the child
		// index is attached.
		if idx := c.GetIndex(n.ParentIndex); idx != nil {
			idx.Only = false
		}
		if idx := c.GetIndex(n.ChildIndex); idx != nil {
			idx.Only = false
		}
	case *ir.Unparseable:
		if n.TableHint != "" {
			markIncompleteByHint(c, n.TableHint)
		}
	case *ir.TruncateTable, *ir.InsertInto, *ir.UpdateTable, *ir.DeleteFrom,
		*ir.Cluster, *ir.Ignored:
		// No schema-shape effect.
	}
}

func applyCreateTable(c *Catalog, ct *ir.CreateTable) {
	key := ct.Name.CatalogKey()
	if c.HasTable(key) {
		// CREATE TABLE IF NOT EXISTS over an existing table is a no-op;
		// a plain CREATE would fail at deploy time, so replay keeps the
		// existing state either way.
		return
	}

	t := &TableState{
		DisplayName:   ct.Name.DisplayName(),
		Columns:       make(map[string]ColumnState, len(ct.Columns)),
		IsPartitioned: ct.PartitionBy != nil,
	}
	if ct.PartitionOf != nil {
		t.ParentTable = ct.PartitionOf.CatalogKey()
	}

	for _, col := range ct.Columns {
		t.Columns[col.Name] = ColumnState{Type: col.TypeName, Nullable: col.Nullable}
	}
	for _, constraint := range ct.Constraints {
		addConstraint(c, t, constraint)
	}

	c.addTable(key, t)
}

func applyAlterTable(c *Catalog, at *ir.AlterTable) {
	key := at.Name.CatalogKey()
	t := c.GetTable(key)
	if t == nil {
		return
	}

	for _, action := range at.Actions {
		switch a := action.(type) {
		case *ir.AddColumn:
			t.Columns[a.Column.Name] = ColumnState{
				Type:     a.Column.TypeName,
				Nullable: a.Column.Nullable,
			}
		case *ir.DropColumn:
			delete(t.Columns, a.Name)
		case *ir.AddConstraint:
			addConstraint(c, t, a.Constraint)
		case *ir.DropConstraint:
			dropConstraint(t, a.Name, at.Name.Name)
		case *ir.ValidateConstraint:
			validateConstraint(t, a.Name)
		case *ir.AlterColumnType:
			if col, ok := t.Columns[a.ColumnName]; ok {
				old := col.Type
				a.OldType = &old
				col.Type = a.NewType
				t.Columns[a.ColumnName] = col
			}
		case *ir.SetNotNull:
			if col, ok := t.Columns[a.ColumnName]; ok {
				col.Nullable = false
				t.Columns[a.ColumnName] = col
			}
		case *ir.DropNotNull:
			if col, ok := t.Columns[a.ColumnName]; ok {
				col.Nullable = true
				t.Columns[a.ColumnName] = col
			}
		case *ir.AttachPartition:
			t.IsPartitioned = true
			childKey := a.Child.CatalogKey()
			child := c.GetTable(childKey)
			if child == nil {
				// A child the history never created: track the relation
				// lazily without fabricating columns.
				child = &TableState{
					DisplayName: a.Child.DisplayName(),
					Columns:     make(map[string]ColumnState),
					Incomplete:  true,
				}
				c.addTable(childKey, child)
			}
			child.ParentTable = key
			// Indexes on the child are attached to the parent's index
			// tree; they are no longer standalone ON ONLY stubs.
			for _, idxName := range child.Indexes {
				if idx := c.GetIndex(idxName); idx != nil {
					idx.Only = false
				}
			}
		case *ir.DetachPartition:
			if child := c.GetTable(a.Child.CatalogKey()); child != nil {
				child.ParentTable = ""
			}
		case *ir.DisableTrigger, *ir.OtherAction:
			// No schema-shape effect.
		}
	}
}

func applyCreateIndex(c *Catalog, ci *ir.CreateIndex) {
	if ci.IndexName == "" {
		// Unnamed indexes get a system-generated name we cannot predict;
		// nothing to key the reverse map on.
		return
	}
	if c.GetIndex(ci.IndexName) != nil {
		// IF NOT EXISTS over an existing index is a no-op; a plain
		// CREATE would fail, so state stays as-is either way.
		return
	}
	c.addIndex(ci.TableName.CatalogKey(), ci.IndexName, &IndexState{
		Unique:       ci.Unique,
		Only:         ci.Only,
		AccessMethod: ci.AccessMethod,
		Columns:      append([]ir.IndexColumn(nil), ci.Columns...),
		IsPartial:    ci.WhereClause != "",
	})
}

// addConstraint records a constraint on the table, updating primary-key
// state. USING INDEX constraints derive their columns from the referenced
// index at lookup time, not here.
func addConstraint(c *Catalog, t *TableState, constraint ir.TableConstraint) {
	name := ""
	switch cn := constraint.(type) {
	case *ir.PrimaryKeyConstraint:
		t.HasPrimaryKey = true
		for _, col := range cn.Columns {
			if state, ok := t.Columns[col]; ok {
				state.Nullable = false
				t.Columns[col] = state
			}
		}
	case *ir.ForeignKeyConstraint:
		name = cn.Name
	case *ir.UniqueConstraint:
		name = cn.Name
	case *ir.CheckConstraint:
		name = cn.Name
	}
	t.Constraints = append(t.Constraints, NamedConstraint{Name: name, Constraint: constraint})
}

// dropConstraint removes a constraint by name. Primary keys are matched
// either by their stored name or by PostgreSQL's default "<table>_pkey".
func dropConstraint(t *TableState, name, tableName string) {
	for i, nc := range t.Constraints {
		isPK := false
		if _, ok := nc.Constraint.(*ir.PrimaryKeyConstraint); ok {
			isPK = true
		}
		match := nc.Name == name || (isPK && name == tableName+"_pkey")
		if !match {
			continue
		}
		t.Constraints = append(t.Constraints[:i], t.Constraints[i+1:]...)
		if isPK {
			t.HasPrimaryKey = hasPrimaryKey(t)
		}
		return
	}
}

func hasPrimaryKey(t *TableState) bool {
	for _, nc := range t.Constraints {
		if _, ok := nc.Constraint.(*ir.PrimaryKeyConstraint); ok {
			return true
		}
	}
	return false
}

func validateConstraint(t *TableState, name string) {
	for i, nc := range t.Constraints {
		if nc.Name != name {
			continue
		}
		switch cn := nc.Constraint.(type) {
		case *ir.ForeignKeyConstraint:
			validated := *cn
			validated.NotValid = false
			t.Constraints[i].Constraint = &validated
		case *ir.CheckConstraint:
			validated := *cn
			validated.NotValid = false
			t.Constraints[i].Constraint = &validated
		}
		return
	}
}

// markIncompleteByHint resolves a best-effort table hint: first as a
// catalog key, then by matching bare table names across schemas.
func markIncompleteByHint(c *Catalog, hint string) {
	if t := c.GetTable(hint); t != nil {
		t.Incomplete = true
		return
	}
	for key, t := range c.tables {
		if key == hint || t.DisplayName == hint || hasNameSuffix(key, hint) {
			t.Incomplete = true
		}
	}
}

func hasNameSuffix(key, name string) bool {
	return len(key) > len(name)+1 && key[len(key)-len(name):] == name && key[len(key)-len(name)-1] == '.'
}
