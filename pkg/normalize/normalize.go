// SPDX-License-Identifier: Apache-2.0

// Package normalize rewrites unqualified names in IR statements to use a
// configured default schema, so catalog keys are uniformly
// "schema.name". It runs once over a history before replay.
package normalize

import (
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// Statements assigns the default schema to every unqualified
// QualifiedName reachable from the given statements. Names the user
// qualified explicitly are untouched; synthesized schemas are flagged so
// display names stay as the user wrote them.
func Statements(statements []ir.Located[ir.Node], defaultSchema string) {
	for _, stmt := range statements {
		node(stmt.Node, defaultSchema)
	}
}

func node(n ir.Node, def string) {
	switch n := n.(type) {
	case *ir.CreateTable:
		n.Name.SetDefaultSchema(def)
		if n.PartitionOf != nil {
			n.PartitionOf.SetDefaultSchema(def)
		}
		for _, c := range n.Constraints {
			constraint(c, def)
		}
	case *ir.AlterTable:
		n.Name.SetDefaultSchema(def)
		for _, a := range n.Actions {
			action(a, def)
		}
	case *ir.CreateIndex:
		n.TableName.SetDefaultSchema(def)
	case *ir.DropTable:
		n.Name.SetDefaultSchema(def)
	case *ir.TruncateTable:
		n.Name.SetDefaultSchema(def)
	case *ir.InsertInto:
		n.TableName.SetDefaultSchema(def)
	case *ir.UpdateTable:
		n.TableName.SetDefaultSchema(def)
	case *ir.DeleteFrom:
		n.TableName.SetDefaultSchema(def)
	case *ir.Cluster:
		n.Table.SetDefaultSchema(def)
	case *ir.RenameTable:
		n.Name.SetDefaultSchema(def)
	case *ir.RenameColumn:
		n.Table.SetDefaultSchema(def)
	}
}

func action(a ir.AlterTableAction, def string) {
	switch a := a.(type) {
	case *ir.AddConstraint:
		constraint(a.Constraint, def)
	case *ir.AttachPartition:
		a.Child.SetDefaultSchema(def)
	case *ir.DetachPartition:
		a.Child.SetDefaultSchema(def)
	}
}

func constraint(c ir.TableConstraint, def string) {
	if fk, ok := c.(*ir.ForeignKeyConstraint); ok {
		fk.RefTable.SetDefaultSchema(def)
	}
}
