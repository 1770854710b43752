// SPDX-License-Identifier: Apache-2.0

package sql2ir

import (
	pgq "github.com/xataio/pg_query_go/v6"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// convertDrop lowers DROP TABLE, DROP INDEX and DROP SCHEMA. Each target
// becomes its own node so the replay engine applies them independently.
// Drops of other object kinds (types, views, ...) are ignored.
func convertDrop(stmt *pgq.DropStmt, rawSQL string) []ir.Node {
	cascade := stmt.GetBehavior() == pgq.DropBehavior_DROP_CASCADE

	switch stmt.GetRemoveType() {
	case pgq.ObjectType_OBJECT_TABLE:
		var nodes []ir.Node
		for _, obj := range stmt.GetObjects() {
			name, ok := objectQualifiedName(obj)
			if !ok {
				continue
			}
			nodes = append(nodes, &ir.DropTable{
				Name:     name,
				IfExists: stmt.GetMissingOk(),
				Cascade:  cascade,
			})
		}
		return ignoredIfEmpty(nodes, rawSQL)

	case pgq.ObjectType_OBJECT_INDEX:
		var nodes []ir.Node
		for _, obj := range stmt.GetObjects() {
			name, ok := objectQualifiedName(obj)
			if !ok {
				continue
			}
			nodes = append(nodes, &ir.DropIndex{
				IndexName:  name.Name,
				Concurrent: stmt.GetConcurrent(),
				IfExists:   stmt.GetMissingOk(),
			})
		}
		return ignoredIfEmpty(nodes, rawSQL)

	case pgq.ObjectType_OBJECT_SCHEMA:
		var nodes []ir.Node
		for _, obj := range stmt.GetObjects() {
			// Schema names arrive as bare String nodes, not lists.
			if s := obj.GetString_(); s != nil {
				nodes = append(nodes, &ir.DropSchema{
					Name:     s.GetSval(),
					IfExists: stmt.GetMissingOk(),
					Cascade:  cascade,
				})
			}
		}
		return ignoredIfEmpty(nodes, rawSQL)

	default:
		return []ir.Node{&ir.Ignored{RawSQL: rawSQL}}
	}
}

// objectQualifiedName extracts a possibly schema-qualified name from a
// drop object, which arrives as a List of String nodes.
func objectQualifiedName(obj *pgq.Node) (ir.QualifiedName, bool) {
	items := obj.GetList().GetItems()
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if s := item.GetString_(); s != nil {
			parts = append(parts, s.GetSval())
		}
	}
	switch len(parts) {
	case 1:
		return ir.Unqualified(parts[0]), true
	case 2:
		return ir.Qualified(parts[0], parts[1]), true
	default:
		return ir.QualifiedName{}, false
	}
}

func ignoredIfEmpty(nodes []ir.Node, rawSQL string) []ir.Node {
	if len(nodes) == 0 {
		return []ir.Node{&ir.Ignored{RawSQL: rawSQL}}
	}
	return nodes
}
