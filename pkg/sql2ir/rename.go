// SPDX-License-Identifier: Apache-2.0

package sql2ir

import (
	pgq "github.com/xataio/pg_query_go/v6"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// convertRename lowers RenameStmt. Table and column renames are modelled;
// sequence, index and constraint renames have no catalog-shape effect the
// rules care about and are ignored.
func convertRename(stmt *pgq.RenameStmt, rawSQL string) ir.Node {
	switch stmt.GetRenameType() {
	case pgq.ObjectType_OBJECT_TABLE:
		return &ir.RenameTable{
			Name:    relationName(stmt.GetRelation()),
			NewName: stmt.GetNewname(),
		}
	case pgq.ObjectType_OBJECT_COLUMN:
		return &ir.RenameColumn{
			Table:   relationName(stmt.GetRelation()),
			OldName: stmt.GetSubname(),
			NewName: stmt.GetNewname(),
		}
	default:
		return &ir.Ignored{RawSQL: rawSQL}
	}
}
