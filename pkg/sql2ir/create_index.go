// SPDX-License-Identifier: Apache-2.0

package sql2ir

import (
	pgq "github.com/xataio/pg_query_go/v6"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// convertCreateIndex lowers an IndexStmt. Expression elements keep their
// deparsed SQL plus the extracted set of plain column references, which
// the FK-covering-index rule consumes.
func convertCreateIndex(stmt *pgq.IndexStmt) ir.Node {
	method := stmt.GetAccessMethod()
	if method == "" {
		method = "btree"
	}

	ci := &ir.CreateIndex{
		IndexName:   stmt.GetIdxname(),
		TableName:   relationName(stmt.GetRelation()),
		Unique:      stmt.GetUnique(),
		Concurrent:  stmt.GetConcurrent(),
		IfNotExists: stmt.GetIfNotExists(),
		// ON ONLY shows up as inheritance disabled on the relation.
		Only:         !stmt.GetRelation().GetInh(),
		AccessMethod: method,
	}

	for _, param := range stmt.GetIndexParams() {
		elem := param.GetIndexElem()
		if elem == nil {
			continue
		}
		if name := elem.GetName(); name != "" {
			ci.Columns = append(ci.Columns, ir.IndexColumn{Name: name})
			continue
		}
		if expr := elem.GetExpr(); expr != nil {
			ci.Columns = append(ci.Columns, ir.IndexColumn{
				Expression:        deparseExpr(expr),
				ReferencedColumns: extractColumnRefs(expr),
			})
		}
	}

	if where := stmt.GetWhereClause(); where != nil {
		ci.WhereClause = deparseExpr(where)
	}

	return ci
}
