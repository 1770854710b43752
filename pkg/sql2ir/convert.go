// SPDX-License-Identifier: Apache-2.0

// Package sql2ir lowers PostgreSQL SQL into the linting IR.
//
// Each SQL statement is converted to the most specific IR node possible.
// Sources that fail to parse entirely become a single Unparseable node
// with a best-effort table hint. Statements that parse but have no IR
// mapping (GRANT, COMMENT ON, SELECT, ...) become Ignored nodes.
package sql2ir

import (
	"strings"

	pgq "github.com/xataio/pg_query_go/v6"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// Parse converts a SQL source string into located IR nodes in source
// order. It never returns an error: parse failure of the whole source
// yields a single Unparseable node spanning the source.
//
// Line numbers in the returned spans are 1-based.
func Parse(source string) []ir.Located[ir.Node] {
	result, err := pgq.Parse(source)
	if err != nil {
		endLine := strings.Count(source, "\n") + 1
		if strings.HasSuffix(source, "\n") && endLine > 1 {
			endLine--
		}
		return []ir.Located[ir.Node]{{
			Node: &ir.Unparseable{
				RawSQL:    source,
				TableHint: extractTableHint(source),
			},
			Span: ir.SourceSpan{
				StartLine:   1,
				EndLine:     endLine,
				StartOffset: 0,
				EndOffset:   len(source),
			},
		}}
	}

	var nodes []ir.Located[ir.Node]
	for _, rawStmt := range result.GetStmts() {
		startOffset := int(rawStmt.GetStmtLocation())
		endOffset := len(source)
		if rawStmt.GetStmtLen() > 0 {
			endOffset = startOffset + int(rawStmt.GetStmtLen())
		}

		// pg_query may include leading whitespace (including newlines) in
		// the statement location. Skip to the first token for accurate
		// line reporting.
		tokenStart := startOffset
		for tokenStart < endOffset && tokenStart < len(source) && isSpace(source[tokenStart]) {
			tokenStart++
		}

		rawSQL := ""
		if startOffset <= endOffset && endOffset <= len(source) {
			rawSQL = source[startOffset:endOffset]
		}

		span := ir.SourceSpan{
			StartLine:   byteOffsetToLine(source, tokenStart),
			EndLine:     byteOffsetToLine(source, max(tokenStart, endOffset-1)),
			StartOffset: startOffset,
			EndOffset:   endOffset,
		}

		for _, node := range convertStmt(rawStmt.GetStmt(), rawSQL) {
			nodes = append(nodes, ir.Located[ir.Node]{Node: node, Span: span})
		}
	}

	return nodes
}

// convertStmt lowers one parsed statement. Statements that expand to
// multiple targets (TRUNCATE a, b) produce one node per target.
func convertStmt(stmt *pgq.Node, rawSQL string) []ir.Node {
	if stmt == nil || stmt.GetNode() == nil {
		return []ir.Node{&ir.Ignored{RawSQL: rawSQL}}
	}

	switch node := stmt.GetNode().(type) {
	case *pgq.Node_CreateStmt:
		return []ir.Node{convertCreateTable(node.CreateStmt)}
	case *pgq.Node_AlterTableStmt:
		return []ir.Node{convertAlterTable(node.AlterTableStmt, rawSQL)}
	case *pgq.Node_IndexStmt:
		return []ir.Node{convertCreateIndex(node.IndexStmt)}
	case *pgq.Node_DropStmt:
		return convertDrop(node.DropStmt, rawSQL)
	case *pgq.Node_TruncateStmt:
		return convertTruncate(node.TruncateStmt)
	case *pgq.Node_ClusterStmt:
		return []ir.Node{convertCluster(node.ClusterStmt)}
	case *pgq.Node_RenameStmt:
		return []ir.Node{convertRename(node.RenameStmt, rawSQL)}
	case *pgq.Node_InsertStmt:
		return []ir.Node{&ir.InsertInto{TableName: relationName(node.InsertStmt.GetRelation())}}
	case *pgq.Node_UpdateStmt:
		return []ir.Node{&ir.UpdateTable{TableName: relationName(node.UpdateStmt.GetRelation())}}
	case *pgq.Node_DeleteStmt:
		return []ir.Node{&ir.DeleteFrom{TableName: relationName(node.DeleteStmt.GetRelation())}}
	case *pgq.Node_DoStmt:
		// DO $$ ... $$ blocks are opaque imperative code.
		return []ir.Node{&ir.Unparseable{RawSQL: rawSQL, TableHint: extractTableHint(rawSQL)}}
	default:
		return []ir.Node{&ir.Ignored{RawSQL: rawSQL}}
	}
}

func convertTruncate(stmt *pgq.TruncateStmt) []ir.Node {
	cascade := stmt.GetBehavior() == pgq.DropBehavior_DROP_CASCADE
	nodes := make([]ir.Node, 0, len(stmt.GetRelations()))
	for _, rel := range stmt.GetRelations() {
		rv := rel.GetRangeVar()
		if rv == nil {
			continue
		}
		nodes = append(nodes, &ir.TruncateTable{
			Name:    relationName(rv),
			Cascade: cascade,
		})
	}
	if len(nodes) == 0 {
		return []ir.Node{&ir.Ignored{RawSQL: ""}}
	}
	return nodes
}

func convertCluster(stmt *pgq.ClusterStmt) ir.Node {
	return &ir.Cluster{
		Table: relationName(stmt.GetRelation()),
		Index: stmt.GetIndexname(),
	}
}

// byteOffsetToLine converts a byte offset into a 1-based line number by
// counting newlines before the clamped offset.
func byteOffsetToLine(source string, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		offset = 0
	}
	return strings.Count(source[:offset], "\n") + 1
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// relationName converts a RangeVar into a QualifiedName.
func relationName(rel *pgq.RangeVar) ir.QualifiedName {
	if rel == nil {
		return ir.Unqualified("")
	}
	if rel.GetSchemaname() != "" {
		return ir.Qualified(rel.GetSchemaname(), rel.GetRelname())
	}
	return ir.Unqualified(rel.GetRelname())
}

// extractTableHint scans raw SQL that failed to parse for an ALTER TABLE
// or CREATE TABLE prefix and returns the first identifier after it,
// quotes stripped and dotted names reduced to the last component. The
// result marks the table incomplete in the catalog; best effort only.
func extractTableHint(sql string) string {
	upper := strings.ToUpper(sql)

	if pos := strings.Index(upper, "ALTER TABLE"); pos >= 0 {
		return extractFirstIdentifier(sql[pos+len("ALTER TABLE"):])
	}
	if pos := strings.Index(upper, "CREATE TABLE"); pos >= 0 {
		return extractFirstIdentifier(sql[pos+len("CREATE TABLE"):])
	}
	return ""
}

// extractFirstIdentifier takes the first identifier from s, skipping the
// IF [NOT] EXISTS and ONLY keywords.
func extractFirstIdentifier(s string) string {
	trimmed := strings.TrimSpace(s)
	for {
		upper := strings.ToUpper(trimmed)
		switch {
		case strings.HasPrefix(upper, "IF NOT EXISTS"):
			trimmed = strings.TrimSpace(trimmed[len("IF NOT EXISTS"):])
		case strings.HasPrefix(upper, "IF EXISTS"):
			trimmed = strings.TrimSpace(trimmed[len("IF EXISTS"):])
		case strings.HasPrefix(upper, "ONLY"):
			trimmed = strings.TrimSpace(trimmed[len("ONLY"):])
		default:
			var b strings.Builder
			for _, r := range trimmed {
				if r == '_' || r == '.' || r == '"' ||
					('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
					b.WriteRune(r)
					continue
				}
				break
			}
			ident := strings.ReplaceAll(b.String(), `"`, "")
			if ident == "" {
				return ""
			}
			parts := strings.Split(ident, ".")
			return parts[len(parts)-1]
		}
	}
}
