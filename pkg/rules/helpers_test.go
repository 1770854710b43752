// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

func makeCtx(before, after *catalog.Catalog, file string, created map[string]struct{}) *LintContext {
	if created == nil {
		created = map[string]struct{}{}
	}
	return &LintContext{
		CatalogBefore:         before,
		CatalogAfter:          after,
		TablesCreatedInChange: created,
		RunInTransaction:      true,
		File:                  file,
	}
}

func makeCtxWithTxn(before, after *catalog.Catalog, file string, created map[string]struct{}, inTxn bool) *LintContext {
	ctx := makeCtx(before, after, file, created)
	ctx.RunInTransaction = inTxn
	return ctx
}

func located(n ir.Node) ir.Located[ir.Node] {
	return ir.Located[ir.Node]{
		Node: n,
		Span: ir.SourceSpan{StartLine: 1, EndLine: 1, StartOffset: 0, EndOffset: 1},
	}
}

func simpleColumn(name, typeName string) ir.ColumnDef {
	return ir.ColumnDef{
		Name:     name,
		TypeName: ir.SimpleType(typeName),
		Nullable: true,
	}
}
