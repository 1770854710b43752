// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

func ordersWithStatusIndex() *catalog.Catalog {
	return catalog.NewBuilder().
		Table("orders", func(t *catalog.TableBuilder) {
			t.Column("id", "integer", false).
				Column("status", "text", true).
				PK("id").
				Index("idx_orders_status", []string{"status"}, false)
		}).
		Build()
}

func TestPGM001(t *testing.T) {
	tests := map[string]struct {
		node         ir.Node
		created      map[string]struct{}
		wantFindings int
	}{
		"non-concurrent index on existing table fires": {
			node: &ir.CreateIndex{
				IndexName:    "idx_new",
				TableName:    ir.Unqualified("orders"),
				Columns:      []ir.IndexColumn{{Name: "status"}},
				AccessMethod: "btree",
			},
			wantFindings: 1,
		},
		"concurrent index on existing table is fine": {
			node: &ir.CreateIndex{
				IndexName:    "idx_new",
				TableName:    ir.Unqualified("orders"),
				Columns:      []ir.IndexColumn{{Name: "status"}},
				Concurrent:   true,
				AccessMethod: "btree",
			},
		},
		"table created in change is exempt": {
			node: &ir.CreateIndex{
				IndexName:    "idx_new",
				TableName:    ir.Unqualified("orders"),
				Columns:      []ir.IndexColumn{{Name: "status"}},
				AccessMethod: "btree",
			},
			created: map[string]struct{}{"orders": {}},
		},
		"unknown table is exempt": {
			node: &ir.CreateIndex{
				IndexName:    "idx_new",
				TableName:    ir.Unqualified("nonexistent"),
				AccessMethod: "btree",
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			before := ordersWithStatusIndex()
			ctx := makeCtx(before, before.Clone(), "migrations/002.sql", tc.created)

			findings := pgm001{}.Check([]ir.Located[ir.Node]{located(tc.node)}, ctx)
			assert.Len(t, findings, tc.wantFindings)
			for _, f := range findings {
				assert.Equal(t, "PGM001", f.RuleID)
				assert.Equal(t, Critical, f.Severity)
				assert.Contains(t, f.Message, "CONCURRENTLY")
				assert.Contains(t, f.Message, "orders")
			}
		})
	}
}

func TestPGM002(t *testing.T) {
	t.Run("drop index without concurrently fires", func(t *testing.T) {
		before := ordersWithStatusIndex()
		ctx := makeCtx(before, before.Clone(), "migrations/003.sql", nil)

		findings := pgm002{}.Check([]ir.Located[ir.Node]{
			located(&ir.DropIndex{IndexName: "idx_orders_status"}),
		}, ctx)

		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "CONCURRENTLY")
	})

	t.Run("drop index with concurrently is fine", func(t *testing.T) {
		before := ordersWithStatusIndex()
		ctx := makeCtx(before, before.Clone(), "migrations/003.sql", nil)

		findings := pgm002{}.Check([]ir.Located[ir.Node]{
			located(&ir.DropIndex{IndexName: "idx_orders_status", Concurrent: true}),
		}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("partitioned parent gets partition message", func(t *testing.T) {
		before := catalog.NewBuilder().
			Table("orders", func(t *catalog.TableBuilder) {
				t.Column("id", "integer", false).
					Column("status", "text", true).
					Index("idx_orders_status", []string{"status"}, false).
					PartitionedBy(ir.PartitionByRange, "id")
			}).
			Build()
		ctx := makeCtx(before, before.Clone(), "migrations/003.sql", nil)

		findings := pgm002{}.Check([]ir.Located[ir.Node]{
			located(&ir.DropIndex{IndexName: "idx_orders_status"}),
		}, ctx)

		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "partitioned table")
		assert.Contains(t, findings[0].Message, "CONCURRENTLY is not supported")
	})

	t.Run("ON ONLY stub on partitioned parent is suppressed", func(t *testing.T) {
		before := catalog.NewBuilder().
			Table("orders", func(t *catalog.TableBuilder) {
				t.Column("id", "integer", false).
					OnlyIndex("idx_orders_status", []string{"status"}, false).
					PartitionedBy(ir.PartitionByRange, "id")
			}).
			Build()
		ctx := makeCtx(before, before.Clone(), "migrations/003.sql", nil)

		findings := pgm002{}.Check([]ir.Located[ir.Node]{
			located(&ir.DropIndex{IndexName: "idx_orders_status"}),
		}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("ON ONLY on non-partitioned table still fires", func(t *testing.T) {
		before := catalog.NewBuilder().
			Table("orders", func(t *catalog.TableBuilder) {
				t.Column("id", "integer", false).
					OnlyIndex("idx_orders_status", []string{"status"}, false)
			}).
			Build()
		ctx := makeCtx(before, before.Clone(), "migrations/003.sql", nil)

		findings := pgm002{}.Check([]ir.Located[ir.Node]{
			located(&ir.DropIndex{IndexName: "idx_orders_status"}),
		}, ctx)

		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "CONCURRENTLY")
	})

	t.Run("unknown index is skipped", func(t *testing.T) {
		before := catalog.New()
		ctx := makeCtx(before, before.Clone(), "migrations/003.sql", nil)

		findings := pgm002{}.Check([]ir.Located[ir.Node]{
			located(&ir.DropIndex{IndexName: "idx_ghost"}),
		}, ctx)
		assert.Empty(t, findings)
	})
}

func TestPGM003(t *testing.T) {
	concurrentIndex := &ir.CreateIndex{
		IndexName:    "idx_x",
		TableName:    ir.Unqualified("orders"),
		Columns:      []ir.IndexColumn{{Name: "status"}},
		Concurrent:   true,
		AccessMethod: "btree",
	}

	tests := map[string]struct {
		node         ir.Node
		inTxn        bool
		wantFindings int
	}{
		"concurrent create in transaction fires": {
			node: concurrentIndex, inTxn: true, wantFindings: 1,
		},
		"concurrent create outside transaction is fine": {
			node: concurrentIndex, inTxn: false,
		},
		"non-concurrent create in transaction is fine": {
			node: &ir.CreateIndex{
				IndexName: "idx_x", TableName: ir.Unqualified("orders"), AccessMethod: "btree",
			},
			inTxn: true,
		},
		"concurrent drop in transaction fires": {
			node: &ir.DropIndex{IndexName: "idx_x", Concurrent: true}, inTxn: true, wantFindings: 1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			before := catalog.New()
			ctx := makeCtxWithTxn(before, before.Clone(), "migrations/002.sql", nil, tc.inTxn)

			findings := pgm003{}.Check([]ir.Located[ir.Node]{located(tc.node)}, ctx)
			assert.Len(t, findings, tc.wantFindings)
			for _, f := range findings {
				assert.Contains(t, f.Message, "cannot run inside a transaction")
			}
		})
	}
}
