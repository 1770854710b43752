// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

func TestPGM004(t *testing.T) {
	createEvents := &ir.CreateTable{
		Name: ir.Unqualified("events"),
		Columns: []ir.ColumnDef{
			simpleColumn("event_type", "text"),
			simpleColumn("payload", "jsonb"),
		},
	}

	t.Run("table without pk fires", func(t *testing.T) {
		after := catalog.NewBuilder().
			Table("events", func(t *catalog.TableBuilder) {
				t.Column("event_type", "text", true).Column("payload", "jsonb", true)
			}).
			Build()
		ctx := makeCtx(catalog.New(), after, "migrations/001.sql", nil)

		findings := pgm004{}.Check([]ir.Located[ir.Node]{located(createEvents)}, ctx)
		require.Len(t, findings, 1)
		assert.Equal(t, "PGM004", findings[0].RuleID)
		assert.Contains(t, findings[0].Message, "no primary key")
	})

	t.Run("pk added later in same file avoids finding", func(t *testing.T) {
		after := catalog.NewBuilder().
			Table("events", func(t *catalog.TableBuilder) {
				t.Column("id", "integer", false).Column("event_type", "text", true).PK("id")
			}).
			Build()
		ctx := makeCtx(catalog.New(), after, "migrations/001.sql", nil)

		findings := pgm004{}.Check([]ir.Located[ir.Node]{located(createEvents)}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("temporary table is exempt", func(t *testing.T) {
		ctx := makeCtx(catalog.New(), catalog.New(), "migrations/001.sql", nil)
		stmt := &ir.CreateTable{
			Name:        ir.Unqualified("tmp_data"),
			Columns:     []ir.ColumnDef{simpleColumn("val", "text")},
			Persistence: ir.Temporary,
		}
		findings := pgm004{}.Check([]ir.Located[ir.Node]{located(stmt)}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("unique not null substitute suppresses pgm004", func(t *testing.T) {
		after := catalog.NewBuilder().
			Table("events", func(t *catalog.TableBuilder) {
				t.Column("event_type", "text", false).Unique("uq_type", "event_type")
			}).
			Build()
		ctx := makeCtx(catalog.New(), after, "migrations/001.sql", nil)

		findings := pgm004{}.Check([]ir.Located[ir.Node]{located(createEvents)}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("partition child with keyed parent is exempt", func(t *testing.T) {
		parent := ir.Unqualified("events")
		after := catalog.NewBuilder().
			Table("events", func(t *catalog.TableBuilder) {
				t.Column("id", "integer", false).PK("id").PartitionedBy(ir.PartitionByRange, "id")
			}).
			Table("events_2026", func(t *catalog.TableBuilder) {
				t.Column("id", "integer", false).PartitionOf("events")
			}).
			Build()
		ctx := makeCtx(catalog.New(), after, "migrations/001.sql", nil)

		stmt := &ir.CreateTable{
			Name:        ir.Unqualified("events_2026"),
			PartitionOf: &parent,
		}
		findings := pgm004{}.Check([]ir.Located[ir.Node]{located(stmt)}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("partition child of unknown parent is exempt", func(t *testing.T) {
		parent := ir.Unqualified("events")
		ctx := makeCtx(catalog.New(), catalog.New(), "migrations/001.sql", nil)
		stmt := &ir.CreateTable{
			Name:        ir.Unqualified("events_2026"),
			PartitionOf: &parent,
		}
		findings := pgm004{}.Check([]ir.Located[ir.Node]{located(stmt)}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("partition child of keyless parent fires", func(t *testing.T) {
		parent := ir.Unqualified("events")
		after := catalog.NewBuilder().
			Table("events", func(t *catalog.TableBuilder) {
				t.Column("id", "integer", true).PartitionedBy(ir.PartitionByRange, "id")
			}).
			Table("events_2026", func(t *catalog.TableBuilder) {
				t.Column("id", "integer", true).PartitionOf("events")
			}).
			Build()
		ctx := makeCtx(catalog.New(), after, "migrations/001.sql", nil)

		stmt := &ir.CreateTable{
			Name:        ir.Unqualified("events_2026"),
			PartitionOf: &parent,
		}
		findings := pgm004{}.Check([]ir.Located[ir.Node]{located(stmt)}, ctx)
		assert.Len(t, findings, 1)
	})
}

func TestPGM005(t *testing.T) {
	create := &ir.CreateTable{
		Name:    ir.Unqualified("accounts"),
		Columns: []ir.ColumnDef{{Name: "email", TypeName: ir.SimpleType("text"), Nullable: false}},
	}

	t.Run("unique not null substitute fires info", func(t *testing.T) {
		after := catalog.NewBuilder().
			Table("accounts", func(t *catalog.TableBuilder) {
				t.Column("email", "text", false).Unique("uq_email", "email")
			}).
			Build()
		ctx := makeCtx(catalog.New(), after, "migrations/001.sql", nil)

		findings := pgm005{}.Check([]ir.Located[ir.Node]{located(create)}, ctx)
		require.Len(t, findings, 1)
		assert.Equal(t, Info, findings[0].Severity)
		assert.Contains(t, findings[0].Message, "UNIQUE NOT NULL")
	})

	t.Run("nullable unique column does not fire", func(t *testing.T) {
		after := catalog.NewBuilder().
			Table("accounts", func(t *catalog.TableBuilder) {
				t.Column("email", "text", true).Unique("uq_email", "email")
			}).
			Build()
		ctx := makeCtx(catalog.New(), after, "migrations/001.sql", nil)

		findings := pgm005{}.Check([]ir.Located[ir.Node]{located(create)}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("unique non-partial index on not null column fires", func(t *testing.T) {
		after := catalog.NewBuilder().
			Table("accounts", func(t *catalog.TableBuilder) {
				t.Column("email", "text", false).Index("uq_email_idx", []string{"email"}, true)
			}).
			Build()
		ctx := makeCtx(catalog.New(), after, "migrations/001.sql", nil)

		findings := pgm005{}.Check([]ir.Located[ir.Node]{located(create)}, ctx)
		assert.Len(t, findings, 1)
	})

	t.Run("partial unique index does not count", func(t *testing.T) {
		after := catalog.NewBuilder().
			Table("accounts", func(t *catalog.TableBuilder) {
				t.Column("email", "text", false).PartialIndex("uq_email_idx", []string{"email"}, true)
			}).
			Build()
		ctx := makeCtx(catalog.New(), after, "migrations/001.sql", nil)

		findings := pgm005{}.Check([]ir.Located[ir.Node]{located(create)}, ctx)
		assert.Empty(t, findings)
	})

	t.Run("table with pk does not fire", func(t *testing.T) {
		after := catalog.NewBuilder().
			Table("accounts", func(t *catalog.TableBuilder) {
				t.Column("email", "text", false).PK("email")
			}).
			Build()
		ctx := makeCtx(catalog.New(), after, "migrations/001.sql", nil)

		findings := pgm005{}.Check([]ir.Located[ir.Node]{located(create)}, ctx)
		assert.Empty(t, findings)
	})
}

func TestPGM009(t *testing.T) {
	fk := &ir.ForeignKeyConstraint{
		Name:       "fk_customer",
		Columns:    []string{"customer_id"},
		RefTable:   ir.Unqualified("customers"),
		RefColumns: []string{"id"},
	}
	alter := &ir.AlterTable{
		Name:    ir.Unqualified("orders"),
		Actions: []ir.AlterTableAction{&ir.AddConstraint{Constraint: fk}},
	}

	build := func(fn func(*catalog.TableBuilder)) *catalog.Catalog {
		return catalog.NewBuilder().
			Table("orders", func(t *catalog.TableBuilder) {
				t.Column("id", "integer", false).Column("customer_id", "integer", true).PK("id")
				fn(t)
			}).
			Build()
	}

	tests := map[string]struct {
		after        *catalog.Catalog
		wantFindings int
	}{
		"no index fires": {
			after:        build(func(t *catalog.TableBuilder) {}),
			wantFindings: 1,
		},
		"covering index satisfies": {
			after: build(func(t *catalog.TableBuilder) {
				t.Index("idx_customer", []string{"customer_id"}, false)
			}),
		},
		"composite index with fk as leading column satisfies": {
			after: build(func(t *catalog.TableBuilder) {
				t.Index("idx_customer_created", []string{"customer_id", "created_at"}, false)
			}),
		},
		"index with fk in trailing position fires": {
			after: build(func(t *catalog.TableBuilder) {
				t.Index("idx_created_customer", []string{"created_at", "customer_id"}, false)
			}),
			wantFindings: 1,
		},
		"partial index does not count": {
			after: build(func(t *catalog.TableBuilder) {
				t.PartialIndex("idx_customer", []string{"customer_id"}, false)
			}),
			wantFindings: 1,
		},
		"expression index referencing fk column counts": {
			after: build(func(t *catalog.TableBuilder) {
				t.ExpressionIndex("idx_customer_expr", "(customer_id)::bigint", []string{"customer_id"})
			}),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := makeCtx(tc.after.Clone(), tc.after, "migrations/005.sql", nil)
			findings := pgm009{}.Check([]ir.Located[ir.Node]{located(alter)}, ctx)
			assert.Len(t, findings, tc.wantFindings)
			for _, f := range findings {
				assert.Contains(t, f.Message, "covering index")
				assert.Contains(t, f.Message, "customer_id")
			}
		})
	}

	t.Run("fk declared in create table is checked too", func(t *testing.T) {
		create := &ir.CreateTable{
			Name:        ir.Unqualified("orders"),
			Columns:     []ir.ColumnDef{simpleColumn("customer_id", "integer")},
			Constraints: []ir.TableConstraint{fk},
		}
		after := build(func(t *catalog.TableBuilder) {})
		ctx := makeCtx(catalog.New(), after, "migrations/001.sql", nil)

		findings := pgm009{}.Check([]ir.Located[ir.Node]{located(create)}, ctx)
		assert.Len(t, findings, 1)
	})
}

func TestPGM012(t *testing.T) {
	before := catalog.NewBuilder().
		Table("orders", func(t *catalog.TableBuilder) {
			t.Column("id", "integer", false)
		}).
		Build()

	t.Run("add pk without using index fires", func(t *testing.T) {
		ctx := makeCtx(before, before.Clone(), "migrations/004.sql", nil)
		alter := &ir.AlterTable{
			Name: ir.Unqualified("orders"),
			Actions: []ir.AlterTableAction{
				&ir.AddConstraint{Constraint: &ir.PrimaryKeyConstraint{Columns: []string{"id"}}},
			},
		}
		findings := pgm012{}.Check([]ir.Located[ir.Node]{located(alter)}, ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "USING INDEX")
	})

	t.Run("add pk using index is fine", func(t *testing.T) {
		ctx := makeCtx(before, before.Clone(), "migrations/004.sql", nil)
		alter := &ir.AlterTable{
			Name: ir.Unqualified("orders"),
			Actions: []ir.AlterTableAction{
				&ir.AddConstraint{Constraint: &ir.PrimaryKeyConstraint{UsingIndex: "pk_idx"}},
			},
		}
		findings := pgm012{}.Check([]ir.Located[ir.Node]{located(alter)}, ctx)
		assert.Empty(t, findings)
	})
}
