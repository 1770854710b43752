// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, Info < Minor)
	assert.True(t, Minor < Major)
	assert.True(t, Major < Critical)
	assert.True(t, Critical < Blocker)
}

func TestParseSeverity(t *testing.T) {
	tests := map[string]struct {
		want Severity
		ok   bool
	}{
		"info":     {Info, true},
		"minor":    {Minor, true},
		"major":    {Major, true},
		"critical": {Critical, true},
		"blocker":  {Blocker, true},
		"CRITICAL": {Critical, true},
		"Blocker":  {Blocker, true},
		"garbage":  {Info, false},
		"none":     {Info, false},
	}
	for input, tc := range tests {
		got, ok := ParseSeverity(input)
		assert.Equal(t, tc.ok, ok, input)
		if tc.ok {
			assert.Equal(t, tc.want, got, input)
		}
	}
}

func TestCapForDownMigration(t *testing.T) {
	findings := []Finding{
		{RuleID: "PGM001", Severity: Critical},
		{RuleID: "PGM004", Severity: Major},
	}
	CapForDownMigration(findings)
	for _, f := range findings {
		assert.Equal(t, Info, f.Severity)
	}
}

func TestRegistryDefaults(t *testing.T) {
	registry := NewRegistry()

	// 24 migration rules + 6 type rules + 1 meta rule.
	assert.Len(t, registry.Rules(), 31)

	for _, rule := range registry.Rules() {
		assert.Greater(t, len(rule.Description()), 10, "%s description too short", rule.ID())
		assert.Greater(t, len(rule.Explain()), 20, "%s explain too short", rule.ID())
		assert.Contains(t, rule.Explain(), rule.ID(), "%s explain should reference its own rule ID", rule.ID())
		assert.Equal(t, rule, registry.Get(rule.ID()))
	}
}

func TestRegistryActive(t *testing.T) {
	registry := NewRegistry()

	active, unknown := registry.Active([]string{"PGM001", "PGM999"})
	assert.Equal(t, []string{"PGM999"}, unknown)
	assert.Len(t, active, len(registry.Rules())-1)
	for _, rule := range active {
		assert.NotEqual(t, "PGM001", rule.ID())
	}
}

func TestVolatilityLookup(t *testing.T) {
	for _, name := range []string{"clock_timestamp", "gen_random_uuid", "random", "timeofday", "nextval", "setval"} {
		v, ok := LookupVolatility(name)
		require.True(t, ok, name)
		assert.Equal(t, VolatilityVolatile, v, name)
	}
	for _, name := range []string{"now", "statement_timestamp", "transaction_timestamp", "txid_current"} {
		v, ok := LookupVolatility(name)
		require.True(t, ok, name)
		assert.Equal(t, VolatilityStable, v, name)
	}
	for _, name := range []string{"abs", "lower", "md5", "upper"} {
		v, ok := LookupVolatility(name)
		require.True(t, ok, name)
		assert.Equal(t, VolatilityImmutable, v, name)
	}

	_, ok := LookupVolatility("my_custom_fn")
	assert.False(t, ok)

	// Case-insensitive.
	v, ok := LookupVolatility("RANDOM")
	require.True(t, ok)
	assert.Equal(t, VolatilityVolatile, v)
}

// Rules must be pure: the same input yields identical findings on every
// call.
func TestRulePurity(t *testing.T) {
	before := catalog.NewBuilder().
		Table("orders", func(t *catalog.TableBuilder) {
			t.Column("id", "bigint", false).Column("email", "text", true).PK("id")
		}).
		Build()
	after := before.Clone()

	stmts := []ir.Located[ir.Node]{
		located(&ir.CreateIndex{
			IndexName: "idx_email", TableName: ir.Unqualified("orders"),
			Columns: []ir.IndexColumn{{Name: "email"}}, AccessMethod: "btree",
		}),
		located(&ir.AlterTable{
			Name: ir.Unqualified("orders"),
			Actions: []ir.AlterTableAction{
				&ir.SetNotNull{ColumnName: "email"},
				&ir.DropColumn{Name: "email"},
			},
		}),
		located(&ir.DropTable{Name: ir.Unqualified("orders")}),
	}
	ctx := makeCtx(before, after, "migrations/001.sql", nil)

	for _, rule := range NewRegistry().Rules() {
		first := rule.Check(stmts, ctx)
		second := rule.Check(stmts, ctx)
		assert.Equal(t, first, second, "rule %s is not pure", rule.ID())
	}
}
