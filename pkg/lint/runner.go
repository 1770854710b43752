// SPDX-License-Identifier: Apache-2.0

// Package lint orchestrates the replay-and-lint pipeline: normalize,
// replay each unit into the catalog, lint changed units, cap severities
// for down migrations, filter suppressions, and hand findings to the
// reporters.
package lint

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/catalog"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/config"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/history"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/normalize"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/rules"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/suppress"
)

// multiChangesetThreshold is the changed-unit count per file at or above
// which the run warns about a likely single-file changelog.
const multiChangesetThreshold = 20

// Runner drives one lint run.
type Runner struct {
	Config   *config.Config
	Registry *rules.Registry

	warn *pterm.PrefixPrinter
}

// NewRunner creates a runner. Warnings go to stderr so report output on
// stdout stays parseable.
func NewRunner(cfg *config.Config, registry *rules.Registry) *Runner {
	return &Runner{
		Config:   cfg,
		Registry: registry,
		warn:     pterm.Warning.WithWriter(os.Stderr),
	}
}

// Run replays the history in order and lints every unit in the changed
// set, returning the concatenated findings. Units outside the changed
// set are replayed for catalog state only.
func (r *Runner) Run(hist *history.History, changed *history.ChangedSet) []rules.Finding {
	for _, unit := range hist.Units {
		normalize.Statements(unit.Statements, r.Config.Migrations.DefaultSchema)
	}

	active, unknown := r.Registry.Active(r.Config.Rules.Disabled)
	for _, id := range unknown {
		r.warn.Printfln("unknown rule '%s' in rules.disabled, ignoring", id)
	}

	cat := catalog.New()
	tablesCreatedInChange := make(map[string]struct{})
	changedUnitsPerFile := make(map[string]int)
	var findings []rules.Finding

	for _, unit := range hist.Units {
		if !changed.Contains(unit.SourceFile) {
			catalog.Apply(cat, unit.Statements)
			continue
		}

		changedUnitsPerFile[unit.SourceFile]++

		before := cat.Clone()
		catalog.Apply(cat, unit.Statements)

		for _, stmt := range unit.Statements {
			if ct, ok := stmt.Node.(*ir.CreateTable); ok {
				tablesCreatedInChange[ct.Name.CatalogKey()] = struct{}{}
			}
		}

		ctx := &rules.LintContext{
			CatalogBefore:         before,
			CatalogAfter:          cat,
			TablesCreatedInChange: tablesCreatedInChange,
			RunInTransaction:      unit.RunInTransaction,
			IsDown:                unit.IsDown,
			File:                  unit.SourceFile,
		}

		var unitFindings []rules.Finding
		for _, rule := range active {
			unitFindings = append(unitFindings, rule.Check(unit.Statements, ctx)...)
		}

		if unit.IsDown {
			rules.CapForDownMigration(unitFindings)
		}

		unitFindings = r.filterSuppressed(unit.SourceFile, unitFindings)
		findings = append(findings, unitFindings...)
	}

	if !changed.Empty() {
		for file, count := range changedUnitsPerFile {
			if count >= multiChangesetThreshold {
				r.warn.Printfln("%d changesets from '%s' matched as changed. "+
					"If this is a single-file changelog, findings may include historical changesets. "+
					"Consider using one changeset per file for accurate changed-file detection.",
					count, file)
			}
		}
	}

	return findings
}

// filterSuppressed parses suppression comments from the unit's source
// and drops silenced findings. A source that cannot be read only loses
// its suppressions, never its findings.
func (r *Runner) filterSuppressed(file string, findings []rules.Finding) []rules.Finding {
	source, err := os.ReadFile(file)
	if err != nil {
		r.warn.Printfln("could not read '%s' for suppression comments: %v", file, err)
		return findings
	}

	suppressions := suppress.Parse(string(source))
	for _, id := range suppressions.RuleIDs() {
		if r.Registry.Get(id) == nil {
			r.warn.Printfln("unknown rule '%s' in suppression comment in %s", id, file)
		}
	}

	kept := findings[:0]
	for _, f := range findings {
		if !suppressions.IsSuppressed(f.RuleID, f.StartLine) {
			kept = append(kept, f)
		}
	}
	return kept
}

// AnyAtOrAbove reports whether any finding's severity meets the
// threshold.
func AnyAtOrAbove(findings []rules.Finding, threshold rules.Severity) bool {
	for _, f := range findings {
		if f.Severity >= threshold {
			return true
		}
	}
	return false
}
