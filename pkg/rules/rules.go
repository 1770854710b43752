// SPDX-License-Identifier: Apache-2.0

// Package rules implements the rule engine: a registry of pure functions
// from (statements, LintContext) to findings, the severity lattice, and
// the finding model.
package rules

import (
	"github.com/robert-sjoblom/pg-migration-lint/pkg/ir"
)

// Rule is implemented by every lint rule. Rules are pure: they read the
// context but never mutate it, and they do no I/O. Input errors surface
// only via the IR's Unparseable/Ignored classification; rules observe
// those as opaque and never fail.
type Rule interface {
	// ID is the stable rule identifier, e.g. "PGM001".
	ID() string
	// DefaultSeverity is the severity most findings of this rule carry.
	// Some rules derive severity per finding (PGM006, PGM018, PGM020).
	DefaultSeverity() Severity
	// Description is a short human-readable summary.
	Description() string
	// Explain is the detailed explanation shown by --explain: failure
	// mode, example, fix.
	Explain() string
	// Check runs the rule against one migration unit. The caller handles
	// down-migration severity capping and suppression filtering.
	Check(statements []ir.Located[ir.Node], ctx *LintContext) []Finding
}

// makeFinding builds a finding carrying the rule's default severity.
func makeFinding(r Rule, message, file string, span ir.SourceSpan) Finding {
	return NewFinding(r.ID(), r.DefaultSeverity(), message, file, span)
}

// Registry holds the active rule set for a run. The default registration
// is the compile-time enumeration in defaultRules; the set is closed.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

// defaultRules enumerates every built-in rule in reporting order. Adding
// a rule here forces the SonarQube metadata and effort tables to cover it
// (their exhaustiveness is asserted by tests).
var defaultRules = []Rule{
	pgm001{},
	pgm002{},
	pgm003{},
	pgm004{},
	pgm005{},
	pgm006{},
	pgm007{},
	pgm008{},
	pgm009{},
	pgm010{},
	pgm011{},
	pgm012{},
	pgm013{},
	pgm014{},
	pgm015{},
	pgm016{},
	pgm017{},
	pgm018{},
	pgm019{},
	pgm020{},
	pgm021{},
	pgm022{},
	pgm023{},
	pgm024{},
	pgm101{},
	pgm102{},
	pgm103{},
	pgm104{},
	pgm105{},
	pgm108{},
	pgm901{},
}

// NewRegistry creates a registry with every built-in rule registered.
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[string]Rule, len(defaultRules))}
	for _, rule := range defaultRules {
		r.Register(rule)
	}
	return r
}

// Register adds a rule to the registry.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
	r.byID[rule.ID()] = rule
}

// Get returns a rule by ID, or nil when unknown.
func (r *Registry) Get(id string) Rule {
	return r.byID[id]
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// Active returns the registered rules minus the disabled IDs, preserving
// order. Unknown disabled IDs are returned for the caller to warn about.
func (r *Registry) Active(disabled []string) (active []Rule, unknown []string) {
	disabledSet := make(map[string]struct{}, len(disabled))
	for _, id := range disabled {
		if r.byID[id] == nil {
			unknown = append(unknown, id)
			continue
		}
		disabledSet[id] = struct{}{}
	}
	for _, rule := range r.rules {
		if _, off := disabledSet[rule.ID()]; !off {
			active = append(active, rule)
		}
	}
	return active, unknown
}
