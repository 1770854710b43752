// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/rules"
)

// SonarQubeReporter emits the SonarQube Generic Issue Import format
// (10.3+): a top-level rules array carrying clean-code attributes and
// impacts, plus slim issues referencing those rules.
type SonarQubeReporter struct {
	rules []RuleInfo
}

// NewSonarQubeReporter creates a reporter with the rule metadata needed
// by the 10.3+ format.
func NewSonarQubeReporter(ruleInfos []RuleInfo) *SonarQubeReporter {
	return &SonarQubeReporter{rules: ruleInfos}
}

// sonarQubeRuleMeta is the SonarQube-specific classification of a rule.
type sonarQubeRuleMeta struct {
	cleanCodeAttribute string
	issueType          string
	softwareQuality    string
	impactSeverity     string
}

// sonarQubeMeta is the rule-ID-indexed metadata table. The set is
// closed: a registered rule without an entry here fails the
// exhaustiveness test.
var sonarQubeMeta = map[string]sonarQubeRuleMeta{
	// Lock and failure hazards: deploy-time breakage or blocked traffic.
	"PGM001": {"COMPLETE", "BUG", "RELIABILITY", "HIGH"},
	"PGM002": {"COMPLETE", "BUG", "RELIABILITY", "HIGH"},
	"PGM003": {"COMPLETE", "BUG", "RELIABILITY", "HIGH"},
	"PGM010": {"COMPLETE", "BUG", "RELIABILITY", "HIGH"},
	"PGM012": {"COMPLETE", "BUG", "RELIABILITY", "HIGH"},
	"PGM016": {"COMPLETE", "BUG", "RELIABILITY", "HIGH"},
	"PGM017": {"COMPLETE", "BUG", "RELIABILITY", "HIGH"},
	"PGM021": {"COMPLETE", "BUG", "RELIABILITY", "HIGH"},
	"PGM023": {"COMPLETE", "BUG", "RELIABILITY", "HIGH"},

	// Rewrite and scan hazards: dangerous but usually survivable.
	"PGM006": {"COMPLETE", "BUG", "RELIABILITY", "MEDIUM"},
	"PGM007": {"COMPLETE", "BUG", "RELIABILITY", "MEDIUM"},
	"PGM018": {"COMPLETE", "BUG", "RELIABILITY", "MEDIUM"},

	// Schema quality and side-effect warnings.
	"PGM004": {"COMPLETE", "CODE_SMELL", "MAINTAINABILITY", "MEDIUM"},
	"PGM008": {"COMPLETE", "CODE_SMELL", "MAINTAINABILITY", "MEDIUM"},
	"PGM009": {"EFFICIENT", "CODE_SMELL", "MAINTAINABILITY", "MEDIUM"},
	"PGM011": {"COMPLETE", "CODE_SMELL", "MAINTAINABILITY", "MEDIUM"},
	"PGM013": {"COMPLETE", "CODE_SMELL", "MAINTAINABILITY", "MEDIUM"},
	"PGM014": {"COMPLETE", "CODE_SMELL", "MAINTAINABILITY", "MEDIUM"},
	"PGM015": {"COMPLETE", "CODE_SMELL", "MAINTAINABILITY", "MEDIUM"},
	"PGM019": {"COMPLETE", "CODE_SMELL", "MAINTAINABILITY", "MEDIUM"},
	"PGM020": {"COMPLETE", "CODE_SMELL", "MAINTAINABILITY", "MEDIUM"},
	"PGM022": {"COMPLETE", "CODE_SMELL", "MAINTAINABILITY", "MEDIUM"},
	"PGM024": {"COMPLETE", "CODE_SMELL", "MAINTAINABILITY", "MEDIUM"},

	// Conventional choices.
	"PGM005": {"CONVENTIONAL", "CODE_SMELL", "MAINTAINABILITY", "LOW"},
	"PGM101": {"CONVENTIONAL", "CODE_SMELL", "MAINTAINABILITY", "LOW"},
	"PGM102": {"CONVENTIONAL", "CODE_SMELL", "MAINTAINABILITY", "LOW"},
	"PGM103": {"CONVENTIONAL", "CODE_SMELL", "MAINTAINABILITY", "LOW"},
	"PGM104": {"CONVENTIONAL", "CODE_SMELL", "MAINTAINABILITY", "LOW"},
	"PGM105": {"CONVENTIONAL", "CODE_SMELL", "MAINTAINABILITY", "LOW"},
	"PGM108": {"CONVENTIONAL", "CODE_SMELL", "MAINTAINABILITY", "LOW"},

	// Meta-behavior; should not appear in findings but handled anyway.
	"PGM901": {"CONVENTIONAL", "CODE_SMELL", "MAINTAINABILITY", "MEDIUM"},
}

// effortMinutes is the rule-ID-indexed remediation effort table, bucketed
// into 5/10/15/30 minutes. Closed, like sonarQubeMeta.
var effortMinutes = map[string]int{
	// Adding CONCURRENTLY is usually a one-line fix.
	"PGM001": 5,
	"PGM002": 5,
	"PGM003": 5,

	// Index/constraint staging patterns.
	"PGM009": 15,
	"PGM012": 15,
	"PGM017": 15,
	"PGM021": 15,

	// Rewrites and backfills need a real plan.
	"PGM006": 30,
	"PGM007": 30,
	"PGM010": 30,
	"PGM016": 30,
	"PGM018": 30,
	"PGM023": 30,

	// Everything else is a local change or a judgment call.
	"PGM004": 10,
	"PGM005": 10,
	"PGM008": 10,
	"PGM011": 10,
	"PGM013": 10,
	"PGM014": 10,
	"PGM015": 10,
	"PGM019": 10,
	"PGM020": 10,
	"PGM022": 10,
	"PGM024": 10,
	"PGM101": 10,
	"PGM102": 10,
	"PGM103": 10,
	"PGM104": 10,
	"PGM105": 10,
	"PGM108": 10,
	"PGM901": 10,
}

type sonarQubeReport struct {
	Rules  []sonarQubeRule  `json:"rules"`
	Issues []sonarQubeIssue `json:"issues"`
}

type sonarQubeRule struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	EngineID           string            `json:"engineId"`
	CleanCodeAttribute string            `json:"cleanCodeAttribute"`
	Type               string            `json:"type"`
	Severity           string            `json:"severity"`
	Impacts            []sonarQubeImpact `json:"impacts"`
}

type sonarQubeImpact struct {
	SoftwareQuality string `json:"softwareQuality"`
	Severity        string `json:"severity"`
}

type sonarQubeIssue struct {
	RuleID          string                   `json:"ruleId"`
	EffortMinutes   int                      `json:"effortMinutes"`
	PrimaryLocation sonarQubePrimaryLocation `json:"primaryLocation"`
}

type sonarQubePrimaryLocation struct {
	Message   string             `json:"message"`
	FilePath  string             `json:"filePath"`
	TextRange sonarQubeTextRange `json:"textRange"`
}

type sonarQubeTextRange struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// Render produces the report as pretty-printed JSON. The rules array is
// filtered to rules that actually fired.
func (r *SonarQubeReporter) Render(findings []rules.Finding) (string, error) {
	fired := make(map[string]struct{}, len(findings))
	for _, f := range findings {
		fired[f.RuleID] = struct{}{}
	}

	outRules := make([]sonarQubeRule, 0, len(fired))
	for _, info := range r.rules {
		if _, ok := fired[info.ID]; !ok {
			continue
		}
		meta := sonarQubeMeta[info.ID]
		outRules = append(outRules, sonarQubeRule{
			ID:                 info.ID,
			Name:               info.Name,
			Description:        info.Description,
			EngineID:           "pg-migration-lint",
			CleanCodeAttribute: meta.cleanCodeAttribute,
			Type:               meta.issueType,
			Severity:           info.DefaultSeverity.SonarQubeString(),
			Impacts: []sonarQubeImpact{{
				SoftwareQuality: meta.softwareQuality,
				Severity:        meta.impactSeverity,
			}},
		})
	}

	issues := make([]sonarQubeIssue, 0, len(findings))
	for _, f := range findings {
		issues = append(issues, sonarQubeIssue{
			RuleID:        f.RuleID,
			EffortMinutes: effortMinutes[f.RuleID],
			PrimaryLocation: sonarQubePrimaryLocation{
				Message:  f.Message,
				FilePath: normalizePath(f.File),
				TextRange: sonarQubeTextRange{
					StartLine: f.StartLine,
					EndLine:   f.EndLine,
				},
			},
		})
	}

	out, err := json.MarshalIndent(sonarQubeReport{Rules: outRules, Issues: issues}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Filename implements Reporter.
func (r *SonarQubeReporter) Filename() string {
	return "findings.json"
}
