// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/rules"
)

// SarifReporter emits SARIF 2.1.0, compatible with GitHub Code Scanning
// (upload via github/codeql-action/upload-sarif).
type SarifReporter struct {
	// Version is the tool version reported in the driver block.
	Version string
}

// NewSarifReporter creates a SARIF reporter with the given tool version.
func NewSarifReporter(version string) *SarifReporter {
	return &SarifReporter{Version: version}
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool               `json:"tool"`
	AutomationDetails *sarifAutomationDetails `json:"automationDetails,omitempty"`
	Results           []sarifResult           `json:"results"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string                `json:"name"`
	Version        string                `json:"version"`
	InformationURI string                `json:"informationUri"`
	Rules          []sarifRuleDescriptor `json:"rules"`
}

type sarifRuleDescriptor struct {
	ID                   string             `json:"id"`
	ShortDescription     sarifMessage       `json:"shortDescription"`
	DefaultConfiguration sarifConfiguration `json:"defaultConfiguration"`
}

type sarifConfiguration struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// sarifLevel maps a severity to a SARIF level string.
func sarifLevel(severity rules.Severity) string {
	switch {
	case severity >= rules.Critical:
		return "error"
	case severity == rules.Major:
		return "warning"
	default:
		return "note"
	}
}

// collectRuleDescriptors builds the driver rules array: only rule IDs
// observed in findings, each described by the first message seen and the
// highest severity seen, in deterministic (sorted) order.
func collectRuleDescriptors(findings []rules.Finding) []sarifRuleDescriptor {
	type entry struct {
		severity rules.Severity
		message  string
	}
	byID := make(map[string]entry)
	for _, f := range findings {
		e, seen := byID[f.RuleID]
		if !seen {
			byID[f.RuleID] = entry{severity: f.Severity, message: f.Message}
			continue
		}
		if f.Severity > e.severity {
			e.severity = f.Severity
			byID[f.RuleID] = e
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	descriptors := make([]sarifRuleDescriptor, 0, len(ids))
	for _, id := range ids {
		e := byID[id]
		descriptors = append(descriptors, sarifRuleDescriptor{
			ID:                   id,
			ShortDescription:     sarifMessage{Text: e.message},
			DefaultConfiguration: sarifConfiguration{Level: sarifLevel(e.severity)},
		})
	}
	return descriptors
}

// Render produces the SARIF document as pretty-printed JSON. Empty
// findings still produce a valid envelope with empty results and rules.
func (r *SarifReporter) Render(findings []rules.Finding) (string, error) {
	results := make([]sarifResult, 0, len(findings))
	for _, f := range findings {
		results = append(results, sarifResult{
			RuleID:  f.RuleID,
			Level:   sarifLevel(f.Severity),
			Message: sarifMessage{Text: f.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: normalizePath(f.File)},
					Region: sarifRegion{
						StartLine: f.StartLine,
						EndLine:   f.EndLine,
					},
				},
			}},
		})
	}

	log := sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:           "pg-migration-lint",
					Version:        r.Version,
					InformationURI: "https://github.com/robert-sjoblom/pg-migration-lint",
					Rules:          collectRuleDescriptors(findings),
				},
			},
			AutomationDetails: &sarifAutomationDetails{GUID: uuid.NewString()},
			Results:           results,
		}},
	}

	out, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Filename implements Reporter.
func (r *SarifReporter) Filename() string {
	return "findings.sarif"
}
