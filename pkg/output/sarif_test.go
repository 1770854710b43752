// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/rules"
)

func testFinding() rules.Finding {
	return rules.Finding{
		RuleID:    "PGM001",
		Severity:  rules.Critical,
		Message:   "CREATE INDEX on existing table 'orders' should use CONCURRENTLY to avoid holding an exclusive lock.",
		File:      "migrations/002.sql",
		StartLine: 3,
		EndLine:   3,
	}
}

func TestSarifSingleFinding(t *testing.T) {
	content, err := NewSarifReporter("1.2.3").Render([]rules.Finding{testFinding()})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(content), &doc))

	assert.Equal(t, "2.1.0", doc["version"])
	runs := doc["runs"].([]any)
	require.Len(t, runs, 1)
	run := runs[0].(map[string]any)

	driver := run["tool"].(map[string]any)["driver"].(map[string]any)
	assert.Equal(t, "pg-migration-lint", driver["name"])
	assert.Equal(t, "1.2.3", driver["version"])
	assert.NotEmpty(t, driver["informationUri"])

	results := run["results"].([]any)
	require.Len(t, results, 1)
	result := results[0].(map[string]any)
	assert.Equal(t, "PGM001", result["ruleId"])
	assert.Equal(t, "error", result["level"])

	location := result["locations"].([]any)[0].(map[string]any)["physicalLocation"].(map[string]any)
	assert.Equal(t, "migrations/002.sql", location["artifactLocation"].(map[string]any)["uri"])
	region := location["region"].(map[string]any)
	assert.Equal(t, float64(3), region["startLine"])
	assert.Equal(t, float64(3), region["endLine"])
}

func TestSarifEmptyFindings(t *testing.T) {
	content, err := NewSarifReporter("1.0.0").Render(nil)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(content), &doc))

	run := doc["runs"].([]any)[0].(map[string]any)
	assert.Empty(t, run["results"])
	assert.Empty(t, run["tool"].(map[string]any)["driver"].(map[string]any)["rules"])
}

func TestSarifSeverityMapping(t *testing.T) {
	tests := map[rules.Severity]string{
		rules.Blocker:  "error",
		rules.Critical: "error",
		rules.Major:    "warning",
		rules.Minor:    "note",
		rules.Info:     "note",
	}
	for severity, want := range tests {
		assert.Equal(t, want, sarifLevel(severity))
	}
}

func TestSarifForwardSlashPaths(t *testing.T) {
	f := testFinding()
	f.File = `db\migrations\002.sql`
	content, err := NewSarifReporter("1.0.0").Render([]rules.Finding{f})
	require.NoError(t, err)
	assert.Contains(t, content, "db/migrations/002.sql")
	assert.NotContains(t, content, `db\\migrations`)
}

func TestSarifRuleDescriptors(t *testing.T) {
	findings := []rules.Finding{
		{RuleID: "PGM002", Severity: rules.Info, Message: "first", File: "a.sql", StartLine: 1, EndLine: 1},
		{RuleID: "PGM001", Severity: rules.Critical, Message: "second", File: "a.sql", StartLine: 2, EndLine: 2},
		{RuleID: "PGM002", Severity: rules.Critical, Message: "third", File: "a.sql", StartLine: 3, EndLine: 3},
	}
	descriptors := collectRuleDescriptors(findings)
	require.Len(t, descriptors, 2)

	// Sorted by rule ID.
	assert.Equal(t, "PGM001", descriptors[0].ID)
	assert.Equal(t, "PGM002", descriptors[1].ID)

	// First message seen wins; highest severity seen drives the level.
	assert.Equal(t, "first", descriptors[1].ShortDescription.Text)
	assert.Equal(t, "error", descriptors[1].DefaultConfiguration.Level)
}

// Serializing findings to SARIF and re-parsing yields the same tuples.
func TestSarifRoundTrip(t *testing.T) {
	findings := []rules.Finding{
		{RuleID: "PGM001", Severity: rules.Critical, Message: "m1", File: "a.sql", StartLine: 1, EndLine: 2},
		{RuleID: "PGM022", Severity: rules.Minor, Message: "m2", File: "b/c.sql", StartLine: 7, EndLine: 7},
	}
	content, err := NewSarifReporter("1.0.0").Render(findings)
	require.NoError(t, err)

	var doc sarifLog
	require.NoError(t, json.Unmarshal([]byte(content), &doc))
	require.Len(t, doc.Runs, 1)
	results := doc.Runs[0].Results
	require.Len(t, results, len(findings))

	for i, f := range findings {
		assert.Equal(t, f.RuleID, results[i].RuleID)
		assert.Equal(t, sarifLevel(f.Severity), results[i].Level)
		assert.Equal(t, f.Message, results[i].Message.Text)
		location := results[i].Locations[0].PhysicalLocation
		assert.Equal(t, f.File, location.ArtifactLocation.URI)
		assert.Equal(t, f.StartLine, location.Region.StartLine)
		assert.Equal(t, f.EndLine, location.Region.EndLine)
	}
}
