// SPDX-License-Identifier: Apache-2.0

// Package output renders findings in the supported report formats:
// SARIF 2.1.0, SonarQube Generic Issue Import JSON (10.3+), and
// human-readable text.
package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/robert-sjoblom/pg-migration-lint/pkg/rules"
)

// Reporter renders findings and writes them to the output directory. The
// filename is determined by the reporter.
type Reporter interface {
	// Render produces the report payload.
	Render(findings []rules.Finding) (string, error)
	// Filename is the file written under the output directory.
	Filename() string
}

// Emit renders the report and writes it under outputDir, creating the
// directory if missing.
func Emit(r Reporter, findings []rules.Finding, outputDir string) error {
	content, err := r.Render(findings)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, r.Filename()), []byte(content), 0o644)
}

// RuleInfo carries per-rule metadata for reporters that describe rules
// (SonarQube 10.3+).
type RuleInfo struct {
	ID              string
	Name            string
	Description     string
	DefaultSeverity rules.Severity
}

// RuleInfoFromRegistry extracts rule metadata from a registry.
func RuleInfoFromRegistry(registry *rules.Registry) []RuleInfo {
	all := registry.Rules()
	infos := make([]RuleInfo, 0, len(all))
	for _, r := range all {
		infos = append(infos, RuleInfo{
			ID:              r.ID(),
			Name:            r.Description(),
			Description:     r.Explain(),
			DefaultSeverity: r.DefaultSeverity(),
		})
	}
	return infos
}

// normalizePath renders a path with forward slashes for cross-platform
// report output.
func normalizePath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
