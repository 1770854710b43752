// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/robert-sjoblom/pg-migration-lint/cmd/flags"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/config"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/history"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/lint"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/output"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/rules"
)

// runLint is the main pipeline: load config and history, replay and
// lint, emit reports, and translate the threshold into the exit code.
func runLint() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	changedPaths, err := parseChangedFiles()
	if err != nil {
		return err
	}

	hist, err := loadHistory(cfg)
	if err != nil {
		return err
	}

	registry := rules.NewRegistry()
	runner := lint.NewRunner(cfg, registry)
	findings := runner.Run(hist, history.NewChangedSet(changedPaths))

	if err := emitReports(cfg, registry, findings); err != nil {
		return err
	}

	pterm.Info.WithWriter(os.Stderr).Printfln("pg-migration-lint: %d finding(s)", len(findings))

	failOn := cfg.CLI.FailOn
	if override := flags.FailOn(); override != "" {
		failOn = override
	}
	if strings.EqualFold(failOn, "none") {
		return nil
	}
	threshold, ok := rules.ParseSeverity(failOn)
	if !ok {
		return fmt.Errorf("unknown severity %q for --fail-on. Valid values: blocker, critical, major, minor, info, none", failOn)
	}
	if lint.AnyAtOrAbove(findings, threshold) {
		return errFindingsAboveThreshold
	}
	return nil
}

// parseChangedFiles accumulates --changed-files and --changed-files-from.
func parseChangedFiles() ([]string, error) {
	var paths []string

	if list := flags.ChangedFiles(); list != "" {
		for _, p := range strings.Split(list, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
	}

	if listFile := flags.ChangedFilesFrom(); listFile != "" {
		contents, err := os.ReadFile(listFile)
		if err != nil {
			return nil, fmt.Errorf("read changed-files-from file: %w", err)
		}
		for _, line := range strings.Split(string(contents), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				paths = append(paths, line)
			}
		}
	}

	return paths, nil
}

// loadHistory loads migrations with the configured strategy. The
// liquibase strategy is handled by the external bridge, not this binary.
func loadHistory(cfg *config.Config) (*history.History, error) {
	switch cfg.Migrations.Strategy {
	case "liquibase":
		return nil, fmt.Errorf("the liquibase strategy requires the external Liquibase bridge; configure migrations.strategy: filename_lexicographic or run the bridge")
	case "filename_lexicographic", "":
	default:
		pterm.Warning.WithWriter(os.Stderr).Printfln("unknown strategy '%s', falling back to filename_lexicographic", cfg.Migrations.Strategy)
	}
	loader := history.NewSQLLoader(cfg.Migrations.RunInTransaction)
	return loader.Load(cfg.Migrations.Paths)
}

// emitReports fans findings out to every configured reporter. --format
// overrides the configured formats and sends text to stdout.
func emitReports(cfg *config.Config, registry *rules.Registry, findings []rules.Finding) error {
	formats := cfg.Output.Formats
	textToStdout := false
	if override := flags.Format(); override != "" {
		formats = []string{override}
		textToStdout = true
	}

	for _, format := range formats {
		var reporter output.Reporter
		switch format {
		case "text":
			reporter = output.NewTextReporter()
		case "sarif":
			reporter = output.NewSarifReporter(Version)
		case "sonarqube":
			reporter = output.NewSonarQubeReporter(output.RuleInfoFromRegistry(registry))
		default:
			pterm.Warning.WithWriter(os.Stderr).Printfln("Unknown output format '%s', skipping", format)
			continue
		}

		if format == "text" && textToStdout {
			content, err := reporter.Render(findings)
			if err != nil {
				return fmt.Errorf("render text report: %w", err)
			}
			fmt.Print(content)
			continue
		}

		if err := output.Emit(reporter, findings, cfg.Output.Dir); err != nil {
			return fmt.Errorf("write %s report: %w", format, err)
		}
	}
	return nil
}

// explainRule prints a rule's explanation.
func explainRule(ruleID string) error {
	registry := rules.NewRegistry()
	rule := registry.Get(ruleID)
	if rule == nil {
		return fmt.Errorf("unknown rule: %s", ruleID)
	}
	fmt.Printf("Rule: %s\n", rule.ID())
	fmt.Printf("Severity: %s\n", rule.DefaultSeverity())
	fmt.Printf("Description: %s\n\n", rule.Description())
	fmt.Println(rule.Explain())
	return nil
}
