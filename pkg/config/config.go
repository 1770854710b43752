// SPDX-License-Identifier: Apache-2.0

// Package config loads the pg-migration-lint configuration file. The
// file is YAML, read through viper; its raw content is additionally
// validated against an embedded JSON schema so typos in key names are
// caught instead of silently ignored.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"
)

// DefaultFileName is recognized in the working directory when --config
// is not given.
const DefaultFileName = "pg-migration-lint.yaml"

//go:embed schema.json
var schemaJSON []byte

// Config is the full configuration with documented defaults applied.
type Config struct {
	Migrations MigrationsConfig `mapstructure:"migrations"`
	Rules      RulesConfig      `mapstructure:"rules"`
	Output     OutputConfig     `mapstructure:"output"`
	CLI        CLIConfig        `mapstructure:"cli"`
	Liquibase  LiquibaseConfig  `mapstructure:"liquibase"`
}

// MigrationsConfig controls history loading and normalization.
type MigrationsConfig struct {
	// Paths are the directories (or files) scanned for migrations.
	Paths []string `mapstructure:"paths"`
	// Strategy is "filename_lexicographic" (default) or "liquibase".
	Strategy string `mapstructure:"strategy"`
	// DefaultSchema is assigned to unqualified names. Default "public".
	DefaultSchema string `mapstructure:"default_schema"`
	// RunInTransaction is the per-unit default. Default true.
	RunInTransaction bool `mapstructure:"run_in_transaction"`
}

// RulesConfig silences rules globally.
type RulesConfig struct {
	Disabled []string `mapstructure:"disabled"`
}

// OutputConfig selects report formats and their directory.
type OutputConfig struct {
	Formats []string `mapstructure:"formats"`
	Dir     string   `mapstructure:"dir"`
}

// CLIConfig holds CLI behavior defaults.
type CLIConfig struct {
	// FailOn is the exit-code severity threshold: blocker, critical,
	// major, minor, info, or none.
	FailOn string `mapstructure:"fail_on"`
}

// LiquibaseConfig configures the external Liquibase bridge.
type LiquibaseConfig struct {
	// Strategy is "auto", "bridge", or "update-sql".
	Strategy string `mapstructure:"strategy"`
	// ChangelogFile is the root changelog passed to the bridge.
	ChangelogFile string `mapstructure:"changelog_file"`
}

// Default returns the configuration with all documented defaults.
func Default() *Config {
	return &Config{
		Migrations: MigrationsConfig{
			Paths:            []string{"migrations"},
			Strategy:         "filename_lexicographic",
			DefaultSchema:    "public",
			RunInTransaction: true,
		},
		Output: OutputConfig{
			Formats: []string{"text"},
			Dir:     "pg-migration-lint-output",
		},
		CLI: CLIConfig{
			FailOn: "critical",
		},
		Liquibase: LiquibaseConfig{
			Strategy: "auto",
		},
	}
}

// Load reads and validates a configuration file. All keys are optional;
// missing keys keep their defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := validateSchema(raw); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}
	return cfg, nil
}

// validateSchema checks the YAML document against the embedded JSON
// schema. An empty file is valid.
func validateSchema(raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	jsonRaw, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return fmt.Errorf("load embedded schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", schemaDoc); err != nil {
		return fmt.Errorf("load embedded schema: %w", err)
	}
	schema, err := compiler.Compile("config.schema.json")
	if err != nil {
		return fmt.Errorf("compile embedded schema: %w", err)
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonRaw))
	if err != nil {
		return fmt.Errorf("invalid config document: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

// sections documents every config section for --explain-config.
var sections = []struct {
	name string
	text string
}{
	{"migrations", `[migrations]
paths              - directories or files scanned for migration units
                     (default: ["migrations"])
strategy           - "filename_lexicographic" (default) loads *.sql files
                     sorted by filename; "liquibase" delegates to the
                     external Liquibase bridge
default_schema     - schema assigned to unqualified table names
                     (default: "public")
run_in_transaction - whether units run inside a transaction unless the
                     loader says otherwise (default: true)`},
	{"rules", `[rules]
disabled - list of rule IDs silenced globally, e.g. ["PGM011", "PGM105"].
           Unknown IDs produce a warning on stderr.`},
	{"output", `[output]
formats - report formats to write: "text", "sarif", "sonarqube"
          (default: ["text"])
dir     - directory for report files, created if missing
          (default: "pg-migration-lint-output")`},
	{"cli", `[cli]
fail_on - lowest severity that causes exit code 1: "blocker",
          "critical" (default), "major", "minor", "info", or "none" to
          always exit 0.`},
	{"liquibase", `[liquibase]
strategy       - bridge sub-strategy: "auto" (default), "bridge",
                 "update-sql"
changelog_file - root changelog passed to the bridge`},
}

// Explain returns the configuration reference for one section, or all
// sections when section is "all" or empty.
func Explain(section string) (string, error) {
	if section == "" {
		section = "all"
	}
	var w strings.Builder
	found := false
	for _, s := range sections {
		if section != "all" && s.name != section {
			continue
		}
		if found {
			w.WriteString("\n\n")
		}
		w.WriteString(s.text)
		found = true
	}
	if !found {
		return "", fmt.Errorf("unknown config section %q", section)
	}
	w.WriteString("\n")
	return w.String(), nil
}
