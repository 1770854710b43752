// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robert-sjoblom/pg-migration-lint/cmd/flags"
	"github.com/robert-sjoblom/pg-migration-lint/pkg/config"
)

// Version is the pg-migration-lint version.
var Version = "development"

// errFindingsAboveThreshold signals exit code 1 without an error message.
var errFindingsAboveThreshold = errors.New("findings at or above threshold")

func init() {
	viper.SetEnvPrefix("PGMLINT")
	viper.AutomaticEnv()
}

var rootCmd = &cobra.Command{
	Use:           "pg-migration-lint",
	Short:         "Static analyzer for PostgreSQL migration files",
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
	RunE:          runRoot,
}

// Execute runs the root command and returns the process exit code:
// 0 for a clean run, 1 for findings at or above the threshold, 2 for
// tool errors.
func Execute() int {
	flags.LintFlags(rootCmd)
	rootCmd.PersistentFlags().String("explain", "", "Print a rule's explanation and exit (e.g. --explain PGM001)")
	rootCmd.PersistentFlags().String("explain-config", "", "Print the configuration reference, optionally for one section")
	rootCmd.PersistentFlags().Lookup("explain-config").NoOptDefVal = "all"

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errFindingsAboveThreshold) {
			return 1
		}
		pterm.Error.WithWriter(os.Stderr).Printfln("%v", err)
		return 2
	}
	return 0
}

func runRoot(cmd *cobra.Command, args []string) error {
	if ruleID, _ := cmd.Flags().GetString("explain"); ruleID != "" {
		return explainRule(ruleID)
	}
	if cmd.Flags().Changed("explain-config") {
		section, _ := cmd.Flags().GetString("explain-config")
		text, err := config.Explain(section)
		if err != nil {
			return err
		}
		fmt.Print(text)
		return nil
	}
	return runLint()
}

// loadConfig resolves the configuration. An explicitly requested config
// file must exist; a missing default file falls back to defaults with a
// warning.
func loadConfig() (*config.Config, error) {
	if path := flags.ConfigPath(); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return config.Load(path)
	}

	if _, err := os.Stat(config.DefaultFileName); err == nil {
		return config.Load(config.DefaultFileName)
	}
	pterm.Warning.WithWriter(os.Stderr).Printfln("Config file %s not found, using defaults", config.DefaultFileName)
	return config.Default(), nil
}
