// SPDX-License-Identifier: Apache-2.0

package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func ConfigPath() string {
	return viper.GetString("CONFIG")
}

func ChangedFiles() string {
	return viper.GetString("CHANGED_FILES")
}

func ChangedFilesFrom() string {
	return viper.GetString("CHANGED_FILES_FROM")
}

func Format() string {
	return viper.GetString("FORMAT")
}

func FailOn() string {
	return viper.GetString("FAIL_ON")
}

// LintFlags registers the lint flags on a command and binds them so each
// can also be set through the PGMLINT_ environment.
func LintFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file")
	cmd.PersistentFlags().String("changed-files", "", "Comma-separated list of changed files to lint")
	cmd.PersistentFlags().String("changed-files-from", "", "Path to file containing changed file paths (one per line)")
	cmd.PersistentFlags().String("format", "", "Override output format (text, sarif, sonarqube)")
	cmd.PersistentFlags().String("fail-on", "", "Override exit code threshold (blocker, critical, major, minor, info, none)")

	viper.BindPFlag("CONFIG", cmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("CHANGED_FILES", cmd.PersistentFlags().Lookup("changed-files"))
	viper.BindPFlag("CHANGED_FILES_FROM", cmd.PersistentFlags().Lookup("changed-files-from"))
	viper.BindPFlag("FORMAT", cmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("FAIL_ON", cmd.PersistentFlags().Lookup("fail-on"))
}
