// Package cmd implements the backrex command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backrex",
	Short: "Pattern tools built on the backrex engine",
	Long: `backrex drives the backtracking pattern engine from the command line.

It bundles a grep over files and globs, an interactive pattern tester
with AST inspection and tracing, and two small text processors (CSV and
Fountain screenplays) that exercise the engine end to end.`,
}

// Execute runs the root command. It is called once from main.
func Execute() error {
	return rootCmd.Execute()
}
