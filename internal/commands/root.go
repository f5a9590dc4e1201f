// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"github.com/dacolabs/formgen/internal/logging"
	"github.com/dacolabs/formgen/internal/session"
	"github.com/spf13/cobra"

	// Register emitters
	_ "github.com/dacolabs/formgen/internal/emit/dart"
	_ "github.com/dacolabs/formgen/internal/emit/jschema"
	_ "github.com/dacolabs/formgen/internal/emit/markdown"
)

type globalOptions struct {
	logJSON  bool
	logLevel string
}

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "formgen",
		Short: "Generate form client code from spreadsheet schemas",
		Long: `formgen reads a form definition from an .xlsx workbook, one question per
row, and generates the model, widget, localization and setup files of a form.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCmd(),
		newSheetsCmd(g),
		newColumnsCmd(g),
		newValidateCmd(g),
		newGenerateCmd(g),
		newServeCmd(g),
		newVersionCmd(),
	)

	return rootCmd
}

// loadSession returns a PersistentPreRunE that loads the project context,
// applies the global log flags on top of it and points the logger at the
// command's stderr.
func (g *globalOptions) loadSession(required bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		load := session.PreRunLoadOrDefault
		if required {
			load = session.PreRunLoad
		}
		if err := load(cmd, args); err != nil {
			return err
		}

		sc := session.FromCommand(cmd)
		flags := cmd.Flags()
		if flags.Changed("log-json") {
			sc.Config.Log.JSON = g.logJSON
		}
		if flags.Changed("log-level") {
			sc.Config.Log.Level = g.logLevel
		}
		log, err := logging.NewWithWriter(cmd.ErrOrStderr(), sc.Config.Log.JSON, sc.Config.Log.Level)
		if err != nil {
			return err
		}
		sc.Logger = log
		return nil
	}
}
