// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"

	"github.com/dacolabs/formgen/internal/pipeline"
	"github.com/dacolabs/formgen/internal/session"
	"github.com/spf13/cobra"
)

type sheetsOptions struct {
	output string
}

func newSheetsCmd(g *globalOptions) *cobra.Command {
	opts := &sheetsOptions{}

	cmd := &cobra.Command{
		Use:   "sheets WORKBOOK",
		Short: "List the sheets of a workbook",
		Long: `List the visible sheets of a workbook with the class each would generate
under the project configuration.`,
		Example: `  # List sheets
  formgen sheets survey.xlsx

  # List sheets as JSON
  formgen sheets survey.xlsx -o json`,
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: g.loadSession(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runSheets(cmd.OutOrStdout(), sc, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

type sheetEntry struct {
	Sheet string `json:"sheet" yaml:"sheet"`
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
}

func runSheets(w io.Writer, sc *session.Context, path string, opts *sheetsOptions) error {
	wb, err := openWorkbook(path, sc)
	if err != nil {
		return err
	}
	defer wb.Close() //nolint:errcheck

	names, err := wb.Sheets()
	if err != nil {
		return err
	}

	ideal := sc.Config.IdealSheet
	if ideal == "" && len(names) > 0 {
		ideal = names[0]
	}
	entries := make([]sheetEntry, len(names))
	for i, name := range names {
		entries[i] = sheetEntry{Sheet: name}
		if sc.Config.Class != "" {
			entries[i].Class = pipeline.SheetClass(sc.Config.Class, name, name == ideal)
		}
	}

	switch opts.output {
	case "json":
		return printJSON(w, entries)
	case "yaml":
		return printYAML(w, entries)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "No visible sheets.")
		return nil
	}
	for _, e := range entries {
		if e.Class == "" {
			_, _ = fmt.Fprintln(w, e.Sheet)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", e.Sheet, e.Class)
	}
	return nil
}
