// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dacolabs/formgen/internal/pipeline"
	"github.com/dacolabs/formgen/internal/session"
	"github.com/spf13/cobra"
)

type columnsOptions struct {
	sheet  string
	output string
}

func newColumnsCmd(g *globalOptions) *cobra.Command {
	opts := &columnsOptions{}

	cmd := &cobra.Command{
		Use:   "columns WORKBOOK",
		Short: "List the normalized columns of a sheet",
		Long: `List the normalized header names of a sheet and the role each plays under
the project configuration.`,
		Example: `  # Columns of the first sheet
  formgen columns survey.xlsx

  # Columns of a named sheet
  formgen columns survey.xlsx --sheet Members`,
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: g.loadSession(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runColumns(cmd.OutOrStdout(), sc, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.sheet, "sheet", "s", "", "Sheet name (defaults to the first visible sheet)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

type columnEntry struct {
	Column string `json:"column" yaml:"column"`
	Role   string `json:"role,omitempty" yaml:"role,omitempty"`
}

func runColumns(w io.Writer, sc *session.Context, path string, opts *columnsOptions) error {
	wb, err := openWorkbook(path, sc)
	if err != nil {
		return err
	}
	defer wb.Close() //nolint:errcheck

	name := opts.sheet
	if name == "" {
		names, err := wb.Sheets()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return pipeline.ErrNoSheets
		}
		name = names[0]
	}

	headers, err := wb.Headers(name)
	if err != nil {
		return err
	}

	roles := columnRoles(sc)
	entries := make([]columnEntry, len(headers))
	for i, h := range headers {
		entries[i] = columnEntry{Column: h, Role: roles[h]}
	}

	switch opts.output {
	case "json":
		return printJSON(w, entries)
	case "yaml":
		return printYAML(w, entries)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "COLUMN\tROLE")
	for _, e := range entries {
		role := e.Role
		if role == "" {
			role = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", e.Column, role)
	}
	return tw.Flush()
}

// columnRoles maps every designated and translation column to its role.
func columnRoles(sc *session.Context) map[string]string {
	cols := sc.Config.SchemaColumns()
	roles := make(map[string]string)
	for _, lang := range sc.Config.SchemaLanguages() {
		roles[cols.QuestionPrefix+lang.Column()] = "question (" + string(lang) + ")"
		roles[cols.LabelPrefix+lang.Column()] = "label (" + string(lang) + ")"
	}
	for col, role := range map[string]string{
		cols.Question: "question",
		cols.Label:    "label",
		cols.Type:     "data type",
		cols.Storage:  "storage key",
		cols.Serial:   "serial",
	} {
		if col != "" {
			roles[col] = role
		}
	}
	if opt := cols.OptionColumn(); opt != cols.Label {
		roles[opt] = "option"
	}
	return roles
}
