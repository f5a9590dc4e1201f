// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/pipeline"
	"github.com/dacolabs/formgen/internal/prompts"
	"github.com/dacolabs/formgen/internal/session"
	"github.com/spf13/cobra"
)

// ErrValidationFailed is returned when a workbook cannot be generated as configured.
var ErrValidationFailed = errors.New("validation failed")

type validateOptions struct {
	sheets []string
	output string
}

func newValidateCmd(g *globalOptions) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate WORKBOOK",
		Short: "Check a workbook against the project configuration",
		Long: `Check that every selected sheet has the designated columns and at least one
question row, and report rows that would be skipped or reinterpreted. Nothing is
written.`,
		Example: `  # Validate the configured sheets
  formgen validate survey.xlsx

  # Validate one sheet and print the report as JSON
  formgen validate survey.xlsx --sheet Members -o json`,
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: g.loadSession(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), sc, args[0], opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.sheets, "sheet", "s", nil, "Sheet(s) to validate, comma-separated (defaults to the configured sheets)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format (text, json, yaml)")

	return cmd
}

func runValidate(w io.Writer, sc *session.Context, path string, opts *validateOptions) error {
	wb, err := openWorkbook(path, sc)
	if err != nil {
		return err
	}
	defer wb.Close() //nolint:errcheck

	po := pipeline.FromConfig(sc.Config, "")
	if len(opts.sheets) > 0 {
		po.Sheets = opts.sheets
	}
	report, err := pipeline.Validate(wb, po)
	if err != nil {
		return err
	}

	switch opts.output {
	case "json":
		err = printJSON(w, report)
	case "yaml":
		err = printYAML(w, report)
	default:
		printReport(w, report)
	}
	if err != nil {
		return err
	}

	if !report.OK() {
		return ErrValidationFailed
	}
	return nil
}

func printReport(w io.Writer, report *pipeline.Report) {
	for _, s := range report.Sheets {
		fields := []prompts.ResultField{
			{Label: "Sheet", Value: s.Sheet},
			{Label: "Class", Value: s.Class},
		}
		if len(s.Missing) == 0 {
			fields = append(fields,
				prompts.ResultField{Label: "Rows", Value: fmt.Sprint(s.Rows)},
				prompts.ResultField{Label: "Questions", Value: fmt.Sprint(s.Records)},
				prompts.ResultField{Label: "Options", Value: fmt.Sprint(s.Options)},
			)
		}
		if len(s.LanguageColumns) > 0 {
			fields = append(fields, prompts.ResultField{Label: "Translations", Value: strings.Join(s.LanguageColumns, ", ")})
		}
		prompts.PrintResult(w, fields, "")

		var warnings []string
		if len(s.Missing) > 0 {
			warnings = append(warnings, fmt.Sprintf("missing columns: %s (available: %s)",
				strings.Join(s.Missing, ", "), strings.Join(s.Available, ", ")))
		}
		for _, p := range s.Problems {
			if p.Row > 0 {
				warnings = append(warnings, fmt.Sprintf("row %d: %s", p.Row, p.Reason))
				continue
			}
			warnings = append(warnings, p.Reason)
		}
		prompts.PrintWarnings(w, warnings)
	}
}
