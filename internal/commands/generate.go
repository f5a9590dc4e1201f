// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/emit"
	"github.com/dacolabs/formgen/internal/output"
	"github.com/dacolabs/formgen/internal/pipeline"
	"github.com/dacolabs/formgen/internal/prompts"
	"github.com/dacolabs/formgen/internal/session"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	class          string
	sheets         []string
	ideal          string
	target         string
	output         string
	include        string
	date           string
	zip            string
	nonInteractive bool
}

func newGenerateCmd(g *globalOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate WORKBOOK",
		Short: "Generate form code from a workbook",
		Long: fmt.Sprintf(`Generate the model, widget, localization and setup files of a form from a
workbook. Flags override formgen.yaml; without a formgen.yaml the conventional
column layout is assumed.

Available targets: %s`, strings.Join(emit.Available(), ", ")),
		Example: `  # Interactive mode
  formgen generate survey.xlsx

  # Generate one class from two sheets
  formgen generate survey.xlsx --class Survey --sheet Household,Members --ideal Household

  # Write a zip archive instead of a directory
  formgen generate survey.xlsx --class Survey --zip survey.zip --non-interactive`,
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: g.loadSession(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runGenerate(cmd, sc, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.class, "class", "c", "", "Base class name")
	cmd.Flags().StringSliceVarP(&opts.sheets, "sheet", "s", nil, "Sheet(s) to generate, comma-separated (defaults to all visible sheets)")
	cmd.Flags().StringVar(&opts.ideal, "ideal", "", "Sheet that generates the unsuffixed class (defaults to the first selected sheet)")
	cmd.Flags().StringVarP(&opts.target, "target", "t", "", fmt.Sprintf("Output target (%s)", strings.Join(emit.Available(), ", ")))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory")
	cmd.Flags().StringVar(&opts.include, "include", "", `Row condition, e.g. 'row.database != "internal"'`)
	cmd.Flags().StringVar(&opts.date, "date", "", "Date stamped into generated headers (defaults to today)")
	cmd.Flags().StringVar(&opts.zip, "zip", "", "Write a zip archive to this path instead of the output directory")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts")

	return cmd
}

func runGenerate(cmd *cobra.Command, sc *session.Context, path string, opts *generateOptions) error {
	cfg := sc.Config
	flags := cmd.Flags()
	if flags.Changed("class") {
		cfg.Class = opts.class
	}
	if flags.Changed("sheet") {
		cfg.Sheets = opts.sheets
	}
	if flags.Changed("ideal") {
		cfg.IdealSheet = opts.ideal
	}
	if flags.Changed("target") {
		cfg.Target = opts.target
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if flags.Changed("include") {
		cfg.Include = opts.include
	}

	wb, err := openWorkbook(path, sc)
	if err != nil {
		return err
	}
	defer wb.Close() //nolint:errcheck

	if !opts.nonInteractive {
		if err := promptMissing(cfg.Class == "", &cfg.Class, &cfg.Sheets, wb.Sheets); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	e, err := emit.Get(cfg.Target)
	if err != nil {
		return err
	}

	date := opts.date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	res, err := pipeline.Run(cmd.Context(), wb, pipeline.FromConfig(cfg, date), e, sc.Logger)
	if err != nil {
		return err
	}

	written, err := writeFiles(res.Files, cfg.Output, opts.zip)
	if err != nil {
		return err
	}

	printGenerateResult(cmd.OutOrStdout(), res, written)
	return nil
}

// promptMissing asks for the class and, with more than one sheet, the sheet
// selection when neither is configured.
func promptMissing(askClass bool, class *string, sheets *[]string, list func() ([]string, error)) error {
	if askClass {
		if err := prompts.RunClassInput(class); err != nil {
			return err
		}
	}
	if len(*sheets) > 0 {
		return nil
	}
	available, err := list()
	if err != nil {
		return err
	}
	if len(available) < 2 {
		return nil
	}
	return prompts.RunSheetSelect(sheets, available)
}

func writeFiles(files []emit.File, dir, zipPath string) ([]string, error) {
	if zipPath == "" {
		return output.Write(dir, files)
	}

	if parent := filepath.Dir(zipPath); parent != "." {
		if err := os.MkdirAll(parent, 0o750); err != nil {
			return nil, errors.Wrap(err, "failed to create archive directory")
		}
	}
	f, err := os.Create(zipPath) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, errors.Wrap(err, "failed to create archive")
	}
	if err := output.Zip(f, files); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to close archive")
	}
	return []string{zipPath}, nil
}

func printGenerateResult(w io.Writer, res *pipeline.Result, written []string) {
	fields := make([]prompts.ResultField, 0, len(res.Sheets)+1)
	var warnings []string
	for _, s := range res.Sheets {
		fields = append(fields, prompts.ResultField{
			Label: s.Sheet,
			Value: fmt.Sprintf("%s, %d questions, %d options", s.Class, s.Records, s.Options),
		})
		if s.Skipped > 0 {
			warnings = append(warnings, fmt.Sprintf("%s: %d row(s) skipped", s.Sheet, s.Skipped))
		}
	}
	fields = append(fields, prompts.ResultField{Label: "Files", Value: strings.Join(written, ", ")})

	prompts.PrintResult(w, fields, fmt.Sprintf("Generated %d file(s)", len(res.Files)))
	prompts.PrintWarnings(w, warnings)
}
