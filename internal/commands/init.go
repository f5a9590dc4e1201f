// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/config"
	"github.com/dacolabs/formgen/internal/prompts"
	"github.com/dacolabs/formgen/internal/sheet"
	"github.com/spf13/cobra"
)

type initOptions struct {
	class          string
	workbook       string
	sheets         []string
	ideal          string
	languages      []string
	output         string
	nonInteractive bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new formgen project",
		Long: `Initialize a new formgen project with a formgen.yaml configuration file.
With --workbook the form offers the workbook's sheets and columns as choices.`,
		Example: `  # Interactive mode
  formgen init --workbook survey.xlsx

  # Non-interactive
  formgen init --class Survey --languages English,Tamil --non-interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, "failed to get current directory")
			}
			return runInit(cmd, cwd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.class, "class", "c", "", "Base class name")
	cmd.Flags().StringVarP(&opts.workbook, "workbook", "w", "", "Workbook to read sheet and column choices from")
	cmd.Flags().StringSliceVarP(&opts.sheets, "sheet", "s", nil, "Sheet(s) to generate, comma-separated")
	cmd.Flags().StringVar(&opts.ideal, "ideal", "", "Sheet that generates the unsuffixed class")
	cmd.Flags().StringSliceVarP(&opts.languages, "languages", "l", nil, "Languages, comma-separated; the first is the source language")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory for generated files")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts (requires --class)")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts *initOptions) error {
	configPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return errors.Newf("%s already exists; project already initialized", config.FileName)
	}

	cfg := config.Default()
	cfg.Class = opts.class
	cfg.Sheets = opts.sheets
	cfg.IdealSheet = opts.ideal
	if len(opts.languages) > 0 {
		cfg.Languages = opts.languages
	}
	if opts.output != "" {
		cfg.Output = opts.output
	}

	if opts.nonInteractive {
		if opts.class == "" {
			return errors.New("non-interactive mode requires --class")
		}
	} else {
		sheets, headers, err := workbookChoices(opts.workbook, opts.sheets)
		if err != nil {
			return err
		}
		answers := prompts.NewInitAnswers(cfg)
		if err := prompts.RunInitForm(answers, sheets, headers); err != nil {
			return err
		}
		answers.Apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if err := cfg.Save(configPath); err != nil {
		return errors.Wrapf(err, "failed to write %s", config.FileName)
	}

	prompts.PrintResult(cmd.OutOrStdout(), []prompts.ResultField{
		{Label: "Config", Value: configPath},
		{Label: "Class", Value: cfg.Class},
	}, "Initialization completed")
	return nil
}

// workbookChoices returns the visible sheets of path and the headers of the
// first selected sheet. An empty path yields no choices.
func workbookChoices(path string, selected []string) ([]string, []string, error) {
	if path == "" {
		return nil, nil, nil
	}
	wb, err := sheet.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer wb.Close() //nolint:errcheck

	sheets, err := wb.Sheets()
	if err != nil {
		return nil, nil, err
	}
	if len(sheets) == 0 {
		return nil, nil, nil
	}

	first := sheets[0]
	if len(selected) > 0 {
		first = selected[0]
	}
	headers, err := wb.Headers(first)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read columns of %q", first)
	}
	return sheets, headers, nil
}
