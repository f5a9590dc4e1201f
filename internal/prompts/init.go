// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/dacolabs/formgen/internal/config"
)

// InitAnswers are the values collected by RunInitForm.
type InitAnswers struct {
	Class      string
	Sheets     []string
	IdealSheet string
	Columns    config.Columns
	Languages  string
	Output     string
}

// Apply copies the answers onto cfg.
func (a *InitAnswers) Apply(cfg *config.Config) {
	cfg.Class = a.Class
	cfg.Sheets = a.Sheets
	cfg.IdealSheet = a.IdealSheet
	cfg.Columns = a.Columns
	if langs := SplitList(a.Languages); len(langs) > 0 {
		cfg.Languages = langs
	}
	if a.Output != "" {
		cfg.Output = a.Output
	}
}

// NewInitAnswers seeds the form from cfg.
func NewInitAnswers(cfg *config.Config) *InitAnswers {
	return &InitAnswers{
		Class:      cfg.Class,
		Sheets:     cfg.Sheets,
		IdealSheet: cfg.IdealSheet,
		Columns:    cfg.Columns,
		Languages:  strings.Join(cfg.Languages, ", "),
		Output:     cfg.Output,
	}
}

// RunInitForm runs the interactive form for the init command. sheets and
// headers come from the workbook when one was given; without them the form
// falls back to free-text inputs.
func RunInitForm(a *InitAnswers, sheets, headers []string) error {
	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title("Class name").
				Placeholder("e.g., Household").
				Value(&a.Class).
				Validate(classValidator),
		),
	}

	if len(sheets) > 1 {
		groups = append(groups,
			huh.NewGroup(
				huh.NewMultiSelect[string]().
					Title("Sheets to generate").
					Description("Leave empty to generate every visible sheet").
					Options(stringOptions(sheets)...).
					Value(&a.Sheets),
			),
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Ideal sheet").
					Description("Generates the class without a sheet suffix").
					Options(append([]huh.Option[string]{huh.NewOption("(none)", "")}, stringOptions(sheets)...)...).
					Value(&a.IdealSheet),
			),
		)
	}

	groups = append(groups, columnsGroup(&a.Columns, headers))
	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("Languages").
			Description("Comma-separated; the first is the source language").
			Value(&a.Languages).
			Validate(requiredValidator("at least one language")),
		huh.NewInput().
			Title("Output directory").
			Value(&a.Output).
			Validate(requiredValidator("output directory")),
	))

	return huh.NewForm(groups...).WithTheme(Theme()).Run()
}

func columnsGroup(cols *config.Columns, headers []string) *huh.Group {
	if len(headers) == 0 {
		return huh.NewGroup(
			columnInput("Question column", &cols.Question),
			columnInput("Label column", &cols.Label),
			columnInput("Data type column", &cols.Type),
			columnInput("Storage key column", &cols.Storage),
			huh.NewInput().Title("Serial column").Placeholder("optional").Value(&cols.Serial),
		)
	}

	optional := append([]huh.Option[string]{huh.NewOption("(none)", "")}, stringOptions(headers)...)
	return huh.NewGroup(
		columnSelect("Question column", headers, &cols.Question),
		columnSelect("Label column", headers, &cols.Label),
		columnSelect("Data type column", headers, &cols.Type),
		columnSelect("Storage key column", headers, &cols.Storage),
		huh.NewSelect[string]().
			Title("Serial column").
			Options(optional...).
			Value(&cols.Serial),
	)
}

func columnInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Prompt(": ").
		Inline(true).
		Value(value).
		Validate(requiredValidator(strings.ToLower(title)))
}

func columnSelect(title string, headers []string, value *string) *huh.Select[string] {
	return huh.NewSelect[string]().
		Title(title).
		Options(stringOptions(headers)...).
		Filtering(true).
		Height(8).
		Value(value)
}
