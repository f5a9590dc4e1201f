// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import "github.com/charmbracelet/huh"

// RunClassInput asks for the base class name.
func RunClassInput(value *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Class name").
				Prompt(": ").
				Inline(true).
				Value(value).
				Validate(classValidator),
		),
	).WithTheme(Theme()).Run()
}

// RunSheetSelect asks which sheets to generate. An empty answer selects all.
func RunSheetSelect(value *[]string, sheets []string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Sheets to generate").
				Options(stringOptions(sheets)...).
				Value(value),
		),
	).WithTheme(Theme()).Run()
}

// TargetSelect returns a select field for choosing the output target.
func TargetSelect(value *string, targets []string) *huh.Select[string] {
	return huh.NewSelect[string]().
		Title("Output target").
		Options(stringOptions(targets)...).
		Value(value)
}

// RunTargetSelect asks for the output target.
func RunTargetSelect(value *string, targets []string) error {
	return huh.NewForm(huh.NewGroup(TargetSelect(value, targets))).WithTheme(Theme()).Run()
}
