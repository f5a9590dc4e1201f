// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package pipeline

import (
	"fmt"
	"strings"

	"github.com/dacolabs/formgen/internal/schema"
)

// Problem is a row-level finding. Row is the spreadsheet row number.
type Problem struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// SheetReport is the validation outcome of one sheet.
type SheetReport struct {
	Sheet           string    `json:"sheet"`
	Class           string    `json:"class"`
	Missing         []string  `json:"missing,omitempty"`
	Available       []string  `json:"available,omitempty"`
	LanguageColumns []string  `json:"language_columns,omitempty"`
	Rows            int       `json:"rows"`
	Records         int       `json:"records"`
	Options         int       `json:"options"`
	Problems        []Problem `json:"problems,omitempty"`
}

// OK reports whether the sheet can be generated.
func (r SheetReport) OK() bool {
	return len(r.Missing) == 0 && r.Records > 0
}

// Report is the validation outcome of a run.
type Report struct {
	Sheets []SheetReport `json:"sheets"`
}

// OK reports whether every sheet can be generated.
func (r *Report) OK() bool {
	for _, s := range r.Sheets {
		if !s.OK() {
			return false
		}
	}
	return len(r.Sheets) > 0
}

// Validate inspects the selected sheets without emitting anything. Configuration
// defects are reported, not returned; the error is reserved for failures to read
// the source or to compile the include condition.
func Validate(src RowSource, opts Options) (*Report, error) {
	targets, err := plan(src, opts)
	if err != nil {
		return nil, err
	}
	filter, err := CompileFilter(opts.Include)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, t := range targets {
		headers, err := src.Headers(t.sheet)
		if err != nil {
			return nil, err
		}
		sr := SheetReport{
			Sheet:           t.sheet,
			Class:           t.class,
			Missing:         schema.MissingColumns(headers, opts.Columns),
			Available:       headers,
			LanguageColumns: schema.LanguageColumns(headers, opts.Columns, opts.Languages),
		}
		if len(sr.Missing) > 0 {
			report.Sheets = append(report.Sheets, sr)
			continue
		}

		rows, err := src.Rows(t.sheet)
		if err != nil {
			return nil, err
		}
		sr.Rows = len(rows)

		n := schema.NewNormalizer(opts.Columns, opts.Languages, nil)
		for _, row := range rows {
			include, err := filter.Include(t.sheet, row)
			if err != nil {
				sr.Problems = append(sr.Problems, Problem{Row: row.SheetRow(), Reason: err.Error()})
				continue
			}
			if !include {
				continue
			}
			sr.Problems = append(sr.Problems, inspect(row, opts.Columns)...)

			item, ok := n.Normalize(row)
			if !ok {
				continue
			}
			if item.Record != nil {
				sr.Records++
			}
			if item.Option != nil {
				sr.Options++
			}
		}
		if sr.Records == 0 {
			sr.Problems = append(sr.Problems, Problem{Reason: ErrNoRows.Error()})
		}
		report.Sheets = append(report.Sheets, sr)
	}
	return report, nil
}

// inspect reports rows that will be skipped or silently reinterpreted.
func inspect(row schema.RawRow, cols schema.Columns) []Problem {
	question := row.Cell(cols.Question)
	label := row.Cell(cols.Label)
	rawType := row.Cell(cols.Type)

	var problems []Problem
	switch {
	case question != "" && label == "":
		problems = append(problems, Problem{Row: row.SheetRow(), Reason: fmt.Sprintf("question %q has no label, row skipped", question)})
	case question == "" && label == "" && rawType != "":
		problems = append(problems, Problem{Row: row.SheetRow(), Reason: "data type set on an empty row"})
	}
	if question != "" && rawType != "" && schema.Classify(rawType) == schema.Text &&
		!strings.Contains(strings.ToLower(rawType), "text") {
		problems = append(problems, Problem{Row: row.SheetRow(), Reason: fmt.Sprintf("unrecognized data type %q, treated as Text", rawType)})
	}
	return problems
}
