// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package pipeline runs one generation: column validation, row normalization,
// schema accumulation and emission for an ideal sheet plus extra sheets.
package pipeline

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/emit"
	"github.com/dacolabs/formgen/internal/schema"
	"go.uber.org/zap"
)

var (
	// ErrNoRows is returned when a sheet yields no question rows.
	ErrNoRows = errors.New("no rows survived filtering")
	// ErrNoSheets is returned when there is nothing to generate.
	ErrNoSheets = errors.New("no sheets selected")
	// ErrInvalidClass is returned when the class name cannot name generated code.
	ErrInvalidClass = errors.New("invalid class name")
	// ErrUnknownSheet is returned when a selected sheet is not in the source.
	ErrUnknownSheet = errors.New("not found")
	// ErrClassCollision is returned when two selected sheets generate the same class.
	ErrClassCollision = errors.New("sheets generate the same class")
)

// RowSource provides sheets of normalized rows.
type RowSource interface {
	Sheets() ([]string, error)
	Headers(sheet string) ([]string, error)
	Rows(sheet string) ([]schema.RawRow, error)
}

// Options configures a run.
type Options struct {
	// Class names the generated code of the ideal sheet. Other sheets use
	// <Class>_<Sheet>.
	Class string
	// IdealSheet defaults to the first selected sheet.
	IdealSheet string
	// Sheets to generate. Empty selects every sheet of the source.
	Sheets    []string
	Columns   schema.Columns
	Languages []schema.Language
	// KeySuffix is appended to every localization accessor; empty leaves keys bare.
	KeySuffix string
	// Include is an optional row condition, see Filter.
	Include string
	// Date is stamped into generated headers.
	Date string
}

// DefaultOptions returns Options with the conventional columns, languages and
// key suffix.
func DefaultOptions(class string) Options {
	return Options{
		Class:     class,
		Columns:   schema.DefaultColumns(),
		Languages: schema.DefaultLanguages,
		KeySuffix: schema.DefaultKeySuffix,
	}
}

// SheetResult describes the outcome for one sheet.
type SheetResult struct {
	Sheet   string
	Class   string
	Schema  *schema.Schema
	Rows    int // data rows read
	Records int // question records
	Options int // option rows
	Skipped int // rows that yielded nothing or were filtered out
}

// Result is the outcome of a run.
type Result struct {
	Sheets []SheetResult
	// Shared is the merged run-wide schema the shared files were emitted from.
	Shared *schema.Schema
	Files  []emit.File
}

type target struct {
	sheet string
	class string
}

// Run generates the file set for every selected sheet. Every sheet is validated
// before any row is read, and no files are returned unless every sheet succeeds.
func Run(ctx context.Context, src RowSource, opts Options, e emit.Emitter, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	targets, err := plan(src, opts)
	if err != nil {
		return nil, err
	}
	for _, t := range targets {
		headers, err := src.Headers(t.sheet)
		if err != nil {
			return nil, errors.Wrapf(err, "read headers of sheet %q", t.sheet)
		}
		if err := schema.ValidateColumns(t.sheet, headers, opts.Columns); err != nil {
			return nil, err
		}
	}

	filter, err := CompileFilter(opts.Include)
	if err != nil {
		return nil, err
	}

	reg := schema.NewKeyRegistry(opts.KeySuffix)
	res := &Result{}
	var files []emit.File
	schemas := make([]*schema.Schema, 0, len(targets))

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "generation cancelled")
		}
		slog := log.With(zap.String("sheet", t.sheet), zap.String("class", t.class))

		sr, err := accumulateSheet(src, t, opts, filter, reg, slog)
		if err != nil {
			return nil, err
		}

		out, err := e.Emit(sr.Schema, emit.Meta{Class: t.class, Date: opts.Date})
		if err != nil {
			return nil, errors.Wrapf(err, "emit sheet %q", t.sheet)
		}
		if files, err = emit.Append(files, out...); err != nil {
			return nil, errors.Wrapf(err, "emit sheet %q", t.sheet)
		}
		schemas = append(schemas, sr.Schema)
		res.Sheets = append(res.Sheets, sr)

		slog.Info("sheet accumulated",
			zap.Int("rows", sr.Rows),
			zap.Int("records", sr.Records),
			zap.Int("options", sr.Options),
			zap.Int("skipped", sr.Skipped))
	}

	res.Shared = schema.MergeShared(log, schemas...)
	shared, err := e.EmitShared(res.Shared, emit.Meta{Class: targets[0].class, Date: opts.Date})
	if err != nil {
		return nil, errors.Wrap(err, "emit shared files")
	}
	if res.Files, err = emit.Append(files, shared...); err != nil {
		return nil, errors.Wrap(err, "emit shared files")
	}

	log.Info("generation complete", zap.Int("sheets", len(res.Sheets)), zap.Int("files", len(res.Files)))
	return res, nil
}

func accumulateSheet(
	src RowSource, t target, opts Options, filter *Filter, reg *schema.KeyRegistry, log *zap.Logger,
) (SheetResult, error) {
	rows, err := src.Rows(t.sheet)
	if err != nil {
		return SheetResult{}, errors.Wrapf(err, "read rows of sheet %q", t.sheet)
	}

	sr := SheetResult{Sheet: t.sheet, Class: t.class, Rows: len(rows)}
	n := schema.NewNormalizer(opts.Columns, opts.Languages, log)
	items := make([]schema.Item, 0, len(rows))
	for _, row := range rows {
		include, err := filter.Include(t.sheet, row)
		if errors.Is(err, ErrInvalidFilter) {
			return SheetResult{}, err
		}
		if err != nil {
			log.Warn("skipping row", zap.Int("row", row.SheetRow()), zap.Error(err))
			sr.Skipped++
			continue
		}
		if !include {
			log.Debug("row excluded by include condition", zap.Int("row", row.SheetRow()))
			sr.Skipped++
			continue
		}

		item, ok := n.Normalize(row)
		if !ok {
			sr.Skipped++
			continue
		}
		if item.Record != nil {
			sr.Records++
		}
		if item.Option != nil {
			sr.Options++
		}
		items = append(items, item)
	}

	if sr.Records == 0 {
		return SheetResult{}, errors.WithHintf(
			errors.Wrapf(ErrNoRows, "sheet %q", t.sheet),
			"rows need both %q and %q", opts.Columns.Question, opts.Columns.Label)
	}

	sr.Schema = schema.Accumulate(t.class, items, schema.AccumulateOptions{
		Languages: opts.Languages,
		Registry:  reg,
		Logger:    log,
	})
	return sr, nil
}

// plan resolves the sheets to generate, ideal sheet first, and their class names.
func plan(src RowSource, opts Options) ([]target, error) {
	if !schema.IsClassName(opts.Class) {
		return nil, errors.Wrapf(ErrInvalidClass, "%q", opts.Class)
	}

	available, err := src.Sheets()
	if err != nil {
		return nil, errors.Wrap(err, "list sheets")
	}
	known := make(map[string]bool, len(available))
	for _, s := range available {
		known[s] = true
	}

	selected := opts.Sheets
	if len(selected) == 0 {
		selected = available
	}
	if len(selected) == 0 {
		return nil, ErrNoSheets
	}

	ideal := opts.IdealSheet
	if ideal == "" {
		ideal = selected[0]
	}

	ordered := []string{ideal}
	for _, s := range selected {
		if s != ideal {
			ordered = append(ordered, s)
		}
	}

	targets := make([]target, 0, len(ordered))
	seen := make(map[string]bool, len(ordered))
	classes := make(map[string]string, len(ordered)) // lowercase class -> sheet
	for _, s := range ordered {
		if seen[s] {
			continue
		}
		seen[s] = true
		if !known[s] {
			return nil, errors.WithHintf(errors.Wrapf(ErrUnknownSheet, "sheet %q", s),
				"available sheets: %v", available)
		}
		class := SheetClass(opts.Class, s, s == ideal)
		if other, ok := classes[strings.ToLower(class)]; ok {
			return nil, errors.WithHint(
				errors.Wrapf(ErrClassCollision, "sheets %q and %q both generate %s", other, s, class),
				"rename one of the sheets or leave it out of the selection")
		}
		classes[strings.ToLower(class)] = s
		targets = append(targets, target{sheet: s, class: class})
	}
	return targets, nil
}

// SheetClass returns the class generated for a sheet: class itself for the ideal
// sheet, otherwise class_<SheetName>.
func SheetClass(class, sheet string, ideal bool) string {
	if ideal {
		return class
	}
	return class + "_" + schema.ToPascalCase(schema.Sanitize(sheet))
}
