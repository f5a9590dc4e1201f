// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package sheet reads form definitions from .xlsx workbooks.
package sheet

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/schema"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrUnknownSheet is returned when a sheet is not in the workbook.
var ErrUnknownSheet = errors.New("unknown sheet")

// Options configures a Workbook.
type Options struct {
	// SkipHidden drops rows hidden in the workbook.
	SkipHidden bool
	Logger     *zap.Logger
}

// Option configures a Workbook.
type Option func(*Options)

// WithSkipHidden drops hidden rows when enabled.
func WithSkipHidden(enabled bool) Option {
	return func(o *Options) { o.SkipHidden = enabled }
}

// WithLogger sets the logger used for reader diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) { o.Logger = log }
}

// Workbook exposes the sheets of an .xlsx file as normalized rows. The first row
// of every sheet is its header.
type Workbook struct {
	file *excelize.File
	opts Options
}

// Open opens the workbook at path.
func Open(path string, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %q", path)
	}
	return New(f, opts...), nil
}

// OpenReader reads a workbook from r.
func OpenReader(r io.Reader, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "read workbook")
	}
	return New(f, opts...), nil
}

// New wraps an open excelize file.
func New(f *excelize.File, opts ...Option) *Workbook {
	o := Options{SkipHidden: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return &Workbook{file: f, opts: o}
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Sheets returns the visible sheet names in workbook order.
func (w *Workbook) Sheets() ([]string, error) {
	var names []string
	for _, name := range w.file.GetSheetList() {
		visible, err := w.file.GetSheetVisible(name)
		if err != nil {
			return nil, errors.Wrapf(err, "sheet %q visibility", name)
		}
		if visible {
			names = append(names, name)
		}
	}
	return names, nil
}

// Headers returns the normalized header names of a sheet in column order.
// Blank headers are omitted.
func (w *Workbook) Headers(sheet string) ([]string, error) {
	rows, err := w.rows(sheet)
	if err != nil {
		return nil, err
	}
	var headers []string
	for _, h := range header(rows) {
		if h != "" {
			headers = append(headers, h)
		}
	}
	return headers, nil
}

// Rows returns the data rows of a sheet. RawRow.Index is the 0-based data row
// index, so hidden rows leave gaps and sheet row numbers stay aligned.
func (w *Workbook) Rows(sheet string) ([]schema.RawRow, error) {
	rows, err := w.rows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := header(rows)
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		if c == "" {
			continue
		}
		if seen[c] {
			w.opts.Logger.Warn("duplicate column, keeping the first",
				zap.String("sheet", sheet), zap.String("column", c))
			cols[i] = ""
		}
		seen[c] = true
	}

	out := make([]schema.RawRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if w.opts.SkipHidden {
			visible, err := w.file.GetRowVisible(sheet, i+2)
			if err != nil {
				return nil, errors.Wrapf(err, "sheet %q row %d visibility", sheet, i+2)
			}
			if !visible {
				w.opts.Logger.Debug("skipping hidden row", zap.String("sheet", sheet), zap.Int("row", i+2))
				continue
			}
		}

		row := schema.RawRow{Index: i, Cells: make(map[string]string, len(cols))}
		for j, c := range cols {
			if c == "" {
				continue
			}
			v := ""
			if j < len(cells) {
				v = strings.TrimSpace(cells[j])
			}
			row.Cells[c] = v
		}
		out = append(out, row)
	}
	return out, nil
}

func (w *Workbook) rows(sheet string) ([][]string, error) {
	if idx, err := w.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.Wrapf(ErrUnknownSheet, "%q", sheet)
	}
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read rows from sheet %q", sheet)
	}
	return rows, nil
}

func header(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}
	cols := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		cols[i] = schema.NormalizeColumn(h)
	}
	return cols
}
