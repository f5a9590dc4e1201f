// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package sheet

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// newWorkbook builds a workbook with a "Survey" sheet and a hidden "Notes" sheet.
func newWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	sheet := "Survey"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	rows := [][]any{
		{"Questions in English", " Field Names In English ", "Data Type", "Database", "", "Questions in English"},
		{"What is your name?", "Name", "Text", "person"},
		{"Secret", "Secret", "Text", "person"},
		{"Pick a fruit", "Fruit", "Dropdown", "fruit_choice", "ignored", "duplicate"},
		{nil, "  Apple  "},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, f.SetRowVisible(sheet, 3, false))

	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "A1", "scratch"))
	require.NoError(t, f.SetSheetVisible("Notes", false))

	_, err = f.NewSheet("Members")
	require.NoError(t, err)
	return f
}

func TestWorkbook_Sheets(t *testing.T) {
	w := New(newWorkbook(t))
	sheets, err := w.Sheets()
	require.NoError(t, err)
	assert.Equal(t, []string{"Survey", "Members"}, sheets)
}

func TestWorkbook_Headers(t *testing.T) {
	w := New(newWorkbook(t))
	headers, err := w.Headers("Survey")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"questions_in_english", "field_names_in_english", "data_type", "database", "questions_in_english",
	}, headers)
}

func TestWorkbook_RowsSkipsHidden(t *testing.T) {
	w := New(newWorkbook(t))
	rows, err := w.Rows("Survey")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, "What is your name?", rows[0].Cells["questions_in_english"])
	assert.Equal(t, "person", rows[0].Cells["database"])

	assert.Equal(t, 2, rows[1].Index, "hidden row keeps its index slot")
	assert.Equal(t, 4, rows[1].SheetRow())
	assert.Equal(t, "Pick a fruit", rows[1].Cells["questions_in_english"], "first duplicate column wins")

	assert.Equal(t, "Apple", rows[2].Cells["field_names_in_english"])
	assert.Equal(t, "", rows[2].Cells["questions_in_english"])
	assert.Equal(t, "", rows[2].Cells["database"], "short rows are padded")
	assert.NotContains(t, rows[2].Cells, "")
}

func TestWorkbook_RowsKeepsHidden(t *testing.T) {
	w := New(newWorkbook(t), WithSkipHidden(false))
	rows, err := w.Rows("Survey")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Secret", rows[1].Cells["field_names_in_english"])
}

func TestWorkbook_EmptySheet(t *testing.T) {
	w := New(newWorkbook(t))
	rows, err := w.Rows("Members")
	require.NoError(t, err)
	assert.Empty(t, rows)

	headers, err := w.Headers("Members")
	require.NoError(t, err)
	assert.Empty(t, headers)
}

func TestWorkbook_UnknownSheet(t *testing.T) {
	w := New(newWorkbook(t))
	_, err := w.Rows("Nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSheet))
}

func TestOpenAndOpenReader(t *testing.T) {
	f := newWorkbook(t)
	path := filepath.Join(t.TempDir(), "form.xlsx")
	require.NoError(t, f.SaveAs(path))

	w, err := Open(path)
	require.NoError(t, err)
	defer w.Close()
	sheets, err := w.Sheets()
	require.NoError(t, err)
	assert.Contains(t, sheets, "Survey")

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	r, err := OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer r.Close()
	rows, err := r.Rows("Survey")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
