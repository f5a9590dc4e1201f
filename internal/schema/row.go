// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// DefaultLanguages is the language set used when none is configured.
var DefaultLanguages = []Language{"English", "Tamil", "Sinhala"}

// Language is a display name such as "English". Its lowercase form is the column
// suffix, e.g. "questions_in_english".
type Language string

// Column returns the language's column suffix.
func (l Language) Column() string {
	return NormalizeColumn(string(l))
}

// Columns names the spreadsheet columns the normalizer reads. All names are in
// normalized form (see NormalizeColumn).
type Columns struct {
	Question string // question text in the source language
	Label    string // field label in the source language
	Type     string // free-text data type
	Storage  string // storage/database discriminator
	Serial   string // optional question serial
	Option   string // optional option text column; defaults to Label

	QuestionPrefix string // per-language question columns, e.g. "questions_in_"
	LabelPrefix    string // per-language label/option columns, e.g. "field_names_in_"
}

// DefaultColumns returns the conventional column layout.
func DefaultColumns() Columns {
	return Columns{
		Question:       "questions_in_english",
		Label:          "field_names_in_english",
		Type:           "data_type",
		Storage:        "database",
		QuestionPrefix: "questions_in_",
		LabelPrefix:    "field_names_in_",
	}
}

// OptionColumn returns the column option rows are read from.
func (c Columns) OptionColumn() string {
	if c.Option != "" {
		return c.Option
	}
	return c.Label
}

// RawRow is one spreadsheet data row keyed by normalized column name.
type RawRow struct {
	// Index is the 0-based data row index; the sheet row number is Index + 2.
	Index int
	Cells map[string]string
}

// Cell returns the trimmed value of a column, or "" if absent.
func (r RawRow) Cell(column string) string {
	if column == "" {
		return ""
	}
	return strings.TrimSpace(r.Cells[column])
}

// SheetRow returns the 1-based spreadsheet row number (header is row 1).
func (r RawRow) SheetRow() int {
	return r.Index + 2
}

// Translation is the display text of one record in one language.
type Translation struct {
	Question string
	Label    string
}

// Record is the canonical, immutable form of one surviving question row.
type Record struct {
	Question      string
	Label         string
	Kind          FieldKind
	StorageKey    string
	Discriminator string
	Serial        string
	Translations  map[Language]Translation
	QuestionKey   string
	LabelKey      string
	Ordinal       int
}

// Option is one choice option row attached to a discriminator.
type Option struct {
	Text          string
	Discriminator string
	Translations  map[Language]string
	Ordinal       int
}

// Item is the result of normalizing one row. A row yields a Record, an Option,
// or both when a choice question also carries an option cell.
type Item struct {
	Record *Record
	Option *Option
}

// Normalizer converts RawRows into Items. It carries the forward-filled type and
// discriminator used to attach option rows to the question above them, so one
// Normalizer must see the rows of a sheet in order.
type Normalizer struct {
	cols      Columns
	languages []Language
	source    Language
	log       *zap.Logger

	lastType string
	lastDisc string
}

// NewNormalizer creates a Normalizer. A nil logger discards diagnostics.
func NewNormalizer(cols Columns, languages []Language, log *zap.Logger) *Normalizer {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{
		cols:      cols,
		languages: languages,
		source:    SourceLanguage(languages),
		log:       log,
	}
}

// SourceLanguage returns the language the designated question and label columns are
// written in: English when present, otherwise the first language.
func SourceLanguage(languages []Language) Language {
	for _, l := range languages {
		if strings.EqualFold(string(l), "english") {
			return l
		}
	}
	if len(languages) == 0 {
		return DefaultLanguages[0]
	}
	return languages[0]
}

// Normalize converts one row. It returns false when the row yields nothing.
// Row-level defects are logged and skipped, never returned.
func (n *Normalizer) Normalize(row RawRow) (item Item, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Warn("skipping row",
				zap.Int("row", row.SheetRow()),
				zap.String("reason", fmt.Sprint(r)))
			item, ok = Item{}, false
		}
	}()

	item, err := n.normalize(row)
	if err != nil {
		n.log.Warn("skipping row", zap.Int("row", row.SheetRow()), zap.Error(err))
		return Item{}, false
	}
	return item, item.Record != nil || item.Option != nil
}

func (n *Normalizer) normalize(row RawRow) (Item, error) {
	question := row.Cell(n.cols.Question)
	label := row.Cell(n.cols.Label)
	rawType := row.Cell(n.cols.Type)
	disc := row.Cell(n.cols.Storage)

	for _, c := range []struct{ col, value string }{
		{n.cols.Question, question},
		{n.cols.Label, label},
		{n.cols.Type, rawType},
		{n.cols.Storage, disc},
	} {
		if !utf8.ValidString(c.value) {
			return Item{}, errors.Newf("column %q holds malformed text", c.col)
		}
	}

	var item Item
	if question != "" && label != "" {
		item.Record = n.record(row, question, label, rawType, disc)
		n.lastType = rawType
		n.lastDisc = item.Record.Discriminator
	} else {
		if rawType != "" {
			n.lastType = rawType
		}
		if disc != "" {
			n.lastDisc = disc
		}
	}

	item.Option = n.option(row, question)

	if item.Record == nil && item.Option == nil {
		n.log.Debug("row has no question or option", zap.Int("row", row.SheetRow()))
	}
	return item, nil
}

func (n *Normalizer) record(row RawRow, question, label, rawType, disc string) *Record {
	kind := Classify(rawType)
	storageKey := Sanitize(label)
	if disc == "" && kind.IsChoice() {
		disc = storageKey
	}

	translations := make(map[Language]Translation, len(n.languages))
	for _, lang := range n.languages {
		t := Translation{
			Question: row.Cell(n.cols.QuestionPrefix + lang.Column()),
			Label:    row.Cell(n.cols.LabelPrefix + lang.Column()),
		}
		if lang == n.source {
			if t.Question == "" {
				t.Question = question
			}
			if t.Label == "" {
				t.Label = label
			}
		}
		if t.Question != "" || t.Label != "" {
			translations[lang] = t
		}
	}

	return &Record{
		Question:      question,
		Label:         label,
		Kind:          kind,
		StorageKey:    storageKey,
		Discriminator: disc,
		Serial:        row.Cell(n.cols.Serial),
		Translations:  translations,
		QuestionKey:   Sanitize(question),
		LabelKey:      Sanitize(label),
		Ordinal:       row.Index,
	}
}

// option returns the option carried by a row, if any. Pure option rows have no
// question; a question row only carries an option when the option column differs
// from the label column.
func (n *Normalizer) option(row RawRow, question string) *Option {
	col := n.cols.OptionColumn()
	if question != "" && col == n.cols.Label {
		return nil
	}
	text := row.Cell(col)
	if text == "" || !Classify(n.lastType).IsChoice() || n.lastDisc == "" {
		return nil
	}

	translations := make(map[Language]string, len(n.languages))
	for _, lang := range n.languages {
		v := row.Cell(n.cols.LabelPrefix + lang.Column())
		if lang == n.source && (v == "" || col != n.cols.Label) {
			v = text
		}
		if v != "" {
			translations[lang] = v
		}
	}

	return &Option{
		Text:          text,
		Discriminator: n.lastDisc,
		Translations:  translations,
		Ordinal:       row.Index,
	}
}
