// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package markdown emits a human-readable question sheet per form.
package markdown

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/emit"
	"github.com/dacolabs/formgen/internal/schema"
)

//go:embed form.md.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("form.md.tmpl").Funcs(template.FuncMap{
	"cell": cell,
	"join": strings.Join,
}).ParseFS(tmplFS, "form.md.tmpl"))

// Emitter emits markdown documentation.
type Emitter struct{}

func init() {
	emit.Register(&Emitter{})
}

// Name returns the emitter identifier.
func (e *Emitter) Name() string {
	return "markdown"
}

// FileExtension returns the file extension for markdown files.
func (e *Emitter) FileExtension() string {
	return ".md"
}

// Emit renders <class>.md listing every question in order.
func (e *Emitter) Emit(s *schema.Schema, meta emit.Meta) ([]emit.File, error) {
	class := meta.Class
	if class == "" {
		class = s.Class
	}
	if !schema.IsClassName(class) {
		return nil, errors.Newf("%q is not a valid class name", class)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "form.md.tmpl", newView(s, class, meta.Date)); err != nil {
		return nil, errors.Wrap(err, "failed to execute template")
	}
	return []emit.File{{Name: strings.ToLower(class) + e.FileExtension(), Content: buf.Bytes()}}, nil
}

// EmitShared returns no files.
func (e *Emitter) EmitShared(*schema.Schema, emit.Meta) ([]emit.File, error) {
	return nil, nil
}

type view struct {
	Class     string
	Date      string
	Languages []string
	Questions []question
}

type question struct {
	Number  int
	Serial  string
	Text    string
	Label   string
	Kind    string
	Field   string
	Options []string
	Missing []string // languages without a translated question
}

func newView(s *schema.Schema, class, date string) view {
	v := view{Class: class, Date: date}
	for _, l := range s.Languages {
		v.Languages = append(v.Languages, string(l))
	}

	var source schema.Language
	if len(s.Languages) > 0 {
		source = s.Languages[0]
	}
	loc := s.Localization
	if loc == nil {
		loc = schema.NewLocalization()
	}

	for _, w := range s.Widgets {
		q := question{
			Number: w.Number,
			Serial: w.Serial,
			Text:   loc.Value(source, w.QuestionKey),
			Label:  loc.Value(source, w.LabelKey),
			Kind:   w.Kind.String(),
			Field:  w.StorageKey,
		}
		if g, ok := s.Group(w.OptionsKey); ok && w.Kind.IsChoice() {
			for _, o := range g.Options {
				q.Options = append(q.Options, loc.Value(source, o.Key))
			}
		}
		for _, l := range s.Languages[min(1, len(s.Languages)):] {
			if _, ok := loc.Lookup(l, w.QuestionKey); !ok {
				q.Missing = append(q.Missing, string(l))
			}
		}
		v.Questions = append(v.Questions, q)
	}
	return v
}

// cell escapes a value for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
