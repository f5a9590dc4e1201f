// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package jschema emits a JSON Schema per form describing the records the
// generated model serializes.
package jschema

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/emit"
	"github.com/dacolabs/formgen/internal/schema"
	"github.com/google/jsonschema-go/jsonschema"
)

// Draft is the dialect stamped into every document.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Emitter emits JSON Schema documents.
type Emitter struct{}

func init() {
	emit.Register(&Emitter{})
}

// Name returns the emitter identifier.
func (e *Emitter) Name() string {
	return "jsonschema"
}

// FileExtension returns the extension of generated documents.
func (e *Emitter) FileExtension() string {
	return ".schema.json"
}

// Emit renders <class>.schema.json.
func (e *Emitter) Emit(s *schema.Schema, meta emit.Meta) ([]emit.File, error) {
	class := meta.Class
	if class == "" {
		class = s.Class
	}
	if !schema.IsClassName(class) {
		return nil, errors.Newf("%q is not a valid class name", class)
	}

	doc := Build(s, class, meta.Date)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "marshal schema of %s", class)
	}
	return []emit.File{{
		Name:    strings.ToLower(class) + e.FileExtension(),
		Content: append(data, '\n'),
	}}, nil
}

// EmitShared returns no files; every document is self-contained.
func (e *Emitter) EmitShared(*schema.Schema, emit.Meta) ([]emit.File, error) {
	return nil, nil
}

// Build returns the object schema of one form. Properties carry the source
// language label as title and question as description. Dropdown and radio
// answers are constrained to their option values.
func Build(s *schema.Schema, class, date string) *jsonschema.Schema {
	doc := &jsonschema.Schema{
		Schema:     Draft,
		Title:      class,
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(s.Fields)),
	}
	if date != "" {
		doc.Description = "Generated by formgen on " + date + "."
	}

	var source schema.Language
	if len(s.Languages) > 0 {
		source = s.Languages[0]
	}

	for _, f := range s.Fields {
		prop := &jsonschema.Schema{Type: jsonType(f.Primitive())}
		if w, ok := widgetFor(s, f.Name); ok && s.Localization != nil {
			prop.Title = s.Localization.Value(source, w.LabelKey)
			prop.Description = s.Localization.Value(source, w.QuestionKey)
			if w.Kind == schema.Dropdown || w.Kind == schema.Radio {
				prop.Enum = choices(s, w.OptionsKey, f.Primitive())
			}
		}
		doc.Properties[f.Name] = prop
	}
	return doc
}

func jsonType(p schema.Primitive) string {
	switch p {
	case schema.PrimitiveInt:
		return "integer"
	case schema.PrimitiveDouble:
		return "number"
	default:
		return "string"
	}
}

// widgetFor returns the first widget that writes field.
func widgetFor(s *schema.Schema, field string) (schema.Widget, bool) {
	for _, w := range s.Widgets {
		if w.StorageKey == field {
			return w, true
		}
	}
	return schema.Widget{}, false
}

// choices returns the option values of a group typed as the field stores them.
func choices(s *schema.Schema, constant string, p schema.Primitive) []any {
	g, ok := s.Group(constant)
	if !ok || len(g.Options) == 0 {
		return nil
	}
	values := make([]any, len(g.Options))
	for i, o := range g.Options {
		values[i] = o.Value
		if p == schema.PrimitiveInt {
			if n, err := strconv.Atoi(o.Value); err == nil {
				values[i] = n
			}
		}
	}
	return values
}
