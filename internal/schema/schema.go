// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

// Schema is the accumulated, ordered, multi-language form of one generation run.
// Emitters read it and never mutate it.
type Schema struct {
	Class        string
	Languages    []Language
	Fields       []ModelField
	Widgets      []Widget
	Groups       []OptionGroup
	Localization *Localization
}

// ModelField is one declared attribute of the generated model.
type ModelField struct {
	Name string
	Kind FieldKind
}

// Primitive returns the field's primitive type.
func (f ModelField) Primitive() Primitive {
	return f.Kind.Primitive()
}

// Widget describes one rendered form entry.
type Widget struct {
	Number      int    // on-screen question number (sheet row)
	Serial      string // optional serial from the question-serial column
	QuestionKey string // localization accessor for the question
	LabelKey    string // localization accessor for the label
	Kind        FieldKind
	StorageKey  string // model attribute written on change
	OptionsKey  string // setup constant of the options list, empty unless Kind.IsChoice()
	Ordinal     int
}

// OptionGroup is the ordered option list of one discriminator.
type OptionGroup struct {
	Discriminator string
	Constant      string
	Options       []OptionEntry
}

// OptionEntry pairs a localization accessor with its 1-based ordinal value.
type OptionEntry struct {
	Key   string
	Value string
}

// HasSerials reports whether any widget carries a question serial.
func (s *Schema) HasSerials() bool {
	for _, w := range s.Widgets {
		if w.Serial != "" {
			return true
		}
	}
	return false
}

// Field returns the model field with the given name.
func (s *Schema) Field(name string) (ModelField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ModelField{}, false
}

// Group returns the option group with the given constant.
func (s *Schema) Group(constant string) (*OptionGroup, bool) {
	for i := range s.Groups {
		if s.Groups[i].Constant == constant {
			return &s.Groups[i], true
		}
	}
	return nil, false
}

// Localization holds the accessor keys of a run in first-seen order and the
// translated value of each key per language. A language only holds the keys it has
// a value for; Value backfills the rest with "".
type Localization struct {
	Keys   []string
	values map[Language]map[string]string
	known  map[string]bool
}

// NewLocalization returns an empty Localization.
func NewLocalization() *Localization {
	return &Localization{
		values: make(map[Language]map[string]string),
		known:  make(map[string]bool),
	}
}

// Register adds a key without a value.
func (l *Localization) Register(key string) {
	if !l.known[key] {
		l.known[key] = true
		l.Keys = append(l.Keys, key)
	}
}

// Set registers key and stores value for lang unless lang already has one.
// Empty values are not stored. It returns false when a different value was
// already stored and value was dropped.
func (l *Localization) Set(lang Language, key, value string) bool {
	l.Register(key)
	if value == "" {
		return true
	}
	m, ok := l.values[lang]
	if !ok {
		m = make(map[string]string)
		l.values[lang] = m
	}
	if prev, exists := m[key]; exists {
		return prev == value
	}
	m[key] = value
	return true
}

// Lookup returns the stored value of key for lang.
func (l *Localization) Lookup(lang Language, key string) (string, bool) {
	v, ok := l.values[lang][key]
	return v, ok
}

// Value returns the value of key for lang, or "" when absent.
func (l *Localization) Value(lang Language, key string) string {
	return l.values[lang][key]
}

// Present returns the keys lang holds a value for, in key order.
func (l *Localization) Present(lang Language) []string {
	var keys []string
	for _, k := range l.Keys {
		if _, ok := l.values[lang][k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Has reports whether key is registered.
func (l *Localization) Has(key string) bool {
	return l.known[key]
}
