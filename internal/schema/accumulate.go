// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"strconv"

	"go.uber.org/zap"
)

// AccumulateOptions configures Accumulate.
type AccumulateOptions struct {
	Languages []Language
	// Registry hands out accessor names. Share one registry across every sheet of a
	// run so accessors stay consistent between files. Nil uses a fresh registry with
	// DefaultKeySuffix.
	Registry *KeyRegistry
	Logger   *zap.Logger
}

// Accumulate folds normalized items, in row order, into a Schema.
//
// Each record declares one model field named by its storage key; a repeated
// storage key keeps the first declaration and only adds a widget. Each record adds
// one widget numbered Ordinal+2 and localization entries for its label and
// question keys in every language it has text for. Choice records open the option
// group of their discriminator and option items append to it.
func Accumulate(class string, items []Item, opts AccumulateOptions) *Schema {
	languages := opts.Languages
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	reg := opts.Registry
	if reg == nil {
		reg = NewKeyRegistry(DefaultKeySuffix)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	a := &accumulator{
		schema: &Schema{
			Class:        class,
			Languages:    languages,
			Localization: NewLocalization(),
		},
		reg:    reg,
		log:    log,
		fields: make(map[string]bool),
		groups: make(map[string]int),
	}
	for _, item := range items {
		if item.Record != nil {
			a.addRecord(item.Record)
		}
		if item.Option != nil {
			a.addOption(item.Option)
		}
	}
	return a.schema
}

type accumulator struct {
	schema *Schema
	reg    *KeyRegistry
	log    *zap.Logger
	fields map[string]bool
	groups map[string]int // constant -> index into schema.Groups
}

func (a *accumulator) addRecord(r *Record) {
	if a.fields[r.StorageKey] {
		a.log.Warn("duplicate storage key, keeping first declaration",
			zap.String("field", r.StorageKey),
			zap.Int("row", r.Ordinal+2))
	} else {
		a.fields[r.StorageKey] = true
		a.schema.Fields = append(a.schema.Fields, ModelField{Name: r.StorageKey, Kind: r.Kind})
	}

	labelKey := a.reg.Text(r.Label, r.Discriminator, r.Ordinal)
	questionKey := a.reg.Text(r.Question, r.Discriminator, r.Ordinal)

	loc := a.schema.Localization
	loc.Register(labelKey)
	loc.Register(questionKey)
	for _, lang := range a.schema.Languages {
		t, ok := r.Translations[lang]
		if !ok {
			continue
		}
		a.translate(lang, labelKey, t.Label, r.Ordinal)
		a.translate(lang, questionKey, t.Question, r.Ordinal)
	}

	w := Widget{
		Number:      r.Ordinal + 2,
		Serial:      r.Serial,
		QuestionKey: questionKey,
		LabelKey:    labelKey,
		Kind:        r.Kind,
		StorageKey:  r.StorageKey,
		Ordinal:     r.Ordinal,
	}
	if r.Kind.IsChoice() {
		w.OptionsKey = a.group(r.Discriminator).Constant
	}
	a.schema.Widgets = append(a.schema.Widgets, w)
}

func (a *accumulator) addOption(o *Option) {
	g := a.group(o.Discriminator)
	key := a.reg.Option(o.Text, o.Discriminator, o.Ordinal)
	if hasOption(g.Options, key) {
		return
	}
	g.Options = append(g.Options, OptionEntry{Key: key, Value: strconv.Itoa(len(g.Options) + 1)})

	a.schema.Localization.Register(key)
	for _, lang := range a.schema.Languages {
		a.translate(lang, key, o.Translations[lang], o.Ordinal)
	}
}

func (a *accumulator) translate(lang Language, key, value string, ordinal int) {
	if !a.schema.Localization.Set(lang, key, value) {
		a.log.Warn("conflicting translation, keeping first",
			zap.String("key", key),
			zap.String("language", string(lang)),
			zap.Int("row", ordinal+2))
	}
}

func (a *accumulator) group(discriminator string) *OptionGroup {
	constant := a.reg.Constant(discriminator)
	if i, ok := a.groups[constant]; ok {
		return &a.schema.Groups[i]
	}
	if constant != a.reg.withSuffix(Sanitize(discriminator)) {
		a.log.Warn("discriminator collides with another, setup constant renamed",
			zap.String("discriminator", discriminator),
			zap.String("constant", constant))
	}
	a.schema.Groups = append(a.schema.Groups, OptionGroup{
		Discriminator: discriminator,
		Constant:      constant,
	})
	a.groups[constant] = len(a.schema.Groups) - 1
	return &a.schema.Groups[len(a.schema.Groups)-1]
}

// MergeShared combines the run-wide parts of several schemas: the union of
// localization keys in first-seen order and the union of option groups. The result
// carries no fields or widgets and takes its class and languages from the first
// schema. A key translated differently by two schemas keeps the first value and
// is logged.
func MergeShared(log *zap.Logger, schemas ...*Schema) *Schema {
	if log == nil {
		log = zap.NewNop()
	}
	merged := &Schema{Localization: NewLocalization()}
	if len(schemas) == 0 {
		merged.Languages = DefaultLanguages
		return merged
	}
	merged.Class = schemas[0].Class
	merged.Languages = schemas[0].Languages

	groups := make(map[string]int)
	for _, s := range schemas {
		for _, key := range s.Localization.Keys {
			merged.Localization.Register(key)
			for _, lang := range merged.Languages {
				v, ok := s.Localization.Lookup(lang, key)
				if ok && !merged.Localization.Set(lang, key, v) {
					log.Warn("conflicting translation across sheets, keeping first",
						zap.String("key", key),
						zap.String("language", string(lang)),
						zap.String("class", s.Class))
				}
			}
		}
		for _, g := range s.Groups {
			i, ok := groups[g.Constant]
			if !ok {
				merged.Groups = append(merged.Groups, OptionGroup{
					Discriminator: g.Discriminator,
					Constant:      g.Constant,
				})
				i = len(merged.Groups) - 1
				groups[g.Constant] = i
			}
			mg := &merged.Groups[i]
			for _, e := range g.Options {
				if !hasOption(mg.Options, e.Key) {
					mg.Options = append(mg.Options, OptionEntry{
						Key:   e.Key,
						Value: strconv.Itoa(len(mg.Options) + 1),
					})
				}
			}
		}
	}
	return merged
}

func hasOption(entries []OptionEntry, key string) bool {
	for _, e := range entries {
		if e.Key == key {
			return true
		}
	}
	return false
}
