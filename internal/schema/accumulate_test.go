// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func accumulateRows(t *testing.T, log *zap.Logger, rows ...RawRow) *Schema {
	t.Helper()
	n := NewNormalizer(DefaultColumns(), nil, log)
	return Accumulate("Survey", normalizeAll(t, n, rows...), AccumulateOptions{Logger: log})
}

func TestAccumulate_EndToEnd(t *testing.T) {
	s := accumulateRows(t, nil,
		row(0, map[string]string{
			"questions_in_english":   "What is your name?",
			"field_names_in_english": "Name",
			"data_type":              "Text",
			"database":               "full_name",
		}),
		row(1, map[string]string{
			"questions_in_english":   "Pick a fruit",
			"field_names_in_english": "Fruit",
			"data_type":              "Dropdown",
			"database":               "fruit_choice",
		}),
	)

	assert.Equal(t, []ModelField{
		{Name: "name", Kind: Text},
		{Name: "fruit", Kind: Dropdown},
	}, s.Fields)
	assert.Equal(t, PrimitiveString, s.Fields[0].Primitive())
	assert.Equal(t, PrimitiveString, s.Fields[1].Primitive())

	require.Len(t, s.Widgets, 2)
	assert.Equal(t, Widget{
		Number:      2,
		QuestionKey: "what_is_your_name_ufind_v2",
		LabelKey:    "name_ufind_v2",
		Kind:        Text,
		StorageKey:  "name",
		Ordinal:     0,
	}, s.Widgets[0])
	assert.Equal(t, Widget{
		Number:      3,
		QuestionKey: "pick_a_fruit_ufind_v2",
		LabelKey:    "fruit_ufind_v2",
		Kind:        Dropdown,
		StorageKey:  "fruit",
		OptionsKey:  "fruit_choice_ufind_v2",
		Ordinal:     1,
	}, s.Widgets[1])

	assert.Equal(t, []string{
		"name_ufind_v2", "what_is_your_name_ufind_v2",
		"fruit_ufind_v2", "pick_a_fruit_ufind_v2",
	}, s.Localization.Keys)
	assert.Equal(t, "Name", s.Localization.Value("English", "name_ufind_v2"))
	assert.Equal(t, "Fruit", s.Localization.Value("English", "fruit_ufind_v2"))
	assert.Empty(t, s.Localization.Present("Tamil"), "absent translations are not backfilled here")

	require.Len(t, s.Groups, 1)
	assert.Equal(t, "fruit_choice", s.Groups[0].Discriminator)
	assert.Empty(t, s.Groups[0].Options)
}

func TestAccumulate_PreservesRowOrderAndNumbering(t *testing.T) {
	var rows []RawRow
	labels := []string{"Zeta", "Alpha", "Mid", "Beta"}
	for i, l := range labels {
		// Column order within a row is irrelevant; gaps in the index mimic skipped rows.
		rows = append(rows, row(i*2, map[string]string{
			"data_type":              "Number",
			"field_names_in_english": l,
			"questions_in_english":   l + "?",
		}))
		rows = append(rows, row(i*2+1, map[string]string{"data_type": "Text"}))
	}

	s := accumulateRows(t, nil, rows...)
	require.Len(t, s.Widgets, len(labels))
	for i, w := range s.Widgets {
		assert.Equal(t, Sanitize(labels[i]), w.StorageKey)
		assert.Equal(t, w.Ordinal+2, w.Number)
		if i > 0 {
			assert.Greater(t, w.Ordinal, s.Widgets[i-1].Ordinal)
		}
	}
}

func TestAccumulate_DuplicateStorageKeyFirstWins(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core)

	s := accumulateRows(t, log,
		row(0, map[string]string{
			"questions_in_english": "Age of head", "field_names_in_english": "Age", "data_type": "Number",
		}),
		row(1, map[string]string{
			"questions_in_english": "Age of spouse", "field_names_in_english": "Age", "data_type": "Text",
		}),
	)

	assert.Equal(t, []ModelField{{Name: "age", Kind: Number}}, s.Fields)
	require.Len(t, s.Widgets, 2)
	assert.Equal(t, "age", s.Widgets[1].StorageKey)
	assert.Equal(t, s.Widgets[0].LabelKey, s.Widgets[1].LabelKey)
	assert.NotEqual(t, s.Widgets[0].QuestionKey, s.Widgets[1].QuestionKey)
	assert.Equal(t, 1, logs.FilterMessage("duplicate storage key, keeping first declaration").Len())
}

func TestAccumulate_EveryWidgetHasModelField(t *testing.T) {
	s := accumulateRows(t, nil,
		row(0, map[string]string{"questions_in_english": "A", "field_names_in_english": "X", "data_type": "radio"}),
		row(1, map[string]string{"field_names_in_english": "One"}),
		row(2, map[string]string{"questions_in_english": "B", "field_names_in_english": "x!", "data_type": "text"}),
		row(3, map[string]string{"questions_in_english": "C", "field_names_in_english": "Photo", "data_type": "image"}),
	)
	for _, w := range s.Widgets {
		_, ok := s.Field(w.StorageKey)
		assert.True(t, ok, "widget %s has no model field", w.StorageKey)
	}
}

func TestAccumulate_OptionGroups(t *testing.T) {
	s := accumulateRows(t, nil,
		row(0, map[string]string{
			"questions_in_english": "Pick a fruit", "field_names_in_english": "Fruit",
			"data_type": "Dropdown", "database": "fruit_choice",
		}),
		row(1, map[string]string{"field_names_in_english": "Apple", "field_names_in_sinhala": "ඇපල්"}),
		row(2, map[string]string{"field_names_in_english": "Mango"}),
		row(3, map[string]string{"field_names_in_english": "Apple"}),
		row(4, map[string]string{
			"questions_in_english": "Do you like it?", "field_names_in_english": "Likes",
			"data_type": "Radio", "database": "likes",
		}),
		row(5, map[string]string{"field_names_in_english": "Yes"}),
		row(6, map[string]string{"field_names_in_english": "No"}),
	)

	require.Len(t, s.Groups, 2)

	fruit, ok := s.Group("fruit_choice_ufind_v2")
	require.True(t, ok)
	assert.Equal(t, []OptionEntry{
		{Key: "apple_fruit_choice_ufind_v2", Value: "1"},
		{Key: "mango_fruit_choice_ufind_v2", Value: "2"},
	}, fruit.Options)

	likes, ok := s.Group("likes_ufind_v2")
	require.True(t, ok)
	assert.Equal(t, []OptionEntry{
		{Key: "yes_likes_ufind_v2", Value: "1"},
		{Key: "no_likes_ufind_v2", Value: "2"},
	}, likes.Options)

	assert.Equal(t, "ඇපල්", s.Localization.Value("Sinhala", "apple_fruit_choice_ufind_v2"))
	assert.Equal(t, "Apple", s.Localization.Value("English", "apple_fruit_choice_ufind_v2"))
	assert.Equal(t, "likes_ufind_v2", s.Widgets[1].OptionsKey)
	assert.Equal(t, Radio, s.Widgets[1].Kind)
	assert.Equal(t, PrimitiveInt, s.Fields[1].Primitive())
}

func TestAccumulate_SharedRegistryAcrossSheets(t *testing.T) {
	reg := NewKeyRegistry(DefaultKeySuffix)
	n1 := NewNormalizer(DefaultColumns(), nil, nil)
	n2 := NewNormalizer(DefaultColumns(), nil, nil)

	first := Accumulate("Survey", normalizeAll(t, n1,
		row(0, map[string]string{"questions_in_english": "Name?", "field_names_in_english": "Name"}),
	), AccumulateOptions{Registry: reg})
	second := Accumulate("Survey_Members", normalizeAll(t, n2,
		row(0, map[string]string{"questions_in_english": "Name?", "field_names_in_english": "Name"}),
		row(1, map[string]string{"questions_in_english": "Name!", "field_names_in_english": "Name!", "database": "member"}),
	), AccumulateOptions{Registry: reg})

	assert.Equal(t, first.Widgets[0].LabelKey, second.Widgets[0].LabelKey)
	assert.Equal(t, "name_member_ufind_v2", second.Widgets[1].LabelKey)

	merged := MergeShared(nil, first, second)
	assert.Equal(t, "Survey", merged.Class)
	assert.Empty(t, merged.Fields)
	assert.Equal(t, []string{"name_ufind_v2", "name_2_ufind_v2", "name_member_ufind_v2"}, merged.Localization.Keys)
	assert.Equal(t, "Name!", merged.Localization.Value("English", "name_member_ufind_v2"))
}

func TestAccumulate_SameTextDifferentDiscriminators(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := accumulateRows(t, zap.New(core),
		row(0, map[string]string{
			"questions_in_english": "Other household income", "field_names_in_english": "Other",
			"field_names_in_tamil": "மற்றவை-A", "data_type": "Text", "database": "household",
		}),
		row(1, map[string]string{
			"questions_in_english": "Other member income", "field_names_in_english": "Other",
			"field_names_in_tamil": "வேறு-B", "data_type": "Text", "database": "member",
		}),
	)

	require.Len(t, s.Widgets, 2)
	assert.Equal(t, "other_ufind_v2", s.Widgets[0].LabelKey)
	assert.Equal(t, "other_member_ufind_v2", s.Widgets[1].LabelKey)
	assert.Equal(t, "மற்றவை-A", s.Localization.Value("Tamil", "other_ufind_v2"))
	assert.Equal(t, "வேறு-B", s.Localization.Value("Tamil", "other_member_ufind_v2"))
	assert.Zero(t, logs.FilterMessage("conflicting translation, keeping first").Len())
}

func TestAccumulate_ConflictingTranslationIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := accumulateRows(t, zap.New(core),
		row(0, map[string]string{
			"questions_in_english": "Age?", "field_names_in_english": "Age",
			"field_names_in_tamil": "வயது", "data_type": "Number",
		}),
		row(1, map[string]string{
			"questions_in_english": "Age?", "field_names_in_english": "Age",
			"field_names_in_tamil": "அகவை", "data_type": "Number",
		}),
	)

	assert.Equal(t, "வயது", s.Localization.Value("Tamil", "age_ufind_v2"))
	entries := logs.FilterMessage("conflicting translation, keeping first").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "age_ufind_v2", entries[0].ContextMap()["key"])
	assert.Equal(t, "Tamil", entries[0].ContextMap()["language"])
	assert.Equal(t, int64(3), entries[0].ContextMap()["row"])
}

func TestAccumulate_CollidingDiscriminators(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := accumulateRows(t, zap.New(core),
		row(0, map[string]string{
			"questions_in_english": "Pick a fruit", "field_names_in_english": "Fruit",
			"data_type": "Dropdown", "database": "Fruit",
		}),
		row(1, map[string]string{"field_names_in_english": "Apple"}),
		row(2, map[string]string{
			"questions_in_english": "Another fruit", "field_names_in_english": "Fruit 2",
			"data_type": "Dropdown", "database": "fruit!",
		}),
		row(3, map[string]string{"field_names_in_english": "Mango"}),
	)

	require.Len(t, s.Groups, 2)
	assert.Equal(t, "fruit_ufind_v2", s.Groups[0].Constant)
	assert.Equal(t, "fruit_2_ufind_v2", s.Groups[1].Constant)
	require.Len(t, s.Groups[0].Options, 1)
	require.Len(t, s.Groups[1].Options, 1)
	assert.Equal(t, "fruit_2_ufind_v2", s.Widgets[1].OptionsKey)
	assert.Equal(t, 1, logs.FilterMessage("discriminator collides with another, setup constant renamed").Len())
}

func TestMergeShared_LogsConflictingTranslation(t *testing.T) {
	a := &Schema{Class: "Survey", Languages: DefaultLanguages, Localization: NewLocalization()}
	a.Localization.Set("Tamil", "k", "one")
	b := &Schema{Class: "Survey_Members", Languages: DefaultLanguages, Localization: NewLocalization()}
	b.Localization.Set("Tamil", "k", "two")

	core, logs := observer.New(zapcore.WarnLevel)
	m := MergeShared(zap.New(core), a, b)

	assert.Equal(t, "one", m.Localization.Value("Tamil", "k"))
	entries := logs.FilterMessage("conflicting translation across sheets, keeping first").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Survey_Members", entries[0].ContextMap()["class"])
}

func TestMergeShared_UnionsGroups(t *testing.T) {
	a := &Schema{Localization: NewLocalization(), Groups: []OptionGroup{
		{Discriminator: "g", Constant: "g", Options: []OptionEntry{{Key: "x", Value: "1"}}},
	}}
	b := &Schema{Localization: NewLocalization(), Groups: []OptionGroup{
		{Discriminator: "g", Constant: "g", Options: []OptionEntry{{Key: "x", Value: "1"}, {Key: "y", Value: "2"}}},
		{Discriminator: "h", Constant: "h", Options: []OptionEntry{{Key: "z", Value: "1"}}},
	}}

	m := MergeShared(nil, a, b)
	require.Len(t, m.Groups, 2)
	assert.Equal(t, []OptionEntry{{Key: "x", Value: "1"}, {Key: "y", Value: "2"}}, m.Groups[0].Options)
	assert.Equal(t, "h", m.Groups[1].Constant)
}

func TestLocalization(t *testing.T) {
	l := NewLocalization()
	assert.True(t, l.Set("English", "k", "first"))
	assert.True(t, l.Set("English", "k", "first"))
	assert.False(t, l.Set("English", "k", "second"), "a dropped value is reported")
	assert.True(t, l.Set("Tamil", "k", ""))
	l.Register("other")

	assert.Equal(t, []string{"k", "other"}, l.Keys)
	assert.Equal(t, "first", l.Value("English", "k"))
	_, ok := l.Lookup("Tamil", "k")
	assert.False(t, ok)
	assert.Equal(t, "", l.Value("Tamil", "k"))
	assert.Equal(t, []string{"k"}, l.Present("English"))
	assert.True(t, l.Has("other"))
}
