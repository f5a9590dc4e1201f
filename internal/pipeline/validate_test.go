// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	src := newMemSource().
		add("Survey", standardHeaders,
			q("What is your name?", "Name", "Text", ""),
			q("Orphan question", "", "Text", ""),
			q("When were you born?", "Birthday", "Date", ""),
			q("", "", "Dropdown", ""),
		).
		add("Members", []string{"questions_in_english", "field_names_in_english"})

	report, err := Validate(src, DefaultOptions("Survey"))
	require.NoError(t, err)
	require.Len(t, report.Sheets, 2)
	assert.False(t, report.OK())

	survey := report.Sheets[0]
	assert.True(t, survey.OK())
	assert.Equal(t, 4, survey.Rows)
	assert.Equal(t, 2, survey.Records)
	assert.Equal(t, []string{"questions_in_english", "field_names_in_english", "field_names_in_tamil"}, survey.LanguageColumns)
	assert.Equal(t, []Problem{
		{Row: 3, Reason: `question "Orphan question" has no label, row skipped`},
		{Row: 4, Reason: `unrecognized data type "Date", treated as Text`},
		{Row: 5, Reason: "data type set on an empty row"},
	}, survey.Problems)

	members := report.Sheets[1]
	assert.Equal(t, "Survey_Members", members.Class)
	assert.False(t, members.OK())
	assert.Equal(t, []string{"data_type", "database"}, members.Missing)
}

func TestValidate_NoRecords(t *testing.T) {
	src := newMemSource().add("Survey", standardHeaders, q("", "Name", "Text", ""))
	report, err := Validate(src, DefaultOptions("Survey"))
	require.NoError(t, err)
	assert.False(t, report.OK())
	require.NotEmpty(t, report.Sheets[0].Problems)
	assert.Equal(t, ErrNoRows.Error(), report.Sheets[0].Problems[0].Reason)
}
