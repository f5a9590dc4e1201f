// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrMissingColumns is returned when a designated column is absent from a sheet.
var ErrMissingColumns = errors.New("designated columns not found")

// Required returns the designated columns that must exist in a sheet, in a stable
// order. Serial and Option are only required when set.
func (c Columns) Required() []string {
	required := []string{c.Question, c.Label, c.Type, c.Storage}
	if c.Serial != "" {
		required = append(required, c.Serial)
	}
	if c.Option != "" && c.Option != c.Label {
		required = append(required, c.Option)
	}
	return required
}

// MissingColumns returns the required columns that headers do not contain.
func MissingColumns(headers []string, cols Columns) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, c := range cols.Required() {
		if c == "" || !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// ValidateColumns checks that every designated column exists in headers. The error
// names the missing columns and carries a hint listing the available ones.
func ValidateColumns(sheet string, headers []string, cols Columns) error {
	missing := MissingColumns(headers, cols)
	if len(missing) == 0 {
		return nil
	}

	available := append([]string(nil), headers...)
	sort.Strings(available)

	err := errors.Wrapf(ErrMissingColumns, "sheet %q: missing %s", sheet, quoteAll(missing))
	return errors.WithHintf(err, "available columns: %s", strings.Join(available, ", "))
}

// LanguageColumns returns the per-language question and label columns of headers
// that match a configured language.
func LanguageColumns(headers []string, cols Columns, languages []Language) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var found []string
	for _, lang := range languages {
		for _, prefix := range []string{cols.QuestionPrefix, cols.LabelPrefix} {
			if col := prefix + lang.Column(); present[col] {
				found = append(found, col)
			}
		}
	}
	return found
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		if n == "" {
			n = "<unset>"
		}
		quoted[i] = `"` + n + `"`
	}
	return strings.Join(quoted, ", ")
}
