// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package schema turns normalized spreadsheet rows into a form Schema: ordered model
// fields, UI widget descriptors, option groups and per-language string tables.
package schema

import (
	"regexp"
	"strings"
	"unicode"
)

// EmptyIdentifier is substituted when sanitizing leaves nothing behind.
const EmptyIdentifier = "empty"

// identFiller is prepended when an identifier would start with a digit.
const identFiller = "a"

var (
	nonAlnumRun   = regexp.MustCompile(`[^A-Za-z0-9]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWord       = regexp.MustCompile(`[^\w]`)
	className     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

// Sanitize converts free text into a lowercase, underscore-delimited identifier that
// starts with a letter and only contains [a-z0-9_]. It never fails and is idempotent,
// but it is not injective: "First Name" and "first-name" both become "first_name".
func Sanitize(text string) string {
	s := strings.TrimSpace(text)
	s = nonAlnumRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return EmptyIdentifier
	}
	if !unicode.IsLetter(rune(s[0])) {
		s = identFiller + s
	}
	return strings.ToLower(s)
}

// NormalizeColumn normalizes a spreadsheet header: trim, lowercase, whitespace runs
// become "_" and anything that is not a word character is dropped.
func NormalizeColumn(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRun.ReplaceAllString(s, "_")
	return nonWord.ReplaceAllString(s, "")
}

// IsClassName reports whether name can name a generated class.
func IsClassName(name string) bool {
	return className.MatchString(name)
}

// ToPascalCase converts a snake_case string to PascalCase for class name generation.
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var sb strings.Builder
	for _, part := range parts {
		if part != "" {
			sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}

	return sb.String()
}
