// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import "strings"

// FieldKind is the closed classification of a spreadsheet data type.
// The zero value is Text.
type FieldKind int

const (
	Text FieldKind = iota
	Dropdown
	MultipleChoice
	Radio
	Number
	Image
)

// Primitive is the generated-language primitive backing a model field.
type Primitive int

const (
	PrimitiveString Primitive = iota
	PrimitiveInt
	PrimitiveDouble
)

// FieldType is the tag the generated UI dispatches on. Number and Text share
// the edit-text tag.
type FieldType int

const (
	FieldTypeDropdown       FieldType = 1
	FieldTypeMultipleChoice FieldType = 2
	FieldTypeRadio          FieldType = 3
	FieldTypeEditText       FieldType = 4
	FieldTypeImage          FieldType = 5
)

// classification is checked in order; the first contained substring wins.
var classification = []struct {
	substr string
	kind   FieldKind
}{
	{"dropdown", Dropdown},
	{"multiple choice", MultipleChoice},
	{"radio", Radio},
	{"number", Number},
	{"text", Text},
	{"image", Image},
}

// Classify maps a free-text data type cell to a FieldKind using substring matching
// against a fixed priority table. Unmatched input is Text.
func Classify(raw string) FieldKind {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range classification {
		if strings.Contains(s, c.substr) {
			return c.kind
		}
	}
	return Text
}

// Kinds returns every FieldKind in declaration order.
func Kinds() []FieldKind {
	return []FieldKind{Text, Dropdown, MultipleChoice, Radio, Number, Image}
}

// Primitive returns the primitive type a field of this kind is stored as.
func (k FieldKind) Primitive() Primitive {
	switch k {
	case Radio:
		return PrimitiveInt
	case Number:
		return PrimitiveDouble
	default:
		return PrimitiveString
	}
}

// FieldType returns the UI dispatch tag for this kind.
func (k FieldKind) FieldType() FieldType {
	switch k {
	case Dropdown:
		return FieldTypeDropdown
	case MultipleChoice:
		return FieldTypeMultipleChoice
	case Radio:
		return FieldTypeRadio
	case Image:
		return FieldTypeImage
	default:
		return FieldTypeEditText
	}
}

// IsChoice reports whether fields of this kind fetch an options list.
func (k FieldKind) IsChoice() bool {
	return k == Dropdown || k == MultipleChoice || k == Radio
}

func (k FieldKind) String() string {
	switch k {
	case Dropdown:
		return "Dropdown"
	case MultipleChoice:
		return "MultipleChoice"
	case Radio:
		return "Radio"
	case Number:
		return "Number"
	case Image:
		return "Image"
	default:
		return "Text"
	}
}
