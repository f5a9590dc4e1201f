// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package dart

import (
	"strings"

	"github.com/dacolabs/formgen/internal/schema"
)

// reserved holds the lowercase Dart keywords and the names the generated model
// already uses for its own members.
var reserved = map[string]bool{
	"abstract": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "covariant": true, "default": true, "deferred": true, "do": true,
	"dynamic": true, "else": true, "enum": true, "export": true, "extends": true,
	"extension": true, "external": true, "factory": true, "false": true, "final": true,
	"finally": true, "for": true, "get": true, "hide": true, "if": true,
	"implements": true, "import": true, "in": true, "interface": true, "is": true,
	"late": true, "library": true, "mixin": true, "new": true, "null": true, "on": true,
	"operator": true, "part": true, "required": true, "rethrow": true, "return": true,
	"set": true, "show": true, "static": true, "super": true, "switch": true,
	"sync": true, "this": true, "throw": true, "true": true, "try": true,
	"typedef": true, "var": true, "void": true, "while": true, "with": true,
	"yield": true, "empty": true, "json": true,
}

// Ident returns name as a usable Dart identifier, appending "_" to reserved words.
func Ident(name string) string {
	if reserved[name] {
		return name + "_"
	}
	return name
}

// String returns s as a double-quoted Dart string literal.
func String(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '$':
			sb.WriteString(`\$`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Type returns the Dart type of a primitive.
func Type(p schema.Primitive) string {
	switch p {
	case schema.PrimitiveInt:
		return "int"
	case schema.PrimitiveDouble:
		return "double"
	default:
		return "String"
	}
}

// zero returns the Dart literal used for an unset field.
func zero(p schema.Primitive) string {
	switch p {
	case schema.PrimitiveInt:
		return "0"
	case schema.PrimitiveDouble:
		return "0.0"
	default:
		return `""`
	}
}

// display returns the text a widget shows for target. Numeric fields at their
// zero value show as empty so an untouched form starts blank.
func display(target string, p schema.Primitive) string {
	switch p {
	case schema.PrimitiveInt, schema.PrimitiveDouble:
		return "(" + target + " == 0 ? \"\" : " + target + ".toString())"
	default:
		return target
	}
}

// fromJSON returns the expression reading key from a json map as primitive p.
func fromJSON(key string, p schema.Primitive) string {
	lookup := "json[" + String(key) + "]"
	switch p {
	case schema.PrimitiveInt:
		return "(" + lookup + " as num?)?.toInt() ?? 0"
	case schema.PrimitiveDouble:
		return "(" + lookup + " as num?)?.toDouble() ?? 0.0"
	default:
		return lookup + " as String? ?? \"\""
	}
}

// parse returns the statement assigning the string value to target.
func parse(target string, p schema.Primitive) string {
	switch p {
	case schema.PrimitiveInt:
		return target + " = int.tryParse(value) ?? 0;"
	case schema.PrimitiveDouble:
		return target + " = double.tryParse(value) ?? 0.0;"
	default:
		return target + " = value;"
	}
}

// fieldTypes names the AppConstant tag of each field type.
var fieldTypes = map[schema.FieldType]string{
	schema.FieldTypeDropdown:       "FieldType_dropdown",
	schema.FieldTypeMultipleChoice: "FieldType_multiple_choice",
	schema.FieldTypeRadio:          "FieldType_radio",
	schema.FieldTypeEditText:       "FieldType_EditText",
	schema.FieldTypeImage:          "FieldType_Image",
}

// dataList returns the options list expression of a widget, or "null".
func dataList(kind schema.FieldKind, constant string) string {
	var getter string
	switch kind {
	case schema.Dropdown:
		getter = "getDropDownItems"
	case schema.MultipleChoice:
		getter = "getChecklistItems"
	case schema.Radio:
		getter = "getRadioItems"
	default:
		return "null"
	}
	return "SetupData." + getter + "(context, SetupConstant." + constant + ")"
}

// languageClass returns the class name of a language table, e.g. "LanguageEnglish".
func languageClass(lang schema.Language) string {
	return "Language" + schema.ToPascalCase(schema.Sanitize(string(lang)))
}

// fileStem returns the lowercase class used in file names.
func fileStem(class string) string {
	return strings.ToLower(class)
}
