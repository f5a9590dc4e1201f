// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package emit turns an accumulated schema into generated source files.
package emit

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/schema"
)

// File is one generated source file.
type File struct {
	Name    string
	Content []byte
}

// Meta carries the values stamped into generated headers.
type Meta struct {
	// Class is the generated class name, e.g. "Survey" or "Survey_Members".
	Class string
	// Date is the generation date stamp, e.g. "2026-10-19".
	Date string
}

// Emitter defines the interface all code emitters must implement.
type Emitter interface {
	// Name returns the emitter's identifier (e.g., "dart")
	Name() string

	// FileExtension returns the extension of generated files (e.g., ".dart")
	FileExtension() string

	// Emit renders the per-class files of one sheet: model and UI widget.
	Emit(s *schema.Schema, meta Meta) ([]File, error)

	// EmitShared renders the run-wide files from a merged schema: localization
	// tables, the keys interface and setup data.
	EmitShared(s *schema.Schema, meta Meta) ([]File, error)
}

var (
	// ErrUnknownEmitter is returned by Get for an unregistered name.
	ErrUnknownEmitter = errors.New("unknown emitter")
	// ErrDuplicateFile is returned by Append for a file name already in the set.
	ErrDuplicateFile = errors.New("duplicate output file")
)

var emitters = make(map[string]Emitter)

// Register adds an emitter to the registry.
func Register(e Emitter) {
	emitters[e.Name()] = e
}

// Get retrieves an emitter by name.
func Get(name string) (Emitter, error) {
	e, ok := emitters[name]
	if !ok {
		return nil, errors.WithHintf(errors.Wrapf(ErrUnknownEmitter, "%q", name),
			"available emitters: %v", Available())
	}
	return e, nil
}

// Available returns all registered emitter names, sorted.
func Available() []string {
	names := make([]string, 0, len(emitters))
	for name := range emitters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Append adds files to set. A name already present in set is an error, so a
// run never returns one file in place of another.
func Append(set []File, files ...File) ([]File, error) {
	names := make(map[string]bool, len(set)+len(files))
	for _, f := range set {
		names[f.Name] = true
	}
	for _, f := range files {
		if names[f.Name] {
			return nil, errors.Wrapf(ErrDuplicateFile, "%q", f.Name)
		}
		names[f.Name] = true
		set = append(set, f)
	}
	return set, nil
}
