// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package output persists generated file sets.
package output

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/emit"
)

// ErrUnsafeName is returned for a file name that would escape the output directory.
var ErrUnsafeName = errors.New("unsafe file name")

// Write writes files under dir, creating it if needed, and returns the written
// paths in file-set order. Existing files are overwritten; a failure part way
// leaves the files already written in place.
func Write(dir string, files []emit.File) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %q", dir)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		if err := checkName(f.Name); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Content, 0o600); err != nil {
			return paths, errors.Wrapf(err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Zip writes files as a zip archive to w, entries in file-set order.
func Zip(w io.Writer, files []emit.File) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		if err := checkName(f.Name); err != nil {
			return err
		}
		entry, err := zw.Create(f.Name)
		if err != nil {
			return errors.Wrapf(err, "create zip entry %s", f.Name)
		}
		if _, err := entry.Write(f.Content); err != nil {
			return errors.Wrapf(err, "write zip entry %s", f.Name)
		}
	}
	return errors.Wrap(zw.Close(), "finish zip")
}

func checkName(name string) error {
	if name == "" || filepath.IsAbs(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.Wrapf(ErrUnsafeName, "%q", name)
	}
	return nil
}
