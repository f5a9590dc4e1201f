// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"encoding/json"
	"io"

	"github.com/dacolabs/formgen/internal/session"
	"github.com/dacolabs/formgen/internal/sheet"
	"gopkg.in/yaml.v3"
)

func openWorkbook(path string, sc *session.Context) (*sheet.Workbook, error) {
	return sheet.Open(path,
		sheet.WithSkipHidden(sc.Config.SkipHidden),
		sheet.WithLogger(sc.Logger),
	)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(v)
}
