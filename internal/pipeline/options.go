// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package pipeline

import "github.com/dacolabs/formgen/internal/config"

// FromConfig translates a project configuration into run Options.
func FromConfig(cfg *config.Config, date string) Options {
	return Options{
		Class:      cfg.Class,
		IdealSheet: cfg.IdealSheet,
		Sheets:     cfg.Sheets,
		Columns:    cfg.SchemaColumns(),
		Languages:  cfg.SchemaLanguages(),
		KeySuffix:  cfg.KeySuffix,
		Include:    cfg.Include,
		Date:       date,
	}
}
