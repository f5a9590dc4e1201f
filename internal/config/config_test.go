// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_LoadAndSave(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, FileName)

	cfg := Default()
	cfg.Class = "Survey"
	cfg.Sheets = []string{"Household", "Members"}
	cfg.Columns.Serial = "q_no"

	err := cfg.Save(cfgPath)
	require.NoError(t, err)

	loaded, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, cfg, loaded)
}

func TestConfig_Validate(t *testing.T) {
	valid := func(mutate func(c *Config)) Config {
		c := Default()
		c.Class = "Survey"
		mutate(c)
		return *c
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "valid config",
			cfg:     valid(func(*Config) {}),
			wantErr: "",
		},
		{
			name:    "unsupported version",
			cfg:     valid(func(c *Config) { c.Version = 99 }),
			wantErr: "unsupported config version",
		},
		{
			name:    "missing class",
			cfg:     valid(func(c *Config) { c.Class = "" }),
			wantErr: `class "" is not a valid class name`,
		},
		{
			name:    "class with spaces",
			cfg:     valid(func(c *Config) { c.Class = "My Survey" }),
			wantErr: "not a valid class name",
		},
		{
			name:    "missing storage column",
			cfg:     valid(func(c *Config) { c.Columns.Storage = " " }),
			wantErr: "columns.storage is required",
		},
		{
			name:    "no languages",
			cfg:     valid(func(c *Config) { c.Languages = nil }),
			wantErr: "at least one language is required",
		},
		{
			name:    "duplicate language",
			cfg:     valid(func(c *Config) { c.Languages = []string{"English", "english"} }),
			wantErr: "listed twice",
		},
		{
			name:    "bad log level",
			cfg:     valid(func(c *Config) { c.Log.Level = "loud" }),
			wantErr: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
			}
		})
	}
}

func TestConfig_SaveFormat(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, FileName)

	cfg := Default()
	cfg.Class = "Survey"

	err := cfg.Save(cfgPath)
	require.NoError(t, err)

	content, err := os.ReadFile(cfgPath) //nolint:gosec // test file path
	require.NoError(t, err)

	output := string(content)
	assert.Contains(t, output, "version: 1")
	assert.Contains(t, output, "class: Survey")
	assert.Contains(t, output, "  question: questions_in_english")
	assert.Contains(t, output, "key_suffix: ufind_v2")
	assert.NotContains(t, output, "ideal_sheet")
}

func TestConfig_Load(t *testing.T) {
	cfg, err := Load("testdata/valid.yaml")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "Survey", cfg.Class)
	assert.Equal(t, "Household", cfg.IdealSheet)
	assert.Equal(t, []string{"Household", "Members"}, cfg.Sheets)
	assert.Equal(t, "q_no", cfg.Columns.Serial)
	assert.Equal(t, []string{"English", "Tamil"}, cfg.Languages)
	assert.Equal(t, "lib/generated", cfg.Output)
	assert.Equal(t, `row.database != "internal"`, cfg.Include)

	// Defaults fill what the file omits.
	assert.Equal(t, "ufind_v2", cfg.KeySuffix)
	assert.Equal(t, "dart", cfg.Target)
	assert.True(t, cfg.SkipHidden)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Load_NotFound(t *testing.T) {
	_, err := Load("testdata/nonexistent.yaml")
	assert.Error(t, err)
}

func TestConfig_Load_Invalid(t *testing.T) {
	_, err := Load("testdata/invalid.yaml")
	assert.Error(t, err)
}

func TestConfig_Save_InvalidPath(t *testing.T) {
	cfg := Config{Version: 1}

	err := cfg.Save("/nonexistent/directory/config.yaml")
	assert.Error(t, err)
}

func TestConfig_Load_Empty(t *testing.T) {
	tmpDir := t.TempDir()
	emptyFile := filepath.Join(tmpDir, "empty.yaml")
	require.NoError(t, os.WriteFile(emptyFile, []byte(""), 0o600))

	_, err := Load(emptyFile)
	assert.Error(t, err)
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("FORMGEN_CLASS", "Census")
	t.Setenv("FORMGEN_COLUMNS_STORAGE", "db_column")
	t.Setenv("FORMGEN_SKIP_HIDDEN", "false")

	cfg, err := LoadWithEnv("testdata/valid.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Census", cfg.Class)
	assert.Equal(t, "db_column", cfg.Columns.Storage)
	assert.False(t, cfg.SkipHidden)
	assert.Equal(t, "questions_in_english", cfg.Columns.Question)
	assert.Equal(t, []string{"Household", "Members"}, cfg.Sheets)
	assert.Equal(t, "ufind_v2", cfg.KeySuffix)
}

func TestLoadWithEnv_NotFound(t *testing.T) {
	_, err := LoadWithEnv("testdata/nonexistent.yaml")
	assert.Error(t, err)
}

func TestConfig_SchemaConversion(t *testing.T) {
	cfg := Default()
	cfg.Columns.Question = "Questions In English"
	cfg.Languages = []string{" English ", "Tamil"}

	cols := cfg.SchemaColumns()
	assert.Equal(t, "questions_in_english", cols.Question)
	assert.Equal(t, "field_names_in_", cols.LabelPrefix)
	assert.Equal(t, "", cols.Serial)
	assert.Equal(t, []schema.Language{"English", "Tamil"}, cfg.SchemaLanguages())
}
