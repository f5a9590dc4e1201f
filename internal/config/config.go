// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package config handles formgen project configuration.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/schema"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// FileName is the project configuration file looked up in the working directory.
const FileName = "formgen.yaml"

// EnvPrefix prefixes environment overrides, e.g. FORMGEN_CLASS.
const EnvPrefix = "FORMGEN"

// ErrInvalidConfig marks every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Columns designates the spreadsheet columns, by normalized header name.
type Columns struct {
	Question string `yaml:"question" mapstructure:"question"`
	Label    string `yaml:"label" mapstructure:"label"`
	Type     string `yaml:"type" mapstructure:"type"`
	Storage  string `yaml:"storage" mapstructure:"storage"`
	Serial   string `yaml:"serial,omitempty" mapstructure:"serial"`
	Option   string `yaml:"option,omitempty" mapstructure:"option"`
}

// Log configures diagnostics.
type Log struct {
	JSON  bool   `yaml:"json,omitempty" mapstructure:"json"`
	Level string `yaml:"level,omitempty" mapstructure:"level"`
}

// Config represents the formgen.yaml project configuration file.
type Config struct {
	Version        int      `yaml:"version" mapstructure:"version"`
	Class          string   `yaml:"class" mapstructure:"class"`
	Sheets         []string `yaml:"sheets,omitempty" mapstructure:"sheets"`
	IdealSheet     string   `yaml:"ideal_sheet,omitempty" mapstructure:"ideal_sheet"`
	Columns        Columns  `yaml:"columns" mapstructure:"columns"`
	Languages      []string `yaml:"languages" mapstructure:"languages"`
	QuestionPrefix string   `yaml:"question_prefix" mapstructure:"question_prefix"`
	LabelPrefix    string   `yaml:"label_prefix" mapstructure:"label_prefix"`
	KeySuffix      string   `yaml:"key_suffix" mapstructure:"key_suffix"`
	Output         string   `yaml:"output" mapstructure:"output"`
	Target         string   `yaml:"target" mapstructure:"target"`
	Include        string   `yaml:"include,omitempty" mapstructure:"include"`
	SkipHidden     bool     `yaml:"skip_hidden" mapstructure:"skip_hidden"`
	Log            Log      `yaml:"log,omitempty" mapstructure:"log"`
}

// Default returns a Config with the conventional layout.
func Default() *Config {
	cols := schema.DefaultColumns()
	languages := make([]string, len(schema.DefaultLanguages))
	for i, l := range schema.DefaultLanguages {
		languages[i] = string(l)
	}
	return &Config{
		Version: CurrentConfigVersion,
		Columns: Columns{
			Question: cols.Question,
			Label:    cols.Label,
			Type:     cols.Type,
			Storage:  cols.Storage,
		},
		Languages:      languages,
		QuestionPrefix: cols.QuestionPrefix,
		LabelPrefix:    cols.LabelPrefix,
		KeySuffix:      schema.DefaultKeySuffix,
		Output:         "generated",
		Target:         "dart",
		SkipHidden:     true,
		Log:            Log{Level: "info"},
	}
}

// Load reads a Config from a file path. Keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	cfg := Default()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return cfg, nil
}

// LoadWithEnv reads a Config from path and overlays FORMGEN_* environment
// variables, e.g. FORMGEN_CLASS or FORMGEN_COLUMNS_STORAGE. Lists are
// comma-separated.
func LoadWithEnv(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", path)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("class", d.Class)
	v.SetDefault("sheets", d.Sheets)
	v.SetDefault("ideal_sheet", d.IdealSheet)
	v.SetDefault("columns.question", d.Columns.Question)
	v.SetDefault("columns.label", d.Columns.Label)
	v.SetDefault("columns.type", d.Columns.Type)
	v.SetDefault("columns.storage", d.Columns.Storage)
	v.SetDefault("columns.serial", d.Columns.Serial)
	v.SetDefault("columns.option", d.Columns.Option)
	v.SetDefault("languages", d.Languages)
	v.SetDefault("question_prefix", d.QuestionPrefix)
	v.SetDefault("label_prefix", d.LabelPrefix)
	v.SetDefault("key_suffix", d.KeySuffix)
	v.SetDefault("output", d.Output)
	v.SetDefault("target", d.Target)
	v.SetDefault("include", d.Include)
	v.SetDefault("skip_hidden", d.SkipHidden)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.level", d.Log.Level)
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.Mark(errors.New("unsupported config version"), ErrInvalidConfig)
	}
	if !schema.IsClassName(c.Class) {
		return errors.Mark(
			errors.WithHint(errors.Newf("class %q is not a valid class name", c.Class),
				"use letters, digits and underscores, starting with a letter"),
			ErrInvalidConfig)
	}
	for _, col := range []struct{ name, value string }{
		{"columns.question", c.Columns.Question},
		{"columns.label", c.Columns.Label},
		{"columns.type", c.Columns.Type},
		{"columns.storage", c.Columns.Storage},
	} {
		if strings.TrimSpace(col.value) == "" {
			return errors.Mark(errors.Newf("%s is required", col.name), ErrInvalidConfig)
		}
	}
	if len(c.Languages) == 0 {
		return errors.Mark(errors.New("at least one language is required"), ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Languages))
	for _, l := range c.Languages {
		key := schema.Language(l).Column()
		if key == "" {
			return errors.Mark(errors.Newf("language %q has no usable name", l), ErrInvalidConfig)
		}
		if seen[key] {
			return errors.Mark(errors.Newf("language %q is listed twice", l), ErrInvalidConfig)
		}
		seen[key] = true
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return errors.Mark(errors.Wrap(err, "log.level"), ErrInvalidConfig)
		}
	}
	return nil
}

// SchemaColumns returns the designated columns in normalized form.
func (c *Config) SchemaColumns() schema.Columns {
	return schema.Columns{
		Question:       schema.NormalizeColumn(c.Columns.Question),
		Label:          schema.NormalizeColumn(c.Columns.Label),
		Type:           schema.NormalizeColumn(c.Columns.Type),
		Storage:        schema.NormalizeColumn(c.Columns.Storage),
		Serial:         schema.NormalizeColumn(c.Columns.Serial),
		Option:         schema.NormalizeColumn(c.Columns.Option),
		QuestionPrefix: c.QuestionPrefix,
		LabelPrefix:    c.LabelPrefix,
	}
}

// SchemaLanguages returns the configured languages.
func (c *Config) SchemaLanguages() []schema.Language {
	languages := make([]schema.Language, len(c.Languages))
	for i, l := range c.Languages {
		languages[i] = schema.Language(strings.TrimSpace(l))
	}
	return languages
}
