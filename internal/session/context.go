// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package session provides project context loading for CLI commands.
package session

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/config"
	"github.com/dacolabs/formgen/internal/logging"
	"go.uber.org/zap"
)

var (
	// ErrNotInitialized indicates no formgen.yaml was found in the current directory.
	ErrNotInitialized = errors.New("not in a formgen project (formgen.yaml not found)")

	// ErrInvalidConfig indicates the config file exists but is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Context holds the resolved project configuration and the run logger.
type Context struct {
	// Config is the configuration with environment overrides applied.
	Config *config.Config

	// Path is the config file the Context was loaded from, empty when defaults
	// are in use.
	Path string

	// Logger is built from Config.Log.
	Logger *zap.Logger
}

// Initialized reports whether a formgen.yaml was found.
func (c *Context) Initialized() bool {
	return c.Path != ""
}

// Load loads the project context from dir and returns a new context.Context
// with the Context stored in it. It fails with ErrNotInitialized when dir has no
// formgen.yaml.
func Load(ctx context.Context, dir string) (context.Context, error) {
	configPath := filepath.Join(dir, config.FileName)
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		return nil, ErrNotInitialized
	}

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, config.FileName), ErrInvalidConfig)
	}
	return withConfig(ctx, cfg, configPath)
}

// LoadOrDefault is Load, falling back to the default configuration when dir has
// no formgen.yaml. The fallback is not validated; commands fill the gaps.
func LoadOrDefault(ctx context.Context, dir string) (context.Context, error) {
	loaded, err := Load(ctx, dir)
	if errors.Is(err, ErrNotInitialized) {
		return withConfig(ctx, config.Default(), "")
	}
	return loaded, err
}

func withConfig(ctx context.Context, cfg *config.Config, path string) (context.Context, error) {
	log, err := logging.New(cfg.Log.JSON, cfg.Log.Level)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalidConfig)
	}
	return context.WithValue(ctx, contextKey{}, &Context{
		Config: cfg,
		Path:   path,
		Logger: log,
	}), nil
}

// From extracts the Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if c, ok := ctx.Value(contextKey{}).(*Context); ok {
		return c
	}
	return nil
}
