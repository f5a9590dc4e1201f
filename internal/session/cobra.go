// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package session

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// FromCommand extracts the Context from a cobra.Command's context.
// Returns nil if no Context is stored.
func FromCommand(cmd *cobra.Command) *Context {
	return From(cmd.Context())
}

// RequireFromCommand extracts the Context from a cobra.Command's context,
// returning an error if not found.
func RequireFromCommand(cmd *cobra.Command) (*Context, error) {
	ctx := FromCommand(cmd)
	if ctx == nil {
		return nil, errors.New("project context not loaded")
	}
	return ctx, nil
}

// PreRunLoad returns a PersistentPreRunE function that loads the project
// context from the working directory and stores it in the command's context.
func PreRunLoad(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get current directory")
	}
	ctx, err := Load(cmd.Context(), cwd)
	if err != nil {
		return err
	}
	cmd.SetContext(ctx)
	return nil
}

// PreRunLoadOrDefault is PreRunLoad without the requirement for a formgen.yaml.
func PreRunLoadOrDefault(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get current directory")
	}
	ctx, err := LoadOrDefault(cmd.Context(), cwd)
	if err != nil {
		return err
	}
	cmd.SetContext(ctx)
	return nil
}
