// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"

	"github.com/dacolabs/formgen/internal/commands"
)

// Run is the main application logic, extracted for testability.
func Run(ctx context.Context, args []string) error {
	rootCmd := commands.NewRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
