// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"github.com/dacolabs/formgen/internal/server"
	"github.com/dacolabs/formgen/internal/session"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	addr      string
	maxUpload int64
}

func newServeCmd(g *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generation over HTTP",
		Long: `Start an HTTP server that generates form code from uploaded workbooks.
Requests start from formgen.yaml when present and may override any key.

Routes:
  GET  /healthz
  GET  /v1/version
  GET  /v1/targets
  POST /v1/sheets     multipart: workbook
  POST /v1/columns    multipart: workbook; query: sheet
  POST /v1/validate   multipart: workbook, config
  POST /v1/generate   multipart: workbook, config; responds with a zip`,
		Example: `  # Serve on the default address
  formgen serve

  # Serve on a custom port
  formgen serve --addr :9090`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: g.loadSession(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return server.Run(cmd.Context(), server.Config{
				Addr:      opts.addr,
				Defaults:  sc.Config,
				MaxUpload: opts.maxUpload,
				Logger:    sc.Logger,
			})
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "Listen address")
	cmd.Flags().Int64Var(&opts.maxUpload, "max-upload", server.DefaultMaxUpload, "Maximum workbook upload size in bytes")

	return cmd
}
