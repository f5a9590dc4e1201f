// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package server exposes generation over HTTP: a workbook upload in, a zip of
// generated files out.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DefaultMaxUpload caps the size of an uploaded workbook.
const DefaultMaxUpload = 32 << 20

// Config holds server configuration.
type Config struct {
	Addr string
	// Defaults is the configuration every request starts from. Requests may
	// override any key.
	Defaults  *config.Config
	MaxUpload int64
	Logger    *zap.Logger
	// Now stamps generated headers; it defaults to time.Now.
	Now func() time.Time
}

func (c *Config) withDefaults() {
	if c.Defaults == nil {
		c.Defaults = config.Default()
	}
	if c.MaxUpload <= 0 {
		c.MaxUpload = DefaultMaxUpload
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// NewRouter returns the HTTP handler with all routes registered.
func NewRouter(cfg Config) http.Handler {
	cfg.withDefaults()
	h := &handler{cfg: cfg, log: cfg.Logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(h.logging)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/version", h.version)
		r.Get("/targets", h.targets)
		r.Post("/sheets", h.sheets)
		r.Post("/columns", h.columns)
		r.Post("/validate", h.validate)
		r.Post("/generate", h.generate)
	})
	return r
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server
// fails.
func Run(ctx context.Context, cfg Config) error {
	cfg.withDefaults()

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			cfg.Logger.Warn("shutdown", zap.Error(err))
		}
	}()

	cfg.Logger.Info("starting server", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	return nil
}
