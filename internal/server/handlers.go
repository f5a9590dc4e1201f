// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package server

import (
	"bytes"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/config"
	"github.com/dacolabs/formgen/internal/emit"
	"github.com/dacolabs/formgen/internal/output"
	"github.com/dacolabs/formgen/internal/pipeline"
	"github.com/dacolabs/formgen/internal/sheet"
	"github.com/dacolabs/formgen/internal/version"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// workbookField is the multipart file field holding the .xlsx upload.
	workbookField = "workbook"
	// configField is the optional multipart field with YAML or JSON overrides.
	configField = "config"
)

type handler struct {
	cfg Config
	log *zap.Logger
}

func (h *handler) version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, version.Current())
}

func (h *handler) targets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"targets": emit.Available()})
}

func (h *handler) sheets(w http.ResponseWriter, r *http.Request) {
	wb, _, ok := h.open(w, r)
	if !ok {
		return
	}
	defer wb.Close() //nolint:errcheck

	names, err := wb.Sheets()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sheets": names})
}

func (h *handler) columns(w http.ResponseWriter, r *http.Request) {
	wb, _, ok := h.open(w, r)
	if !ok {
		return
	}
	defer wb.Close() //nolint:errcheck

	name := r.URL.Query().Get("sheet")
	if name == "" {
		names, err := wb.Sheets()
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if len(names) == 0 {
			h.fail(w, r, pipeline.ErrNoSheets)
			return
		}
		name = names[0]
	}

	headers, err := wb.Headers(name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sheet": name, "columns": headers})
}

func (h *handler) validate(w http.ResponseWriter, r *http.Request) {
	wb, cfg, ok := h.open(w, r)
	if !ok {
		return
	}
	defer wb.Close() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	report, err := pipeline.Validate(wb, pipeline.FromConfig(cfg, ""))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	status := http.StatusOK
	if !report.OK() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]any{"ok": report.OK(), "sheets": report.Sheets})
}

func (h *handler) generate(w http.ResponseWriter, r *http.Request) {
	wb, cfg, ok := h.open(w, r)
	if !ok {
		return
	}
	defer wb.Close() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	e, err := emit.Get(cfg.Target)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	opts := pipeline.FromConfig(cfg, h.cfg.Now().Format("2006-01-02"))
	res, err := pipeline.Run(r.Context(), wb, opts, e, h.requestLogger(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := output.Zip(&buf, res.Files); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+cfg.Class+`.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// open parses the multipart upload, resolving the request configuration and
// opening the workbook. It writes the error response itself when ok is false.
func (h *handler) open(w http.ResponseWriter, r *http.Request) (*sheet.Workbook, *config.Config, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUpload)
	if err := r.ParseMultipartForm(h.cfg.MaxUpload); err != nil {
		h.badRequest(w, r, "INVALID_UPLOAD", errors.Wrap(err, "parse multipart form"))
		return nil, nil, false
	}

	cfg, err := h.requestConfig(r.FormValue(configField))
	if err != nil {
		h.badRequest(w, r, "INVALID_CONFIG", err)
		return nil, nil, false
	}

	file, _, err := r.FormFile(workbookField)
	if err != nil {
		h.badRequest(w, r, "MISSING_WORKBOOK", errors.Wrapf(err, "form field %q", workbookField))
		return nil, nil, false
	}
	defer file.Close() //nolint:errcheck

	wb, err := sheet.OpenReader(file,
		sheet.WithSkipHidden(cfg.SkipHidden),
		sheet.WithLogger(h.requestLogger(r)),
	)
	if err != nil {
		h.badRequest(w, r, "INVALID_WORKBOOK", err)
		return nil, nil, false
	}
	return wb, cfg, true
}

// requestConfig decodes raw onto a copy of the server defaults. JSON bodies are
// valid YAML, so one decoder serves both.
func (h *handler) requestConfig(raw string) (*config.Config, error) {
	cfg := *h.cfg.Defaults
	if raw == "" {
		return &cfg, nil
	}
	if err := yaml.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, errors.Wrapf(err, "decode %q field", configField)
	}
	return &cfg, nil
}

func (h *handler) requestLogger(r *http.Request) *zap.Logger {
	return h.log.With(zap.String("request_id", RequestIDFrom(r.Context())))
}

func (h *handler) badRequest(w http.ResponseWriter, r *http.Request, code string, err error) {
	h.requestLogger(r).Debug("rejected request", zap.String("code", code), zap.Error(err))
	writeError(w, r, http.StatusBadRequest, code, err)
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		h.requestLogger(r).Error("request failed", zap.Error(err))
		writeError(w, r, status, code, errors.New("internal server error"))
		return
	}
	writeError(w, r, status, code, err)
}
