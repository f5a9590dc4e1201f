// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/config"
	"github.com/dacolabs/formgen/internal/emit"
	"github.com/dacolabs/formgen/internal/pipeline"
	"github.com/dacolabs/formgen/internal/schema"
	"github.com/dacolabs/formgen/internal/sheet"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string   `json:"error"`
	Code      string   `json:"code"`
	Hints     []string `json:"hints,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	body := errorBody{
		Error:     err.Error(),
		Code:      code,
		RequestID: RequestIDFrom(r.Context()),
	}
	if hint := errors.FlattenHints(err); hint != "" {
		body.Hints = strings.Split(hint, "\n--\n")
	}
	writeJSON(w, status, body)
}

// classify maps a generation failure to a status and an error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, config.ErrInvalidConfig):
		return http.StatusBadRequest, "INVALID_CONFIG"
	case errors.Is(err, emit.ErrUnknownEmitter):
		return http.StatusBadRequest, "UNKNOWN_TARGET"
	case errors.Is(err, schema.ErrMissingColumns):
		return http.StatusUnprocessableEntity, "MISSING_COLUMNS"
	case errors.Is(err, pipeline.ErrUnknownSheet), errors.Is(err, sheet.ErrUnknownSheet):
		return http.StatusUnprocessableEntity, "UNKNOWN_SHEET"
	case errors.Is(err, pipeline.ErrNoRows), errors.Is(err, pipeline.ErrNoSheets):
		return http.StatusUnprocessableEntity, "NO_ROWS"
	case errors.Is(err, pipeline.ErrInvalidFilter):
		return http.StatusUnprocessableEntity, "INVALID_INCLUDE"
	case errors.Is(err, pipeline.ErrInvalidClass):
		return http.StatusUnprocessableEntity, "INVALID_CLASS"
	case errors.Is(err, pipeline.ErrClassCollision):
		return http.StatusUnprocessableEntity, "CLASS_COLLISION"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// RequestIDFrom returns the request ID stored by the requestID middleware.
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// requestID keeps an incoming X-Request-ID or assigns a new UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (h *handler) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", RequestIDFrom(r.Context())),
		)
	})
}
