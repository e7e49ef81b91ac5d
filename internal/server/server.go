// Package server exposes the calculation engines over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/erp-engines/pkg/constants"
	"go.uber.org/zap"
)

type handler struct {
	logger       *zap.Logger
	maxBodyBytes int64
	version      string
	now          func() time.Time
}

// NewHandler constructs the HTTP handler that serves the engine API.
func NewHandler(logger *zap.Logger, maxBodyBytes int64, version string) http.Handler {
	return newHandler(logger, maxBodyBytes, version, time.Now).routes()
}

func newHandler(logger *zap.Logger, maxBodyBytes int64, version string, now func() time.Time) *handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	return &handler{logger: logger, maxBodyBytes: maxBodyBytes, version: trimmedVersion, now: now}
}

func (h *handler) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(h.requestLogger)

	router.Get("/healthz", h.handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Use(h.limitBody)

		r.Get("/version", h.handleVersion)

		r.Post("/tax/line", h.handleTaxLine)
		r.Post("/tax/document", h.handleTaxDocument)
		r.Post("/tax/cfop", h.handleCFOP)
		r.Post("/pricing", h.handlePricing)
		r.Post("/replenishment", h.handleReplenishment)
		r.Post("/workbook", h.handleWorkbook)
	})

	return router
}

// NewServer wraps the handler in an http.Server configured from cfg.
func NewServer(logger *zap.Logger, cfg *Config) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           NewHandler(logger, cfg.MaxBodyBytes(), cfg.Version),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (h *handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.logger.Debug("request",
			zap.String("op", "server.requestLogger"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestId", middleware.GetReqID(r.Context())),
		)
	})
}

func (h *handler) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeJSON reads a single JSON document into dst, rejecting unknown fields.
// The returned status distinguishes oversized bodies from malformed ones.
func decodeJSON(r *http.Request, dst interface{}) (int, error) {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return bodyErrorStatus(err), fmt.Errorf("failed to decode request: %w", err)
	}
	if decoder.More() {
		return http.StatusBadRequest, errors.New("failed to decode request: unexpected data after JSON body")
	}
	return http.StatusOK, nil
}

func readBody(r *http.Request) ([]byte, int, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, bodyErrorStatus(err), fmt.Errorf("failed to read request: %w", err)
	}
	return data, http.StatusOK, nil
}

func bodyErrorStatus(err error) int {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	level := h.logger.Warn
	if status >= http.StatusInternalServerError {
		level = h.logger.Error
	}
	level("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
