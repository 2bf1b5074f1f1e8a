// Package handler exposes the read-only HTTP status surface of the
// simulation: instrument prices, book depth, settled trades, and actor
// wallets. There is no write path — orders flow only through the in-process
// message protocol.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/minimarket/internal/service"
)

// NewRouter creates a chi router with all routes registered and request
// logging middleware.
func NewRouter(statusSvc *service.StatusService, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogging(logger))

	h := NewStatusHandler(statusSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Instrument routes.
	r.Get("/instruments", h.ListInstruments)
	r.Get("/instruments/{instrument_id}/price", h.GetPrice)
	r.Get("/instruments/{instrument_id}/book", h.GetBook)
	r.Get("/instruments/{instrument_id}/trades", h.GetTrades)

	// Actor routes.
	r.Get("/actors", h.ListActors)
	r.Get("/actors/{actor_id}", h.GetActor)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}
