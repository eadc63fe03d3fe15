// Package server wires handlers, sessions and middlewares into the root http.Handler.
package server

import (
	"net/http"

	"github.com/diewo77/invoice-api/auth"
	"github.com/diewo77/invoice-api/httpx"
	"github.com/diewo77/invoice-api/internal/config"
	"github.com/diewo77/invoice-api/internal/handlers"
	"github.com/diewo77/invoice-api/internal/middleware"
	"github.com/diewo77/invoice-api/internal/services"
	"github.com/diewo77/invoice-api/internal/store"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg *config.Config, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
			log.Warn().Err(err).Msg("health check failed")
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	sessions := auth.NewSessions(cfg.App.SessionSecret, cfg.App.SessionTTL, !cfg.App.Dev)
	authHandler := handlers.NewAuthHandler(db, sessions, log)
	withSession := sessions.Middleware(authHandler.Resolve)
	protect := func(next http.Handler) http.Handler {
		return withSession(auth.RequireAuth(next))
	}
	authHandler.Register(mux, protect)

	invoices := services.NewInvoiceService(store.NewInvoiceStore(db), log)
	handlers.NewInvoiceHandler(invoices, log).Register(mux, protect)

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	})

	var h http.Handler = mux
	h = middleware.CORS(cfg.App.FrontendURL)(h)
	h = middleware.Logging(log)(h)
	h = middleware.Recover(log)(h)
	return h
}
