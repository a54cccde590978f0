package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and returns the main HTTP router.
func NewRouter(ctrl Controller, bus EventBus) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(middleware.CleanPath)

	h := &Handlers{ctrl: ctrl, events: bus}

	// Amplifier state
	r.Get("/api", h.getState)
	r.Get("/api/", h.getState)
	r.Patch("/api/amp", h.updateAmp)

	// Faults
	r.Get("/api/faults", h.getFaults)

	// AGC presets
	r.Get("/api/presets", h.getPresets)
	r.Post("/api/presets/{name}/load", h.loadPreset)

	// Raw register shadow + device resync
	r.Get("/api/registers", h.getRegisters)
	r.Post("/api/sync", h.doSync)

	// Server-sent events
	r.Get("/api/events", h.sseEvents)

	return r
}

// corsMiddleware adds permissive CORS headers for local network access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
