// Package server implements the sample HTTP application that cloudship
// builds and deploys. It exposes a root status endpoint plus health and
// greeting routes under the configurable API prefix.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type statusResponse struct {
	Message     string `json:"message"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type helloResponse struct {
	Message string `json:"message"`
}

// NewRouter builds the application router for the given settings.
func NewRouter(settings Settings) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{
			Message:     "OK",
			Version:     settings.APIVersion,
			Environment: settings.Environment,
		})
	})

	r.Route(settings.APIPrefix, func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Message: "OK"})
		})
		api.Get("/hello", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, helloResponse{Message: "Hello, World!"})
		})
		api.Get("/hello/{name}", func(w http.ResponseWriter, req *http.Request) {
			name := chi.URLParam(req, "name")
			writeJSON(w, http.StatusOK, helloResponse{Message: "Hello, " + name + "!"})
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
