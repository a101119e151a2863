package api

import (
	"net/http"
)

// NewRouter builds the HTTP mux over the handlers.
func NewRouter(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/api/analyze", h.Analyze)
	return mux
}
