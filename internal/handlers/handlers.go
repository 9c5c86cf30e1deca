// Package handlers provides HTTP request handlers
package handlers

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/findosh/fundsim/internal/config"
	"github.com/findosh/fundsim/internal/services/catalog"
	"github.com/findosh/fundsim/internal/services/session"
	"github.com/findosh/fundsim/internal/services/simulation"
	"github.com/shopspring/decimal"
)

// Handler contains all HTTP handlers and dependencies
type Handler struct {
	cfg       *config.Config
	catalog   *catalog.Catalog
	sessions  *session.Manager
	simulator *simulation.Service
}

// New creates a new handler with all dependencies
func New(
	cfg *config.Config,
	cat *catalog.Catalog,
	sessions *session.Manager,
	simulator *simulation.Service,
) *Handler {
	return &Handler{
		cfg:       cfg,
		catalog:   cat,
		sessions:  sessions,
		simulator: simulator,
	}
}

// Number is a float encoded with two decimals, or null when not finite
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(decimal.NewFromFloat(v).Round(2).String()), nil
}

// writeJSON writes a JSON response with the given status code
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// jsonError writes a JSON error response
func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads the request body into v, answering 400 on failure
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		h.jsonError(w, "Request body is required", http.StatusBadRequest)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.jsonError(w, "Invalid request", http.StatusBadRequest)
		return false
	}
	return true
}

// Health reports liveness with catalog and session counts
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"funds":    h.catalog.Len(),
		"sessions": h.sessions.Len(),
	})
}
