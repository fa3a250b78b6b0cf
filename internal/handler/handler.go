// Package handler exposes the ordering flow over HTTP: catalog reads, draft
// lifecycle, delivery quotes, submission, and the token-gated admin surface.
package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/marmitafamilia/ordering/internal/delivery"
	"github.com/marmitafamilia/ordering/internal/domain/catalog"
	"github.com/marmitafamilia/ordering/internal/domain/order"
	"github.com/marmitafamilia/ordering/internal/session"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// AdminToken is the shared secret expected in X-Admin-Token. When empty
	// the admin endpoints are disabled. This is a static gate, not an
	// authentication scheme.
	AdminToken string
}

// Handler wires the HTTP surface to the domain services.
type Handler struct {
	cfg      Config
	catalog  catalog.Repository
	settings catalog.SettingsRepository
	sessions *session.Store
	resolver *delivery.Resolver
	orders   *order.Service
}

// New constructs a Handler with the required dependencies.
func New(
	cfg Config,
	catalogRepo catalog.Repository,
	settingsRepo catalog.SettingsRepository,
	sessions *session.Store,
	resolver *delivery.Resolver,
	orders *order.Service,
) *Handler {
	return &Handler{
		cfg:      cfg,
		catalog:  catalogRepo,
		settings: settingsRepo,
		sessions: sessions,
		resolver: resolver,
		orders:   orders,
	}
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/catalog", h.getCatalog)

	mux.HandleFunc("POST /api/drafts", h.createDraft)
	mux.HandleFunc("GET /api/drafts/{id}", h.getDraft)
	mux.HandleFunc("POST /api/drafts/{id}/events", h.applyEvent)
	mux.HandleFunc("POST /api/drafts/{id}/delivery-quote", h.quoteDelivery)
	mux.HandleFunc("POST /api/drafts/{id}/submit", h.submitOrder)

	mux.HandleFunc("POST /api/admin/catalog", h.requireAdmin(h.createCatalogItem))
	mux.HandleFunc("PATCH /api/admin/catalog/{id}", h.requireAdmin(h.updateCatalogItem))
	mux.HandleFunc("DELETE /api/admin/catalog/{id}", h.requireAdmin(h.deleteCatalogItem))
	mux.HandleFunc("PUT /api/admin/settings/{key}", h.requireAdmin(h.updateSetting))
}

// requireAdmin gates a handler behind the shared admin secret.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Admin-Token")
		if h.cfg.AdminToken == "" || token == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.AdminToken)) != 1 {
			respondError(w, http.StatusForbidden, "acesso negado")
			return
		}
		next(w, r)
	}
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Code: status, Message: message})
}

func respondFieldError(w http.ResponseWriter, status int, message, field string) {
	respondJSON(w, status, errorBody{Code: status, Message: message, Field: field})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
