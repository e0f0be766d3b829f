package crm

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/laylabot/leasing-agent/pkg/logging"
)

// Handler exposes the lead repository over HTTP for back-office use.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a leads handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("crm: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// SyncLead handles POST /leads.
func (h *Handler) SyncLead(w http.ResponseWriter, r *http.Request) {
	var lead Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		h.logger.Error("failed to decode lead", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if lead.Source == "" {
		lead.Source = "api"
	}

	synced, err := h.repo.Sync(r.Context(), &lead)
	if err != nil {
		if errors.Is(err, ErrInvalidName) || errors.Is(err, ErrMissingPhone) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to sync lead", "error", err)
		http.Error(w, "Failed to sync lead", http.StatusInternalServerError)
		return
	}

	h.logger.Info("lead synced", "id", synced.ID, "name", synced.Name)
	h.writeJSON(w, http.StatusCreated, synced)
}

// GetLead handles GET /leads/{phone}.
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	if phone == "" {
		http.Error(w, "missing phone", http.StatusBadRequest)
		return
	}

	lead, err := h.repo.GetByPhone(r.Context(), phone)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			http.Error(w, "Lead not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load lead", "phone", phone, "error", err)
		http.Error(w, "Failed to load lead", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, lead)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
