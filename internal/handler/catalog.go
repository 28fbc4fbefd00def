package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"zapway/internal/catalog"
	"zapway/internal/domain"
)

// CatalogHandler serves the casino directory listing.
type CatalogHandler struct {
	service *catalog.Service
	logger  Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(service *catalog.Service, log Logger) *CatalogHandler {
	return &CatalogHandler{service: service, logger: log}
}

type listResponse struct {
	Casinos []domain.CatalogEntry `json:"casinos"`
	Count   int                   `json:"count"`
	Filter  catalog.FilterState   `json:"filter"`
}

// List returns the filtered, sorted projection described by the query string:
// search, category, sort and the vpn/fiat/no_kyc/live_chat/mobile_app/p2p toggles.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	state, err := catalog.ParseFilterState(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	casinos := h.service.List(r.Context(), state)
	respondJSON(w, http.StatusOK, listResponse{
		Casinos: casinos,
		Count:   len(casinos),
		Filter:  state,
	})
}

// Meta returns the category counts and sort options.
func (h *CatalogHandler) Meta(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Meta())
}

// Get returns a single entry.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to load casino", nil)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// Referral returns the outbound link with the referral tag applied.
func (h *CatalogHandler) Referral(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	link, err := h.service.ReferralLink(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to build referral link", map[string]interface{}{
			"casino_id": id,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"casino_id": id, "url": link})
}
