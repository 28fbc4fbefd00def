package handler

import (
	"net/http"

	"zapway/internal/directory"
)

// DirectoryHandler drives the detail overlay of the caller's session.
type DirectoryHandler struct {
	service *directory.Service
	logger  Logger
}

// NewDirectoryHandler creates a DirectoryHandler.
func NewDirectoryHandler(service *directory.Service, log Logger) *DirectoryHandler {
	return &DirectoryHandler{service: service, logger: log}
}

type selectRequest struct {
	CasinoID string `json:"casino_id"`
}

type tabRequest struct {
	Tab *int `json:"tab"`
}

// Current returns the open overlay.
func (h *DirectoryHandler) Current(w http.ResponseWriter, r *http.Request) {
	_, sessionID, ok := caller(w, r)
	if !ok {
		return
	}
	view, err := h.service.Current(sessionID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to load selection", nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Select opens an entry, replacing whatever was open.
func (h *DirectoryHandler) Select(w http.ResponseWriter, r *http.Request) {
	_, sessionID, ok := caller(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CasinoID == "" {
		respondValidationErrors(w, map[string]string{"casino_id": "casino_id is required"})
		return
	}

	view, err := h.service.Select(r.Context(), sessionID, req.CasinoID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to select casino", map[string]interface{}{
			"casino_id": req.CasinoID,
		})
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SetTab switches the overlay tab.
func (h *DirectoryHandler) SetTab(w http.ResponseWriter, r *http.Request) {
	_, sessionID, ok := caller(w, r)
	if !ok {
		return
	}
	var req tabRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Tab == nil {
		respondValidationErrors(w, map[string]string{"tab": "tab is required"})
		return
	}

	view, err := h.service.SetTab(sessionID, *req.Tab)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to switch tab", nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Close dismisses the overlay. Closing with nothing open succeeds.
func (h *DirectoryHandler) Close(w http.ResponseWriter, r *http.Request) {
	_, sessionID, ok := caller(w, r)
	if !ok {
		return
	}
	h.service.Close(sessionID)
	w.WriteHeader(http.StatusNoContent)
}
