package handler

import (
	"net/http"

	"zapway/internal/middleware"
	"zapway/internal/profile"
	"zapway/pkg/validator"
)

// ProfileHandler serves the dossier page.
type ProfileHandler struct {
	service   *profile.Service
	validator *validator.Validator
	logger    Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(service *profile.Service, val *validator.Validator, log Logger) *ProfileHandler {
	return &ProfileHandler{service: service, validator: val, logger: log}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	username, _ := middleware.UsernameFromContext(r.Context())
	respondJSON(w, http.StatusOK, h.service.Get(userID, username))
}

func (h *ProfileHandler) SetBio(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	var req profile.BioRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := h.validator.ValidateStructured(&req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}
	username, _ := middleware.UsernameFromContext(r.Context())
	p, err := h.service.SetBio(userID, username, req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update bio", nil)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Link starts linking a casino account. It is verified asynchronously.
func (h *ProfileHandler) Link(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	var req profile.LinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := h.validator.ValidateStructured(&req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}
	link, err := h.service.Link(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to link account", map[string]interface{}{
			"casino_id": req.CasinoID,
		})
		return
	}
	respondJSON(w, http.StatusAccepted, link)
}

func (h *ProfileHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	linkID, ok := pathUUID(w, r, "id", "linked account")
	if !ok {
		return
	}
	if err := h.service.Unlink(r.Context(), userID, linkID); err != nil {
		respondServiceError(w, h.logger, err, "Failed to unlink account", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
