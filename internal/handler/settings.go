package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"zapway/internal/middleware"
	"zapway/internal/settings"
)

// SettingsHandler serves the settings page.
type SettingsHandler struct {
	service *settings.Service
	logger  Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(service *settings.Service, log Logger) *SettingsHandler {
	return &SettingsHandler{service: service, logger: log}
}

type preferenceRequest struct {
	Value string `json:"value"`
}

type walletRequest struct {
	Address string `json:"address"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.service.Get(userID))
}

// Options lists the accepted preference values.
func (h *SettingsHandler) Options(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, settings.PreferenceOptions())
}

func (h *SettingsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	view, err := h.service.Toggle(r.Context(), userID, mux.Vars(r)["key"])
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to toggle setting", nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *SettingsHandler) SetPreference(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	var req preferenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := h.service.SetPreference(r.Context(), userID, mux.Vars(r)["key"], req.Value)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update preference", nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *SettingsHandler) UnlockWallet(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.service.UnlockWallet(userID))
}

// CommitWallet saves the vault address. It must have been unlocked first.
func (h *SettingsHandler) CommitWallet(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	var req walletRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := h.service.CommitWallet(r.Context(), userID, req.Address)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update vault address", nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// EnrollMFA returns a fresh TOTP secret and provisioning URL.
func (h *SettingsHandler) EnrollMFA(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	account, _ := middleware.UsernameFromContext(r.Context())
	if account == "" {
		account = userID.String()
	}
	enrollment, err := h.service.EnrollMFA(r.Context(), userID, account)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to enrol MFA", map[string]interface{}{
			"user_id": userID.String(),
		})
		return
	}
	respondJSON(w, http.StatusCreated, enrollment)
}

func (h *SettingsHandler) VerifyMFA(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	var req mfaCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := h.service.VerifyMFA(userID, req.Code)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to verify MFA code", nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *SettingsHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := caller(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": h.service.Sessions(userID, sessionID),
	})
}

func (h *SettingsHandler) TerminateSession(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := caller(w, r)
	if !ok {
		return
	}
	target, ok := pathUUID(w, r, "id", "session")
	if !ok {
		return
	}
	if err := h.service.TerminateSession(r.Context(), userID, sessionID, target); err != nil {
		respondServiceError(w, h.logger, err, "Failed to terminate session", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) TerminateOtherSessions(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := caller(w, r)
	if !ok {
		return
	}
	n, err := h.service.TerminateOtherSessions(r.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to terminate sessions", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"terminated": n})
}

// DeleteAccount purges the caller. The token stops working immediately.
func (h *SettingsHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete account", map[string]interface{}{
			"user_id": userID.String(),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
