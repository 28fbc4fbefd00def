package handler

import (
	"net/http"

	"zapway/internal/middleware"
	"zapway/internal/session"
	"zapway/pkg/errors"
	"zapway/pkg/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	service   *session.Service
	validator *validator.Validator
	logger    Logger
	// onLogout runs after the caller's session ends.
	onLogout func(r *http.Request)
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *session.Service, val *validator.Validator, log Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: val,
		logger:    log,
	}
}

// OnLogout registers fn to run after a successful logout.
func (h *AuthHandler) OnLogout(fn func(r *http.Request)) {
	h.onLogout = fn
}

func clientInfo(r *http.Request) session.ClientInfo {
	return session.ClientInfo{UserAgent: r.UserAgent(), IP: middleware.ClientIP(r)}
}

// Register handles user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req session.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errs := h.validator.ValidateStructured(&req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	response, err := h.service.Register(r.Context(), &req, clientInfo(r))
	if err != nil {
		if errors.Is(err, errors.ErrUserAlreadyExists) {
			respondError(w, http.StatusConflict, "User already exists")
			return
		}

		h.logger.Error("Registration failed", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	respondJSON(w, http.StatusCreated, response)
}

// Login authenticates a user and returns a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req session.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errs := h.validator.ValidateStructured(&req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	response, err := h.service.Login(r.Context(), &req, clientInfo(r))
	if err != nil {
		if !errors.Is(err, errors.ErrInvalidCredentials) {
			h.logger.Error("Login failed", map[string]interface{}{"error": err.Error()})
		}
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// Logout ends the session behind the request token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.service.Logout(r.Context(), userID, sessionID); err != nil {
		respondServiceError(w, h.logger, err, "Logout failed", map[string]interface{}{
			"user_id": userID.String(),
		})
		return
	}
	if h.onLogout != nil {
		h.onLogout(r)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the caller's account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := caller(w, r)
	if !ok {
		return
	}
	user, err := h.service.User(userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to load account", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":       user,
		"session_id": sessionID,
	})
}
