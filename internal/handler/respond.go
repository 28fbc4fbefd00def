// Package handler provides HTTP handlers for the ZapWay services.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"zapway/internal/middleware"
	"zapway/pkg/errors"
)

const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondValidationErrors(w http.ResponseWriter, errors map[string]string) {
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":             "Validation failed",
		"validation_errors": errors,
	})
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields.
// It writes the error response itself and reports whether decoding worked.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			respondError(w, http.StatusBadRequest, "Request body is required")
			return false
		}
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// caller returns the authenticated user and session, answering 401 when absent.
func caller(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok || userID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	return userID, sessionID, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCasinoNotFound),
		errors.Is(err, errors.ErrIntakeNotFound),
		errors.Is(err, errors.ErrNotificationNotFound),
		errors.Is(err, errors.ErrSessionNotFound),
		errors.Is(err, errors.ErrLinkedAccountNotFound),
		errors.Is(err, errors.ErrNothingSelected):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrIntakeLocked),
		errors.Is(err, errors.ErrIntakeClosed),
		errors.Is(err, errors.ErrWalletLocked),
		errors.Is(err, errors.ErrUserAlreadyExists),
		errors.Is(err, errors.ErrCannotTerminateActive),
		errors.Is(err, errors.ErrDuplicateRequest):
		return http.StatusConflict
	case errors.Is(err, errors.ErrStepIncomplete),
		errors.Is(err, errors.ErrInvalidWalletAddress),
		errors.Is(err, errors.ErrMFANotEnrolled),
		errors.Is(err, errors.ErrFinalStep),
		errors.Is(err, errors.ErrNoPreviousStep),
		errors.Is(err, errors.ErrNotReadyToSubmit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrInvalidCredentials),
		errors.Is(err, errors.ErrSessionRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, errors.ErrInvalidCategory),
		errors.Is(err, errors.ErrInvalidSortKey),
		errors.Is(err, errors.ErrInvalidDetailTab),
		errors.Is(err, errors.ErrInvalidPartnerRole),
		errors.Is(err, errors.ErrUnknownField),
		errors.Is(err, errors.ErrInvalidFieldValue),
		errors.Is(err, errors.ErrInvalidKind),
		errors.Is(err, errors.ErrUnknownSetting),
		errors.Is(err, errors.ErrInvalidSettingValue),
		errors.Is(err, errors.ErrInvalidMFACode):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondServiceError writes err with the mapped status. Unmapped errors are
// logged and hidden behind fallback.
func respondServiceError(w http.ResponseWriter, log Logger, err error, fallback string, fields map[string]interface{}) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if fields == nil {
			fields = map[string]interface{}{}
		}
		fields["error"] = err.Error()
		log.Error(fallback, fields)
		respondError(w, status, fallback)
		return
	}
	respondError(w, status, err.Error())
}

// Logger is the logging surface handlers need.
type Logger interface {
	Info(message string, fields map[string]interface{})
	Error(message string, fields map[string]interface{})
	Warn(message string, fields map[string]interface{})
}
