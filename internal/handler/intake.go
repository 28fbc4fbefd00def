package handler

import (
	"net/http"

	"zapway/internal/domain"
	"zapway/internal/intake"
	"zapway/pkg/errors"
)

// IntakeHandler exposes the affiliate intake wizard.
type IntakeHandler struct {
	registry *intake.Registry
	logger   Logger
}

// NewIntakeHandler creates an IntakeHandler.
func NewIntakeHandler(registry *intake.Registry, log Logger) *IntakeHandler {
	return &IntakeHandler{registry: registry, logger: log}
}

type createIntakeRequest struct {
	Role string `json:"role"`
}

type roleRequest struct {
	Role string `json:"role"`
}

// Create opens a new application. The body is optional.
func (h *IntakeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	var req createIntakeRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	app, err := h.registry.Create(userID, domain.PartnerRole(req.Role))
	if err != nil {
		h.respondIntakeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, app.Snapshot())
}

func (h *IntakeHandler) load(w http.ResponseWriter, r *http.Request) (*intake.Application, bool) {
	userID, _, ok := caller(w, r)
	if !ok {
		return nil, false
	}
	id, ok := pathUUID(w, r, "id", "application")
	if !ok {
		return nil, false
	}
	app, err := h.registry.Get(userID, id)
	if err != nil {
		h.respondIntakeError(w, err)
		return nil, false
	}
	return app, true
}

// Get returns the application state.
func (h *IntakeHandler) Get(w http.ResponseWriter, r *http.Request) {
	app, ok := h.load(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, app.Snapshot())
}

// Update patches form fields. The whole patch is rejected if any field is bad.
func (h *IntakeHandler) Update(w http.ResponseWriter, r *http.Request) {
	app, ok := h.load(w, r)
	if !ok {
		return
	}
	var fields map[string]interface{}
	if !decodeJSON(w, r, &fields) {
		return
	}
	snap, err := app.Update(fields)
	if err != nil {
		h.respondIntakeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// SetRole switches between operator and creator.
func (h *IntakeHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	app, ok := h.load(w, r)
	if !ok {
		return
	}
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	snap, err := app.SetRole(req.Role)
	if err != nil {
		h.respondIntakeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// Next advances when the current step is complete.
func (h *IntakeHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*intake.Application).Next, http.StatusOK)
}

// Back returns to the previous step.
func (h *IntakeHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*intake.Application).Back, http.StatusOK)
}

// Submit starts the asynchronous submission. The outcome arrives as a notification.
func (h *IntakeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*intake.Application).Submit, http.StatusAccepted)
}

func (h *IntakeHandler) transition(w http.ResponseWriter, r *http.Request, step func(*intake.Application) (intake.Snapshot, error), status int) {
	app, ok := h.load(w, r)
	if !ok {
		return
	}
	snap, err := step(app)
	if err != nil {
		h.respondIntakeError(w, err)
		return
	}
	respondJSON(w, status, snap)
}

// Abandon discards the application and cancels any pending submission.
func (h *IntakeHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "application")
	if !ok {
		return
	}
	if err := h.registry.Abandon(userID, id); err != nil {
		h.respondIntakeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *IntakeHandler) respondIntakeError(w http.ResponseWriter, err error) {
	var gate *intake.GateError
	if errors.As(err, &gate) {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":             "Validation failed",
			"step":              gate.Step,
			"validation_errors": gate.Fields,
		})
		return
	}
	respondServiceError(w, h.logger, err, "Intake request failed", nil)
}
