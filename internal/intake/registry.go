package intake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"zapway/internal/domain"
	"zapway/pkg/errors"
	"zapway/pkg/logger"
	"zapway/pkg/validator"
)

// Notifier announces application outcomes to the owning user.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType string, data map[string]interface{}) error
}

// Registry holds the open applications of every user.
type Registry struct {
	submitDelay time.Duration
	idleTimeout time.Duration
	submitter   Submitter
	notifier    Notifier
	validator   *validator.Validator
	logger      logger.Logger
	now         func() time.Time

	mu   sync.Mutex
	apps map[uuid.UUID]*Application
}

func NewRegistry(submitDelay, idleTimeout time.Duration, submitter Submitter, notifier Notifier, v *validator.Validator, log logger.Logger) *Registry {
	return &Registry{
		submitDelay: submitDelay,
		idleTimeout: idleTimeout,
		submitter:   submitter,
		notifier:    notifier,
		validator:   v,
		logger:      log,
		now:         time.Now,
		apps:        make(map[uuid.UUID]*Application),
	}
}

// Create opens a new application for userID.
func (r *Registry) Create(userID uuid.UUID, role domain.PartnerRole) (*Application, error) {
	app, err := New(userID, role, Options{
		SubmitDelay: r.submitDelay,
		Submitter:   r.submitter,
		Validator:   r.validator,
		Logger:      r.logger,
		OnComplete:  r.completed,
		OnFail:      r.failed,
		Now:         r.now,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.apps[app.ID()] = app
	r.mu.Unlock()

	r.logger.Info("Intake application opened", map[string]interface{}{
		"application_id": app.ID().String(),
		"user_id":        userID.String(),
	})
	return app, nil
}

// Get returns an application owned by userID.
func (r *Registry) Get(userID, id uuid.UUID) (*Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok || app.UserID() != userID {
		return nil, errors.ErrIntakeNotFound
	}
	return app, nil
}

// Abandon cancels and forgets an application.
func (r *Registry) Abandon(userID, id uuid.UUID) error {
	r.mu.Lock()
	app, ok := r.apps[id]
	if !ok || app.UserID() != userID {
		r.mu.Unlock()
		return errors.ErrIntakeNotFound
	}
	delete(r.apps, id)
	r.mu.Unlock()

	app.Abandon()
	return nil
}

// AbandonAll drops every application of userID.
func (r *Registry) AbandonAll(userID uuid.UUID) int {
	r.mu.Lock()
	var dropped []*Application
	for id, app := range r.apps {
		if app.UserID() == userID {
			dropped = append(dropped, app)
			delete(r.apps, id)
		}
	}
	r.mu.Unlock()

	for _, app := range dropped {
		app.Abandon()
	}
	return len(dropped)
}

// Sweep abandons applications idle for longer than the idle timeout.
// In-flight submissions are left alone.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTimeout <= 0 {
		return 0
	}

	r.mu.Lock()
	var stale []*Application
	for id, app := range r.apps {
		if app.Snapshot().Step == domain.StepSubmitting {
			continue
		}
		if now.Sub(app.IdleSince()) > r.idleTimeout {
			stale = append(stale, app)
			delete(r.apps, id)
		}
	}
	r.mu.Unlock()

	for _, app := range stale {
		app.Abandon()
	}
	if len(stale) > 0 {
		r.logger.Debug("Swept idle intake applications", map[string]interface{}{
			"count": len(stale),
		})
	}
	return len(stale)
}

// Len returns the number of open applications.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

func (r *Registry) completed(s Snapshot) {
	r.notify(s.UserID, "INTAKE_COMPLETE", map[string]interface{}{
		"ref_id": s.RefID,
		"role":   string(s.Role),
	})
}

func (r *Registry) failed(s Snapshot, err error) {
	r.notify(s.UserID, "INTAKE_FAILED", map[string]interface{}{
		"reason": err.Error(),
	})
}

func (r *Registry) notify(userID uuid.UUID, event string, data map[string]interface{}) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(context.Background(), userID, event, data); err != nil {
		r.logger.Error("Failed to announce intake outcome", map[string]interface{}{
			"error": err.Error(),
			"event": event,
		})
	}
}
