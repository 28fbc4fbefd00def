// Package intake runs the affiliate application wizard: three editable
// steps guarded by validation gates, then a delayed submission.
package intake

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"zapway/internal/domain"
	"zapway/pkg/errors"
	"zapway/pkg/logger"
	"zapway/pkg/validator"
)

// Submitter receives a completed application.
type Submitter interface {
	Submit(ctx context.Context, app Snapshot) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, app Snapshot) error

func (f SubmitterFunc) Submit(ctx context.Context, app Snapshot) error { return f(ctx, app) }

// GateError lists the fields that keep the wizard on its current step.
type GateError struct {
	Step   domain.IntakeStep
	Fields map[string]string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%s: %s", errors.ErrStepIncomplete, e.Step)
}

func (e *GateError) Unwrap() error { return errors.ErrStepIncomplete }

type identityGate struct {
	EntityName   string `json:"entity_name" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required"`
}

type volumeGate struct {
	MonthlyVol string `json:"monthly_vol" validate:"volume_tier"`
}

type complianceGate struct {
	CodeOfConduct bool `json:"code_of_conduct" validate:"required"`
	AMLCheck      bool `json:"aml_check" validate:"required"`
}

type roleInput struct {
	Role string `json:"role" validate:"partner_role"`
}

// Snapshot is a consistent copy of an application.
type Snapshot struct {
	ID         uuid.UUID          `json:"id"`
	UserID     uuid.UUID          `json:"-"`
	Role       domain.PartnerRole `json:"role"`
	Step       domain.IntakeStep  `json:"step"`
	StepNumber int                `json:"step_number"`
	StepTitle  string             `json:"step_title"`
	Fields     []string           `json:"requested_fields"`
	Form       domain.IntakeForm  `json:"form"`
	RefID      string             `json:"ref_id,omitempty"`
	LastError  string             `json:"last_error,omitempty"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Options configure an Application.
type Options struct {
	SubmitDelay time.Duration
	Submitter   Submitter
	Validator   *validator.Validator
	Logger      logger.Logger
	// OnComplete and OnFail run after the submission settles, outside the lock.
	OnComplete func(Snapshot)
	OnFail     func(Snapshot, error)
	Now        func() time.Time
}

// Application is one pass through the wizard. It is safe for concurrent use.
type Application struct {
	id     uuid.UUID
	userID uuid.UUID
	opts   Options

	mu        sync.Mutex
	role      domain.PartnerRole
	step      domain.IntakeStep
	form      domain.IntakeForm
	refID     string
	lastError string
	updatedAt time.Time
	closed    bool
	timer     *time.Timer
	cancel    context.CancelFunc
	attempt   int
}

// New starts an application at step 1. An empty role defaults to CREATOR.
func New(userID uuid.UUID, role domain.PartnerRole, opts Options) (*Application, error) {
	if opts.Validator == nil {
		opts.Validator = validator.New()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Submitter == nil {
		opts.Submitter = SubmitterFunc(func(context.Context, Snapshot) error { return nil })
	}

	a := &Application{
		id:     uuid.New(),
		userID: userID,
		opts:   opts,
		role:   domain.RoleCreator,
		step:   domain.StepIdentity,
	}
	if role != "" {
		parsed, err := a.parseRole(string(role))
		if err != nil {
			return nil, err
		}
		a.role = parsed
	}
	a.updatedAt = opts.Now()
	return a, nil
}

func (a *Application) ID() uuid.UUID     { return a.id }
func (a *Application) UserID() uuid.UUID { return a.userID }

func (a *Application) parseRole(raw string) (domain.PartnerRole, error) {
	if a.opts.Validator.ValidateStructured(roleInput{Role: raw}) != nil {
		return "", errors.ErrInvalidPartnerRole
	}
	return domain.PartnerRole(strings.ToUpper(strings.TrimSpace(raw))), nil
}

// editable reports whether the form may change. Caller holds mu.
func (a *Application) editable() error {
	if a.closed {
		return errors.ErrIntakeClosed
	}
	if a.step.Number() == 0 {
		return errors.ErrIntakeLocked
	}
	return nil
}

// Update applies a set of field changes atomically. Unknown names and
// values of the wrong type reject the whole set.
func (a *Application) Update(fields map[string]interface{}) (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.editable(); err != nil {
		return Snapshot{}, err
	}

	form := a.form
	for name, value := range fields {
		if err := setField(&form, name, value); err != nil {
			return Snapshot{}, err
		}
	}
	a.form = form
	a.touch()
	return a.snapshot(), nil
}

// SetField changes a single field.
func (a *Application) SetField(name string, value interface{}) (Snapshot, error) {
	return a.Update(map[string]interface{}{name: value})
}

func setField(form *domain.IntakeForm, name string, value interface{}) error {
	var str *string
	var flag *bool
	switch name {
	case "entity_name":
		str = &form.EntityName
	case "website":
		str = &form.Website
	case "contact_email":
		str = &form.ContactEmail
	case "traffic_source":
		str = &form.TrafficSource
	case "monthly_vol":
		str = &form.MonthlyVol
	case "license":
		str = &form.License
	case "code_of_conduct":
		flag = &form.CodeOfConduct
	case "aml_check":
		flag = &form.AMLCheck
	default:
		return errors.Wrap(errors.ErrUnknownField, name)
	}

	if str != nil {
		s, ok := value.(string)
		if !ok {
			return errors.Wrap(errors.ErrInvalidFieldValue, name)
		}
		*str = s
		return nil
	}

	switch v := value.(type) {
	case bool:
		*flag = v
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrInvalidFieldValue, name)
		}
		*flag = b
	default:
		return errors.Wrap(errors.ErrInvalidFieldValue, name)
	}
	return nil
}

// SetRole switches the applicant type. Shared fields are kept.
func (a *Application) SetRole(raw string) (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.editable(); err != nil {
		return Snapshot{}, err
	}
	role, err := a.parseRole(raw)
	if err != nil {
		return Snapshot{}, err
	}
	a.role = role
	a.touch()
	return a.snapshot(), nil
}

// gate validates the current step. Caller holds mu.
func (a *Application) gate() error {
	var target interface{}
	switch a.step {
	case domain.StepIdentity:
		target = identityGate{EntityName: a.form.EntityName, ContactEmail: a.form.ContactEmail}
	case domain.StepVolume:
		target = volumeGate{MonthlyVol: a.form.MonthlyVol}
	case domain.StepCompliance:
		target = complianceGate{CodeOfConduct: a.form.CodeOfConduct, AMLCheck: a.form.AMLCheck}
	default:
		return errors.ErrIntakeLocked
	}
	if fields := a.opts.Validator.ValidateStructured(target); fields != nil {
		return &GateError{Step: a.step, Fields: fields}
	}
	return nil
}

// Next advances one step if the current step's gate passes.
func (a *Application) Next() (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.editable(); err != nil {
		return Snapshot{}, err
	}
	if a.step == domain.StepCompliance {
		return Snapshot{}, errors.ErrFinalStep
	}
	if err := a.gate(); err != nil {
		return Snapshot{}, err
	}

	switch a.step {
	case domain.StepIdentity:
		a.step = domain.StepVolume
	case domain.StepVolume:
		a.step = domain.StepCompliance
	}
	a.lastError = ""
	a.touch()
	return a.snapshot(), nil
}

// Back returns to the previous step without checking gates.
func (a *Application) Back() (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.editable(); err != nil {
		return Snapshot{}, err
	}
	switch a.step {
	case domain.StepVolume:
		a.step = domain.StepIdentity
	case domain.StepCompliance:
		a.step = domain.StepVolume
	default:
		return Snapshot{}, errors.ErrNoPreviousStep
	}
	a.touch()
	return a.snapshot(), nil
}

// Submit moves a step 3 application into SUBMITTING and schedules the
// hand-off to the Submitter after the configured delay.
func (a *Application) Submit() (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.editable(); err != nil {
		return Snapshot{}, err
	}
	if a.step != domain.StepCompliance {
		return Snapshot{}, errors.ErrNotReadyToSubmit
	}
	if err := a.gate(); err != nil {
		return Snapshot{}, err
	}

	a.step = domain.StepSubmitting
	a.lastError = ""
	a.attempt++
	attempt := a.attempt

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.timer = time.AfterFunc(a.opts.SubmitDelay, func() { a.settle(ctx, attempt) })

	a.touch()
	a.opts.Logger.Info("Intake application submitted", map[string]interface{}{
		"application_id": a.id.String(),
		"role":           a.role,
	})
	return a.snapshot(), nil
}

func (a *Application) settle(ctx context.Context, attempt int) {
	a.mu.Lock()
	if a.closed || a.attempt != attempt || a.step != domain.StepSubmitting {
		a.mu.Unlock()
		return
	}
	pending := a.snapshot()
	a.mu.Unlock()

	err := a.opts.Submitter.Submit(ctx, pending)

	a.mu.Lock()
	if a.closed || a.attempt != attempt || ctx.Err() != nil {
		a.mu.Unlock()
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.timer = nil
	if err != nil {
		a.step = domain.StepCompliance
		a.lastError = err.Error()
	} else {
		a.step = domain.StepComplete
		a.refID = fmt.Sprintf("ZAP-%d", rand.Intn(100000))
	}
	a.touch()
	done := a.snapshot()
	a.mu.Unlock()

	if err != nil {
		a.opts.Logger.Warn("Intake submission failed", map[string]interface{}{
			"application_id": a.id.String(),
			"error":          err.Error(),
		})
		if a.opts.OnFail != nil {
			a.opts.OnFail(done, err)
		}
		return
	}

	a.opts.Logger.Info("Intake application complete", map[string]interface{}{
		"application_id": a.id.String(),
		"ref_id":         done.RefID,
	})
	if a.opts.OnComplete != nil {
		a.opts.OnComplete(done)
	}
}

// Abandon stops any pending submission. Further calls fail with ErrIntakeClosed.
func (a *Application) Abandon() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// Snapshot returns the current state.
func (a *Application) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

// IdleSince reports when the application last changed.
func (a *Application) IdleSince() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.updatedAt
}

func (a *Application) touch() {
	a.updatedAt = a.opts.Now()
}

func (a *Application) snapshot() Snapshot {
	return Snapshot{
		ID:         a.id,
		UserID:     a.userID,
		Role:       a.role,
		Step:       a.step,
		StepNumber: a.step.Number(),
		StepTitle:  stepTitle(a.role, a.step),
		Fields:     requestedFields(a.role, a.step),
		Form:       a.form,
		RefID:      a.refID,
		LastError:  a.lastError,
		UpdatedAt:  a.updatedAt,
	}
}

func stepTitle(role domain.PartnerRole, step domain.IntakeStep) string {
	operator := role == domain.RoleOperator
	switch step {
	case domain.StepIdentity:
		if operator {
			return "ENTITY IDENTIFICATION"
		}
		return "SOURCE VERIFICATION"
	case domain.StepVolume:
		if operator {
			return "LIQUIDITY & VOLUME"
		}
		return "AUDIENCE & REACH"
	case domain.StepCompliance:
		return "BINDING CODE OF CONDUCT"
	case domain.StepSubmitting:
		return "TRANSMITTING"
	case domain.StepComplete:
		return "SIGNAL ENCRYPTED & SENT"
	}
	return ""
}

func requestedFields(role domain.PartnerRole, step domain.IntakeStep) []string {
	switch step {
	case domain.StepIdentity:
		if role == domain.RoleOperator {
			return []string{"entity_name", "website", "contact_email", "license"}
		}
		return []string{"entity_name", "website", "contact_email", "traffic_source"}
	case domain.StepVolume:
		return []string{"monthly_vol"}
	case domain.StepCompliance:
		return []string{"code_of_conduct", "aml_check"}
	}
	return nil
}
