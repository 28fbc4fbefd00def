// Package errors provides common, reusable error values and helpers.
package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Catalog errors
	ErrCasinoNotFound   = errors.New("casino not found")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidSortKey   = errors.New("invalid sort key")
	ErrNothingSelected  = errors.New("no casino selected")
	ErrInvalidDetailTab = errors.New("invalid detail tab")

	// Intake errors
	ErrIntakeNotFound     = errors.New("intake application not found")
	ErrIntakeLocked       = errors.New("intake application is locked")
	ErrIntakeClosed       = errors.New("intake application was abandoned")
	ErrStepIncomplete     = errors.New("current step is incomplete")
	ErrNoPreviousStep     = errors.New("no previous step")
	ErrFinalStep          = errors.New("final step reached, submit instead")
	ErrNotReadyToSubmit   = errors.New("application is not on the final step")
	ErrInvalidPartnerRole = errors.New("invalid partner role")
	ErrUnknownField       = errors.New("unknown intake field")
	ErrInvalidFieldValue  = errors.New("invalid intake field value")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidKind          = errors.New("invalid notification kind")

	// Session errors
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionRevoked     = errors.New("session revoked")

	// Settings errors
	ErrUnknownSetting        = errors.New("unknown setting")
	ErrInvalidSettingValue   = errors.New("invalid setting value")
	ErrInvalidWalletAddress  = errors.New("invalid address: format rejected")
	ErrWalletLocked          = errors.New("vault address is locked")
	ErrMFANotEnrolled        = errors.New("mfa is not enrolled")
	ErrInvalidMFACode        = errors.New("invalid mfa code")
	ErrCannotTerminateActive = errors.New("cannot terminate the current session")

	// Profile errors
	ErrLinkedAccountNotFound = errors.New("linked account not found")

	// Request errors
	ErrDuplicateRequest = errors.New("duplicate request in progress")
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
