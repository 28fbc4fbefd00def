package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind drives the styling of a toast or dashboard notice.
type NotificationKind string

const (
	KindSystem  NotificationKind = "system"
	KindInfo    NotificationKind = "info"
	KindSuccess NotificationKind = "success"
	KindWarning NotificationKind = "warning"
	KindError   NotificationKind = "error"
	KindBonus   NotificationKind = "bonus"
)

// Valid reports whether k is a known kind.
func (k NotificationKind) Valid() bool {
	switch k {
	case KindSystem, KindInfo, KindSuccess, KindWarning, KindError, KindBonus:
		return true
	}
	return false
}

// Notification is a session-scoped message. Read only moves false to true.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}
