package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Accounts live in memory only.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// DeviceType is derived from the login User-Agent.
type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceMobile  DeviceType = "mobile"
)

// Session is one login of a user.
type Session struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Device     string     `json:"device"`
	Type       DeviceType `json:"type"`
	IP         string     `json:"ip"`
	CreatedAt  time.Time  `json:"created_at"`
	LastActive time.Time  `json:"last_active"`
	Current    bool       `json:"current"`
}

// LinkedAccount ties a user to their username on a listed casino.
type LinkedAccount struct {
	ID         uuid.UUID `json:"id"`
	CasinoID   string    `json:"casino_id"`
	CasinoName string    `json:"casino_name"`
	CasinoLogo string    `json:"casino_logo"`
	Username   string    `json:"username"`
	Verified   bool      `json:"verified"`
	LinkedAt   time.Time `json:"linked_at"`
}
