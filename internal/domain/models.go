// Package domain re-exports core domain types so internal code can import
// `zapway/internal/domain` while using definitions from `zapway/pkg/domain`.
package domain

import pkg "zapway/pkg/domain"

// CatalogEntry is a reviewed casino listing.
type CatalogEntry = pkg.CatalogEntry

// CasinoFeatures are the capability flags of a listing.
type CasinoFeatures = pkg.CasinoFeatures

// CasinoStatus is the review verdict.
type CasinoStatus = pkg.CasinoStatus

// KYCLevel is the identity-verification friction of a casino.
type KYCLevel = pkg.KYCLevel

// SpecialRanking is an editorial badge.
type SpecialRanking = pkg.SpecialRanking

// Notification is a session-scoped message.
type Notification = pkg.Notification

// NotificationKind classifies notifications.
type NotificationKind = pkg.NotificationKind

// PartnerRole is the affiliate applicant type.
type PartnerRole = pkg.PartnerRole

// IntakeStep is the intake wizard state.
type IntakeStep = pkg.IntakeStep

// IntakeForm is the intake wizard payload.
type IntakeForm = pkg.IntakeForm

// User is a registered account.
type User = pkg.User

// Session is one login of a user.
type Session = pkg.Session

// DeviceType classifies session devices.
type DeviceType = pkg.DeviceType

// LinkedAccount is a casino username tied to a profile.
type LinkedAccount = pkg.LinkedAccount

// Re-exported casino statuses.
const (
	CasinoStatusVerified    = pkg.CasinoStatusVerified
	CasinoStatusUnverified  = pkg.CasinoStatusUnverified
	CasinoStatusBlacklisted = pkg.CasinoStatusBlacklisted
)

// Re-exported KYC levels.
const (
	KYCLevelNone = pkg.KYCLevelNone
	KYCLevelLow  = pkg.KYCLevelLow
	KYCLevelHigh = pkg.KYCLevelHigh
)

// Re-exported rankings.
const (
	RankingEternalCrown = pkg.RankingEternalCrown
	RankingEliteTier    = pkg.RankingEliteTier
	RankingVeteran      = pkg.RankingVeteran
)

// Re-exported notification kinds.
const (
	KindSystem  = pkg.KindSystem
	KindInfo    = pkg.KindInfo
	KindSuccess = pkg.KindSuccess
	KindWarning = pkg.KindWarning
	KindError   = pkg.KindError
	KindBonus   = pkg.KindBonus
)

// Re-exported partner roles.
const (
	RoleOperator = pkg.RoleOperator
	RoleCreator  = pkg.RoleCreator
)

// Re-exported intake steps.
const (
	StepIdentity   = pkg.StepIdentity
	StepVolume     = pkg.StepVolume
	StepCompliance = pkg.StepCompliance
	StepSubmitting = pkg.StepSubmitting
	StepComplete   = pkg.StepComplete
)

// Re-exported device types.
const (
	DeviceDesktop = pkg.DeviceDesktop
	DeviceMobile  = pkg.DeviceMobile
)
