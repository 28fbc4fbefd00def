// Package settings manages account preferences, security toggles, the
// payout vault address and MFA enrolment.
package settings

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"zapway/internal/domain"
	"zapway/pkg/errors"
	"zapway/pkg/logger"
	"zapway/pkg/validator"
)

// MinWalletAddressLength is the shortest vault address accepted.
const MinWalletAddressLength = 10

const defaultWalletAddress = "0x71C...9A21"

// preferenceRules maps each preference to its allowed values.
var preferenceRules = map[string]string{
	"theme":       "oneof=dark light",
	"language":    "oneof=en es fr de jp",
	"odds_format": "oneof=decimal fractional american",
	"auto_logout": "oneof=5m 15m 30m 1h 4h never",
}

// securityToggles announce changes to the owner.
var securityToggles = map[string]bool{
	"mfa_enabled":    true,
	"geo_fencing":    true,
	"public_profile": true,
}

// Notifier delivers settings events to the account owner.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType string, data map[string]interface{}) error
}

// Sessions is the part of the session service settings drives.
type Sessions interface {
	Sessions(userID, current uuid.UUID) []domain.Session
	Terminate(ctx context.Context, userID, current, target uuid.UUID) error
	TerminateOthers(ctx context.Context, userID, current uuid.UUID) (int, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// Preferences are display choices.
type Preferences struct {
	Theme      string `json:"theme"`
	Language   string `json:"language"`
	OddsFormat string `json:"odds_format"`
	AutoLogout string `json:"auto_logout"`
}

// Toggles are on/off account switches.
type Toggles struct {
	MFAEnabled        bool `json:"mfa_enabled"`
	GeoFencing        bool `json:"geo_fencing"`
	AnalyticsOptIn    bool `json:"analytics_opt_in"`
	AffiliateTracking bool `json:"affiliate_tracking"`
	PublicProfile     bool `json:"public_profile"`
	EmailAlerts       bool `json:"email_alerts"`
	MarketingComms    bool `json:"marketing_comms"`
}

func (t *Toggles) field(key string) *bool {
	switch key {
	case "mfa_enabled":
		return &t.MFAEnabled
	case "geo_fencing":
		return &t.GeoFencing
	case "analytics_opt_in":
		return &t.AnalyticsOptIn
	case "affiliate_tracking":
		return &t.AffiliateTracking
	case "public_profile":
		return &t.PublicProfile
	case "email_alerts":
		return &t.EmailAlerts
	case "marketing_comms":
		return &t.MarketingComms
	}
	return nil
}

// Wallet is the payout vault address. It must be unlocked before editing.
type Wallet struct {
	Address string `json:"address"`
	Locked  bool   `json:"locked"`
}

// MFAStatus reports TOTP enrolment.
type MFAStatus struct {
	Enrolled  bool `json:"enrolled"`
	Confirmed bool `json:"confirmed"`
}

// View is the settings page state.
type View struct {
	Preferences   Preferences `json:"preferences"`
	Toggles       Toggles     `json:"toggles"`
	Wallet        Wallet      `json:"wallet"`
	MFA           MFAStatus   `json:"mfa"`
	SecurityScore int         `json:"security_score"`
}

// Enrollment is returned once when a TOTP key is generated.
type Enrollment struct {
	Secret          string `json:"secret"`
	ProvisioningURL string `json:"provisioning_url"`
}

type account struct {
	prefs        Preferences
	toggles      Toggles
	wallet       Wallet
	mfaSecret    string
	mfaConfirmed bool
}

func defaultAccount() *account {
	return &account{
		prefs: Preferences{Theme: "dark", Language: "en", OddsFormat: "decimal", AutoLogout: "30m"},
		toggles: Toggles{
			MFAEnabled:        true,
			GeoFencing:        true,
			AffiliateTracking: true,
			PublicProfile:     true,
			EmailAlerts:       true,
		},
		wallet: Wallet{Address: defaultWalletAddress, Locked: true},
	}
}

// SecurityScore weights the protective settings out of 100.
func SecurityScore(t Toggles, p Preferences, walletLocked bool) int {
	score := 0
	if t.MFAEnabled {
		score += 40
	}
	if t.GeoFencing {
		score += 20
	}
	if walletLocked {
		score += 20
	}
	if !t.PublicProfile {
		score += 10
	}
	if p.AutoLogout != "never" {
		score += 10
	}
	return score
}

type Service struct {
	sessions  Sessions
	notifier  Notifier
	validator *validator.Validator
	logger    logger.Logger
	issuer    string
	now       func() time.Time
	cleanup   []func(ctx context.Context, userID uuid.UUID)

	mu       sync.Mutex
	accounts map[uuid.UUID]*account
}

func NewService(sessions Sessions, notifier Notifier, v *validator.Validator, log logger.Logger) *Service {
	return &Service{
		sessions:  sessions,
		notifier:  notifier,
		validator: v,
		logger:    log,
		issuer:    "ZapWay",
		now:       time.Now,
		accounts:  make(map[uuid.UUID]*account),
	}
}

// OnAccountDeleted registers fn to run after an account is purged.
func (s *Service) OnAccountDeleted(fn func(ctx context.Context, userID uuid.UUID)) {
	s.cleanup = append(s.cleanup, fn)
}

// account returns the settings of userID. Caller holds mu.
func (s *Service) account(userID uuid.UUID) *account {
	a, ok := s.accounts[userID]
	if !ok {
		a = defaultAccount()
		s.accounts[userID] = a
	}
	return a
}

func (a *account) view() View {
	return View{
		Preferences:   a.prefs,
		Toggles:       a.toggles,
		Wallet:        a.wallet,
		MFA:           MFAStatus{Enrolled: a.mfaSecret != "", Confirmed: a.mfaConfirmed},
		SecurityScore: SecurityScore(a.toggles, a.prefs, a.wallet.Locked),
	}
}

// Get returns the settings of userID.
func (s *Service) Get(userID uuid.UUID) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account(userID).view()
}

// Toggle flips a boolean setting. Turning MFA off discards the enrolled key.
func (s *Service) Toggle(ctx context.Context, userID uuid.UUID, key string) (View, error) {
	s.mu.Lock()
	a := s.account(userID)
	flag := a.toggles.field(key)
	if flag == nil {
		s.mu.Unlock()
		return View{}, errors.Wrap(errors.ErrUnknownSetting, key)
	}
	*flag = !*flag
	enabled := *flag
	if key == "mfa_enabled" && !enabled {
		a.mfaSecret = ""
		a.mfaConfirmed = false
	}
	view := a.view()
	s.mu.Unlock()

	if securityToggles[key] {
		s.notify(ctx, userID, "SETTING_TOGGLED", map[string]interface{}{
			"key":     key,
			"enabled": enabled,
		})
	}
	return view, nil
}

// SetPreference changes a display preference.
func (s *Service) SetPreference(ctx context.Context, userID uuid.UUID, key, value string) (View, error) {
	rule, ok := preferenceRules[key]
	if !ok {
		return View{}, errors.Wrap(errors.ErrUnknownSetting, key)
	}
	value = strings.ToLower(strings.TrimSpace(value))
	if err := s.validator.ValidateVar(value, rule); err != nil {
		return View{}, errors.Wrap(errors.ErrInvalidSettingValue, key)
	}

	s.mu.Lock()
	a := s.account(userID)
	switch key {
	case "theme":
		a.prefs.Theme = value
	case "language":
		a.prefs.Language = value
	case "odds_format":
		a.prefs.OddsFormat = value
	case "auto_logout":
		a.prefs.AutoLogout = value
	}
	view := a.view()
	s.mu.Unlock()

	s.notify(ctx, userID, "PREFERENCE_SYNCED", map[string]interface{}{
		"key":   key,
		"value": value,
	})
	return view, nil
}

// PreferenceOptions lists the accepted values per preference.
func PreferenceOptions() map[string][]string {
	out := make(map[string][]string, len(preferenceRules))
	for key, rule := range preferenceRules {
		out[key] = strings.Fields(strings.TrimPrefix(rule, "oneof="))
	}
	return out
}

// UnlockWallet opens the vault address for editing.
func (s *Service) UnlockWallet(userID uuid.UUID) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.account(userID)
	a.wallet.Locked = false
	return a.view()
}

// CommitWallet stores a new vault address and locks it again.
func (s *Service) CommitWallet(ctx context.Context, userID uuid.UUID, address string) (View, error) {
	address = strings.TrimSpace(address)

	s.mu.Lock()
	a := s.account(userID)
	if a.wallet.Locked {
		s.mu.Unlock()
		return View{}, errors.ErrWalletLocked
	}
	if len(address) < MinWalletAddressLength {
		s.mu.Unlock()
		s.notify(ctx, userID, "WALLET_REJECTED", nil)
		return View{}, errors.ErrInvalidWalletAddress
	}
	a.wallet = Wallet{Address: address, Locked: true}
	view := a.view()
	s.mu.Unlock()

	s.logger.Info("Vault address updated", map[string]interface{}{
		"user_id": userID.String(),
	})
	s.notify(ctx, userID, "WALLET_UPDATED", nil)
	return view, nil
}

// EnrollMFA generates a TOTP key. The key must be confirmed with VerifyMFA.
func (s *Service) EnrollMFA(ctx context.Context, userID uuid.UUID, accountName string) (Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountName,
	})
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "failed to generate totp key")
	}

	s.mu.Lock()
	a := s.account(userID)
	a.mfaSecret = key.Secret()
	a.mfaConfirmed = false
	a.toggles.MFAEnabled = true
	s.mu.Unlock()

	s.notify(ctx, userID, "MFA_ENROLLED", nil)
	return Enrollment{Secret: key.Secret(), ProvisioningURL: key.URL()}, nil
}

// VerifyMFA checks a TOTP code and confirms the enrolment on success.
func (s *Service) VerifyMFA(userID uuid.UUID, code string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.account(userID)
	if a.mfaSecret == "" {
		return View{}, errors.ErrMFANotEnrolled
	}
	ok, err := totp.ValidateCustom(strings.TrimSpace(code), a.mfaSecret, s.now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !ok {
		return View{}, errors.ErrInvalidMFACode
	}
	a.mfaConfirmed = true
	return a.view(), nil
}

// Sessions lists the account's sessions.
func (s *Service) Sessions(userID, current uuid.UUID) []domain.Session {
	return s.sessions.Sessions(userID, current)
}

// TerminateSession ends one of the account's other sessions.
func (s *Service) TerminateSession(ctx context.Context, userID, current, target uuid.UUID) error {
	return s.sessions.Terminate(ctx, userID, current, target)
}

// TerminateOtherSessions ends every session but the current one.
func (s *Service) TerminateOtherSessions(ctx context.Context, userID, current uuid.UUID) (int, error) {
	return s.sessions.TerminateOthers(ctx, userID, current)
}

// DeleteAccount purges the user and every piece of state keyed by them.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	s.notify(ctx, userID, "ACCOUNT_PURGED", nil)

	if err := s.sessions.DeleteUser(ctx, userID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.accounts, userID)
	s.mu.Unlock()

	for _, fn := range s.cleanup {
		fn(ctx, userID)
	}
	return nil
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, event string, data map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, event, data); err != nil {
		s.logger.Error("Failed to deliver settings notification", map[string]interface{}{
			"error": err.Error(),
			"event": event,
		})
	}
}
