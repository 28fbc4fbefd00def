package settings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zapway/internal/domain"
	"zapway/pkg/errors"
	"zapway/pkg/logger"
	"zapway/pkg/validator"
)

// Mocks

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Sessions(userID, current uuid.UUID) []domain.Session {
	args := m.Called(userID, current)
	return args.Get(0).([]domain.Session)
}

func (m *MockSessions) Terminate(ctx context.Context, userID, current, target uuid.UUID) error {
	args := m.Called(ctx, userID, current, target)
	return args.Error(0)
}

func (m *MockSessions) TerminateOthers(ctx context.Context, userID, current uuid.UUID) (int, error) {
	args := m.Called(ctx, userID, current)
	return args.Int(0), args.Error(1)
}

func (m *MockSessions) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	data   []map[string]interface{}
}

func (n *recordingNotifier) Notify(_ context.Context, _ uuid.UUID, eventType string, data map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventType)
	n.data = append(n.data, data)
	return nil
}

func newTestService() (*Service, *MockSessions, *recordingNotifier) {
	sessions := &MockSessions{}
	n := &recordingNotifier{}
	return NewService(sessions, n, validator.New(), logger.NewNop()), sessions, n
}

func TestDefaults(t *testing.T) {
	svc, _, _ := newTestService()
	view := svc.Get(uuid.New())

	assert.Equal(t, "dark", view.Preferences.Theme)
	assert.Equal(t, "30m", view.Preferences.AutoLogout)
	assert.True(t, view.Toggles.MFAEnabled)
	assert.True(t, view.Wallet.Locked)
	assert.Equal(t, "0x71C...9A21", view.Wallet.Address)
	// mfa 40 + geo 20 + wallet 20 + auto logout 10; profile is public.
	assert.Equal(t, 90, view.SecurityScore)
}

func TestSecurityScore(t *testing.T) {
	tests := []struct {
		name    string
		toggles Toggles
		prefs   Preferences
		locked  bool
		want    int
	}{
		{"nothing", Toggles{PublicProfile: true}, Preferences{AutoLogout: "never"}, false, 0},
		{"mfa only", Toggles{MFAEnabled: true, PublicProfile: true}, Preferences{AutoLogout: "never"}, false, 40},
		{"everything", Toggles{MFAEnabled: true, GeoFencing: true}, Preferences{AutoLogout: "15m"}, true, 100},
		{"private profile", Toggles{}, Preferences{AutoLogout: "never"}, false, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SecurityScore(tt.toggles, tt.prefs, tt.locked))
		})
	}
}

func TestToggle(t *testing.T) {
	svc, _, n := newTestService()
	user := uuid.New()
	ctx := context.Background()

	view, err := svc.Toggle(ctx, user, "public_profile")
	require.NoError(t, err)
	assert.False(t, view.Toggles.PublicProfile)
	assert.Equal(t, 100, view.SecurityScore)

	_, err = svc.Toggle(ctx, user, "marketing_comms")
	require.NoError(t, err)

	assert.Equal(t, []string{"SETTING_TOGGLED"}, n.events)
	assert.Equal(t, false, n.data[0]["enabled"])

	_, err = svc.Toggle(ctx, user, "self_destruct")
	assert.ErrorIs(t, err, errors.ErrUnknownSetting)
}

func TestSetPreference(t *testing.T) {
	svc, _, n := newTestService()
	user := uuid.New()
	ctx := context.Background()

	view, err := svc.SetPreference(ctx, user, "odds_format", "American")
	require.NoError(t, err)
	assert.Equal(t, "american", view.Preferences.OddsFormat)
	assert.Equal(t, []string{"PREFERENCE_SYNCED"}, n.events)

	view, err = svc.SetPreference(ctx, user, "auto_logout", "never")
	require.NoError(t, err)
	assert.Equal(t, 80, view.SecurityScore)

	_, err = svc.SetPreference(ctx, user, "theme", "sepia")
	assert.ErrorIs(t, err, errors.ErrInvalidSettingValue)
	_, err = svc.SetPreference(ctx, user, "font", "mono")
	assert.ErrorIs(t, err, errors.ErrUnknownSetting)
}

func TestWalletEdit(t *testing.T) {
	svc, _, n := newTestService()
	user := uuid.New()
	ctx := context.Background()

	_, err := svc.CommitWallet(ctx, user, "0xabcdef0123456789")
	assert.ErrorIs(t, err, errors.ErrWalletLocked)

	view := svc.UnlockWallet(user)
	assert.False(t, view.Wallet.Locked)
	assert.Equal(t, 70, view.SecurityScore)

	_, err = svc.CommitWallet(ctx, user, "0x123")
	assert.ErrorIs(t, err, errors.ErrInvalidWalletAddress)
	assert.False(t, svc.Get(user).Wallet.Locked)

	view, err = svc.CommitWallet(ctx, user, "0xabcdef0123456789")
	require.NoError(t, err)
	assert.True(t, view.Wallet.Locked)
	assert.Equal(t, "0xabcdef0123456789", view.Wallet.Address)

	assert.Equal(t, []string{"WALLET_REJECTED", "WALLET_UPDATED"}, n.events)
}

func TestMFA(t *testing.T) {
	svc, _, _ := newTestService()
	user := uuid.New()
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.VerifyMFA(user, "123456")
	assert.ErrorIs(t, err, errors.ErrMFANotEnrolled)

	enrollment, err := svc.EnrollMFA(ctx, user, "degen@zap.gg")
	require.NoError(t, err)
	assert.Contains(t, enrollment.ProvisioningURL, "otpauth://totp/")
	assert.True(t, svc.Get(user).MFA.Enrolled)
	assert.False(t, svc.Get(user).MFA.Confirmed)

	_, err = svc.VerifyMFA(user, "000000x")
	assert.ErrorIs(t, err, errors.ErrInvalidMFACode)

	code, err := totp.GenerateCode(enrollment.Secret, now)
	require.NoError(t, err)
	view, err := svc.VerifyMFA(user, code)
	require.NoError(t, err)
	assert.True(t, view.MFA.Confirmed)

	view, err = svc.Toggle(ctx, user, "mfa_enabled")
	require.NoError(t, err)
	assert.False(t, view.MFA.Enrolled)
}

func TestSessionsDelegate(t *testing.T) {
	svc, sessions, _ := newTestService()
	ctx := context.Background()
	user, current, target := uuid.New(), uuid.New(), uuid.New()

	sessions.On("Sessions", user, current).Return([]domain.Session{{ID: current, Current: true}})
	sessions.On("Terminate", ctx, user, current, target).Return(nil)
	sessions.On("TerminateOthers", ctx, user, current).Return(2, nil)

	assert.Len(t, svc.Sessions(user, current), 1)
	assert.NoError(t, svc.TerminateSession(ctx, user, current, target))
	count, err := svc.TerminateOtherSessions(ctx, user, current)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	sessions.AssertExpectations(t)
}

func TestDeleteAccount(t *testing.T) {
	svc, sessions, n := newTestService()
	ctx := context.Background()
	user := uuid.New()

	var cleaned []uuid.UUID
	svc.OnAccountDeleted(func(_ context.Context, id uuid.UUID) { cleaned = append(cleaned, id) })

	svc.UnlockWallet(user)
	sessions.On("DeleteUser", ctx, user).Return(nil)

	require.NoError(t, svc.DeleteAccount(ctx, user))
	assert.Equal(t, []uuid.UUID{user}, cleaned)
	assert.Equal(t, []string{"ACCOUNT_PURGED"}, n.events)
	assert.True(t, svc.Get(user).Wallet.Locked)
	sessions.AssertExpectations(t)
}

func TestDeleteAccount_SessionFailure(t *testing.T) {
	svc, sessions, _ := newTestService()
	ctx := context.Background()
	user := uuid.New()
	called := false
	svc.OnAccountDeleted(func(context.Context, uuid.UUID) { called = true })

	sessions.On("DeleteUser", ctx, user).Return(errors.ErrSessionNotFound)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, user), errors.ErrSessionNotFound)
	assert.False(t, called)
}

func TestPreferenceOptions(t *testing.T) {
	opts := PreferenceOptions()
	assert.Equal(t, []string{"dark", "light"}, opts["theme"])
	assert.Contains(t, opts["auto_logout"], "never")
}
