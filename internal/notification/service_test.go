package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapway/internal/domain"
	"zapway/pkg/logger"
)

func TestHub_SeedsDashboard(t *testing.T) {
	hub := NewHub(24*time.Hour, 50, logger.NewNop())
	q := hub.Queue(uuid.New())

	items := q.List()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Volatility Spike", "Mission Complete", "System Update v4.2"}, titles(items))
	assert.False(t, items[0].Read)
	assert.True(t, items[2].Read)
	assert.Equal(t, 2, q.Unread())
}

func TestHub_NotifyRendersTemplates(t *testing.T) {
	hub := NewHub(0, 50, logger.NewNop())
	user := uuid.New()
	ctx := context.Background()

	tests := []struct {
		event   string
		data    map[string]interface{}
		kind    domain.NotificationKind
		message string
	}{
		{"SETTING_TOGGLED", map[string]interface{}{"key": "mfa_enabled", "enabled": true}, domain.KindInfo, "MFA_ENABLED set to ACTIVE"},
		{"SETTING_TOGGLED", map[string]interface{}{"key": "geo_fencing", "enabled": false}, domain.KindInfo, "GEO_FENCING set to INACTIVE"},
		{"PREFERENCE_SYNCED", map[string]interface{}{"value": "decimal"}, domain.KindSuccess, "PREFERENCE SYNCED: DECIMAL"},
		{"WALLET_REJECTED", nil, domain.KindError, "INVALID ADDRESS: FORMAT REJECTED"},
		{"LINK_VERIFIED", map[string]interface{}{"casino_name": "Stake"}, domain.KindSuccess, "UPLINK SECURE: STAKE VERIFIED"},
		{"LINK_SEVERED", nil, domain.KindWarning, "CONNECTION SEVERED. VPR DATA ARCHIVED."},
		{"SOMETHING_ELSE", nil, domain.KindInfo, "Event: SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			require.NoError(t, hub.Notify(ctx, user, tt.event, tt.data))
			head := hub.Queue(user).List()[0]
			assert.Equal(t, tt.kind, head.Kind)
			assert.Equal(t, tt.message, head.Message)
		})
	}
}

func TestHub_QueuesAreIsolated(t *testing.T) {
	hub := NewHub(0, 50, logger.NewNop())
	a, b := uuid.New(), uuid.New()

	_, err := hub.Push(context.Background(), a, domain.KindBonus, "only a", "")
	require.NoError(t, err)

	assert.Len(t, hub.Queue(a).List(), 4)
	assert.Len(t, hub.Queue(b).List(), 3)
}

func TestHub_SweepAndDrop(t *testing.T) {
	hub := NewHub(2*time.Hour, 50, logger.NewNop())
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	hub.now = func() time.Time { return now }
	user := uuid.New()

	hub.Queue(user)
	assert.Equal(t, 1, hub.Sweep(now))
	assert.Len(t, hub.Queue(user).List(), 2)

	events, _ := hub.Queue(user).Subscribe(1)
	hub.Drop(user)
	_, open := <-events
	assert.False(t, open)

	assert.Len(t, hub.Queue(user).List(), 3)
}
