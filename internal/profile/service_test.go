package profile

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapway/internal/catalog"
	"zapway/pkg/errors"
	"zapway/pkg/logger"
	"zapway/pkg/validator"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(_ context.Context, _ uuid.UUID, eventType string, _ map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventType)
	return nil
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

func newTestService(delay time.Duration) (*Service, *recordingNotifier) {
	n := &recordingNotifier{}
	cat := catalog.NewService(catalog.Seed(), logger.NewNop())
	return NewService(cat, n, validator.New(), logger.NewNop(), delay, "https://zap.gg/u/"), n
}

func TestGet_Defaults(t *testing.T) {
	svc, _ := newTestService(time.Hour)
	p := svc.Get(uuid.New(), "Degen")

	assert.Equal(t, "Crypto native. Hunting max RTP. Alpha seeker.", p.Bio)
	assert.Equal(t, "https://zap.gg/u/degen", p.DossierURL)
	assert.Empty(t, p.LinkedAccounts)
}

func TestSetBio(t *testing.T) {
	svc, _ := newTestService(time.Hour)
	user := uuid.New()

	p, err := svc.SetBio(user, "degen", BioRequest{Bio: "  <i>whale</i> "})
	require.NoError(t, err)
	assert.Equal(t, "&lt;i&gt;whale&lt;/i&gt;", p.Bio)

	_, err = svc.SetBio(user, "degen", BioRequest{Bio: strings.Repeat("x", 281)})
	assert.ErrorIs(t, err, errors.ErrInvalidSettingValue)
}

func TestLink_VerifiesAfterHandshake(t *testing.T) {
	svc, n := newTestService(10 * time.Millisecond)
	user := uuid.New()

	account, err := svc.Link(context.Background(), user, LinkRequest{CasinoID: "stake", Username: "DegenG_Official"})
	require.NoError(t, err)
	assert.False(t, account.Verified)
	assert.Equal(t, "Stake", account.CasinoName)

	require.Eventually(t, func() bool {
		links := svc.Get(user, "degen").LinkedAccounts
		return len(links) == 1 && links[0].Verified
	}, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(n.Events()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"LINK_HANDSHAKE", "LINK_VERIFIED"}, n.Events())
}

func TestLink_UnknownCasino(t *testing.T) {
	svc, _ := newTestService(time.Hour)
	_, err := svc.Link(context.Background(), uuid.New(), LinkRequest{CasinoID: "fakecasino", Username: "x"})
	assert.ErrorIs(t, err, errors.ErrCasinoNotFound)
}

func TestUnlink_CancelsHandshake(t *testing.T) {
	svc, n := newTestService(20 * time.Millisecond)
	user := uuid.New()
	ctx := context.Background()

	account, err := svc.Link(ctx, user, LinkRequest{CasinoID: "duel", Username: "degen"})
	require.NoError(t, err)
	require.NoError(t, svc.Unlink(ctx, user, account.ID))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"LINK_HANDSHAKE", "LINK_SEVERED"}, n.Events())
	assert.Empty(t, svc.Get(user, "degen").LinkedAccounts)

	assert.ErrorIs(t, svc.Unlink(ctx, user, account.ID), errors.ErrLinkedAccountNotFound)
}

func TestForget(t *testing.T) {
	svc, n := newTestService(20 * time.Millisecond)
	user := uuid.New()

	_, err := svc.Link(context.Background(), user, LinkRequest{CasinoID: "bcgame", Username: "degen"})
	require.NoError(t, err)
	svc.Forget(user)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"LINK_HANDSHAKE"}, n.Events())
}
