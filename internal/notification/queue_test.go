package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapway/internal/domain"
	"zapway/pkg/errors"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestQueue(ttl time.Duration, capacity int) (*Queue, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	q := NewQueue(ttl, capacity)
	q.now = clock.Now
	return q, clock
}

func titles(items []domain.Notification) []string {
	out := make([]string, len(items))
	for i, n := range items {
		out[i] = n.Title
	}
	return out
}

func TestQueue_PushIsNewestFirst(t *testing.T) {
	q, clock := newTestQueue(0, 0)

	for _, title := range []string{"a", "b", "c"} {
		_, err := q.Push(domain.KindInfo, title, "")
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	assert.Equal(t, []string{"c", "b", "a"}, titles(q.List()))
	assert.Equal(t, 3, q.Unread())
}

func TestQueue_DuplicatesAreKept(t *testing.T) {
	q, _ := newTestQueue(0, 0)

	first, err := q.Push(domain.KindWarning, "dup", "same")
	require.NoError(t, err)
	second, err := q.Push(domain.KindWarning, "dup", "same")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, q.List(), 2)
}

func TestQueue_RejectsUnknownKind(t *testing.T) {
	q, _ := newTestQueue(0, 0)
	_, err := q.Push("panic", "x", "y")
	assert.ErrorIs(t, err, errors.ErrInvalidKind)
	assert.Empty(t, q.List())
}

func TestQueue_MarkAllReadKeepsCountAndOrder(t *testing.T) {
	q, clock := newTestQueue(0, 0)
	for _, kind := range []domain.NotificationKind{domain.KindInfo, domain.KindBonus, domain.KindError, domain.KindSuccess} {
		_, err := q.Push(kind, string(kind), "")
		require.NoError(t, err)
		clock.Advance(time.Millisecond)
	}
	before := q.List()

	assert.Equal(t, 4, q.MarkAllRead())

	after := q.List()
	require.Len(t, after, len(before))
	for i := range after {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.True(t, after[i].Read)
	}
	assert.Equal(t, 0, q.MarkAllRead())
	assert.Equal(t, 0, q.Unread())
}

func TestQueue_MarkReadAndDismiss(t *testing.T) {
	q, _ := newTestQueue(0, 0)
	n, err := q.Push(domain.KindInfo, "one", "")
	require.NoError(t, err)

	require.NoError(t, q.MarkRead(n.ID))
	require.NoError(t, q.MarkRead(n.ID))
	assert.True(t, q.List()[0].Read)

	require.NoError(t, q.Dismiss(n.ID))
	assert.Empty(t, q.List())

	assert.ErrorIs(t, q.Dismiss(n.ID), errors.ErrNotificationNotFound)
	assert.ErrorIs(t, q.MarkRead(uuid.New()), errors.ErrNotificationNotFound)
}

func TestQueue_SweepExpiresAfterTTL(t *testing.T) {
	q, clock := newTestQueue(5*time.Second, 0)

	_, err := q.Push(domain.KindInfo, "old", "")
	require.NoError(t, err)
	clock.Advance(3 * time.Second)
	_, err = q.Push(domain.KindInfo, "new", "")
	require.NoError(t, err)

	assert.Equal(t, 0, q.Sweep(clock.t.Add(time.Second)))
	assert.Equal(t, 1, q.Sweep(clock.t.Add(2*time.Second)))
	assert.Equal(t, []string{"new"}, titles(q.List()))
}

func TestQueue_ZeroTTLNeverExpires(t *testing.T) {
	q, clock := newTestQueue(0, 0)
	_, err := q.Push(domain.KindInfo, "sticky", "")
	require.NoError(t, err)

	assert.Equal(t, 0, q.Sweep(clock.t.Add(24*time.Hour)))
	assert.Len(t, q.List(), 1)
}

func TestQueue_CapacityEvictsOldest(t *testing.T) {
	q, clock := newTestQueue(0, 2)
	events, cancel := q.Subscribe(10)
	defer cancel()

	for _, title := range []string{"a", "b", "c"} {
		_, err := q.Push(domain.KindInfo, title, "")
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	assert.Equal(t, []string{"c", "b"}, titles(q.List()))

	var evicted []string
	for len(events) > 0 {
		e := <-events
		if e.Type == EventEvicted {
			evicted = append(evicted, e.Notification.Title)
		}
	}
	assert.Equal(t, []string{"a"}, evicted)
}

func TestQueue_Subscribe(t *testing.T) {
	q, _ := newTestQueue(0, 0)
	events, cancel := q.Subscribe(4)

	n, err := q.Push(domain.KindSuccess, "hello", "")
	require.NoError(t, err)
	require.NoError(t, q.MarkRead(n.ID))
	require.NoError(t, q.Dismiss(n.ID))

	assert.Equal(t, EventPushed, (<-events).Type)
	assert.Equal(t, EventRead, (<-events).Type)
	e := <-events
	assert.Equal(t, EventDismissed, e.Type)
	assert.Equal(t, n.ID, e.Notification.ID)

	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)
}

func TestQueue_CloseEndsSubscriptions(t *testing.T) {
	q, _ := newTestQueue(0, 0)
	events, cancel := q.Subscribe(1)

	q.Close()
	cancel()

	_, open := <-events
	assert.False(t, open)
}
