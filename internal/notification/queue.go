package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"zapway/internal/domain"
	"zapway/pkg/errors"
)

// EventType names a change to a queue.
type EventType string

const (
	EventPushed    EventType = "pushed"
	EventRead      EventType = "read"
	EventDismissed EventType = "dismissed"
	EventExpired   EventType = "expired"
	EventEvicted   EventType = "evicted"
)

// Event is delivered to queue subscribers.
type Event struct {
	Type         EventType           `json:"type"`
	Notification domain.Notification `json:"notification"`
}

// Queue is an ordered, newest-first list of notifications for one user.
// A zero ttl keeps entries until dismissed; a zero capacity is unbounded.
type Queue struct {
	ttl      time.Duration
	capacity int
	now      func() time.Time

	mu      sync.Mutex
	items   []domain.Notification
	subs    map[int]chan Event
	nextSub int
}

func NewQueue(ttl time.Duration, capacity int) *Queue {
	return &Queue{
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		subs:     make(map[int]chan Event),
	}
}

// Push adds a notification at the head and returns it. When the queue is
// full the oldest entries are evicted.
func (q *Queue) Push(kind domain.NotificationKind, title, message string) (domain.Notification, error) {
	if !kind.Valid() {
		return domain.Notification{}, errors.ErrInvalidKind
	}
	n := domain.Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		Timestamp: q.now(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.insert(n)
	return n, nil
}

// insert places n by timestamp, newest first. Caller holds mu.
func (q *Queue) insert(n domain.Notification) {
	i := 0
	for i < len(q.items) && q.items[i].Timestamp.After(n.Timestamp) {
		i++
	}
	q.items = append(q.items, domain.Notification{})
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = n
	q.publish(Event{Type: EventPushed, Notification: n})

	for q.capacity > 0 && len(q.items) > q.capacity {
		last := q.items[len(q.items)-1]
		q.items = q.items[:len(q.items)-1]
		q.publish(Event{Type: EventEvicted, Notification: last})
	}
}

// List returns a copy of the queue, newest first.
func (q *Queue) List() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.Notification(nil), q.items...)
}

// Unread counts entries not yet read.
func (q *Queue) Unread() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	count := 0
	for _, n := range q.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flags one entry as read.
func (q *Queue) MarkRead(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		if q.items[i].ID == id {
			if !q.items[i].Read {
				q.items[i].Read = true
				q.publish(Event{Type: EventRead, Notification: q.items[i]})
			}
			return nil
		}
	}
	return errors.ErrNotificationNotFound
}

// MarkAllRead flags every entry as read and returns how many changed.
// Count and order are unchanged.
func (q *Queue) MarkAllRead() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	changed := 0
	for i := range q.items {
		if !q.items[i].Read {
			q.items[i].Read = true
			changed++
			q.publish(Event{Type: EventRead, Notification: q.items[i]})
		}
	}
	return changed
}

// Dismiss removes an entry.
func (q *Queue) Dismiss(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			q.publish(Event{Type: EventDismissed, Notification: n})
			return nil
		}
	}
	return errors.ErrNotificationNotFound
}

// Sweep drops entries older than the ttl at now and returns how many.
func (q *Queue) Sweep(now time.Time) int {
	if q.ttl <= 0 {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.items[:0]
	removed := 0
	for _, n := range q.items {
		if now.Sub(n.Timestamp) >= q.ttl {
			removed++
			q.publish(Event{Type: EventExpired, Notification: n})
			continue
		}
		kept = append(kept, n)
	}
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = domain.Notification{}
	}
	q.items = kept
	return removed
}

// Subscribe returns a channel of queue events and a function that ends the
// subscription. Events are dropped for subscribers whose buffer is full.
func (q *Queue) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	q.mu.Lock()
	id := q.nextSub
	q.nextSub++
	q.subs[id] = ch
	q.mu.Unlock()

	return ch, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if _, ok := q.subs[id]; ok {
			delete(q.subs, id)
			close(ch)
		}
	}
}

// Close ends all subscriptions.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, ch := range q.subs {
		delete(q.subs, id)
		close(ch)
	}
}

func (q *Queue) publish(e Event) {
	for _, ch := range q.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
