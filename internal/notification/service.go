// Package notification keeps per-user notification queues and turns
// application events into toast messages.
package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"zapway/internal/domain"
	"zapway/pkg/logger"
)

// Service defines the notification service interface.
type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType string, data map[string]interface{}) error
	Push(ctx context.Context, userID uuid.UUID, kind domain.NotificationKind, title, message string) (domain.Notification, error)
}

// Hub owns one Queue per user.
type Hub struct {
	ttl      time.Duration
	capacity int
	logger   logger.Logger
	now      func() time.Time

	mu     sync.Mutex
	queues map[uuid.UUID]*Queue
}

// NewHub creates a hub whose queues share ttl and capacity.
func NewHub(ttl time.Duration, capacity int, log logger.Logger) *Hub {
	return &Hub{
		ttl:      ttl,
		capacity: capacity,
		logger:   log,
		now:      time.Now,
		queues:   make(map[uuid.UUID]*Queue),
	}
}

// Queue returns the queue for userID, creating and seeding it on first use.
func (h *Hub) Queue(userID uuid.UUID) *Queue {
	h.mu.Lock()
	defer h.mu.Unlock()

	q, ok := h.queues[userID]
	if !ok {
		q = NewQueue(h.ttl, h.capacity)
		q.now = h.now
		seedDashboard(q, h.now())
		h.queues[userID] = q
	}
	return q
}

// seedDashboard loads the welcome notices shown on a fresh dashboard.
func seedDashboard(q *Queue, now time.Time) {
	seed := []domain.Notification{
		{Kind: domain.KindWarning, Title: "Volatility Spike", Message: "Market volatility index high. Adjust leverage.", Timestamp: now.Add(-10 * time.Minute)},
		{Kind: domain.KindBonus, Title: "Mission Complete", Message: "Weekly wager target hit. +500 ZP credited.", Timestamp: now.Add(-time.Hour)},
		{Kind: domain.KindSystem, Title: "System Update v4.2", Message: "ZK-Rollup verifier patch deployed.", Timestamp: now.Add(-3 * time.Hour), Read: true},
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, n := range seed {
		n.ID = uuid.New()
		q.insert(n)
	}
}

// Push adds a raw notification for userID.
func (h *Hub) Push(ctx context.Context, userID uuid.UUID, kind domain.NotificationKind, title, message string) (domain.Notification, error) {
	n, err := h.Queue(userID).Push(kind, title, message)
	if err != nil {
		return n, err
	}
	h.logger.Debug("Notification pushed", map[string]interface{}{
		"notification_id": n.ID.String(),
		"user_id":         userID.String(),
		"kind":            string(n.Kind),
		"title":           n.Title,
	})
	return n, nil
}

// Notify renders eventType into a notification and pushes it.
func (h *Hub) Notify(ctx context.Context, userID uuid.UUID, eventType string, data map[string]interface{}) error {
	kind, title, message := render(eventType, data)
	_, err := h.Push(ctx, userID, kind, title, message)
	return err
}

func render(eventType string, data map[string]interface{}) (domain.NotificationKind, string, string) {
	switch eventType {
	case "SETTING_TOGGLED":
		state := "INACTIVE"
		if enabled, _ := data["enabled"].(bool); enabled {
			state = "ACTIVE"
		}
		return domain.KindInfo, "Security Protocol",
			fmt.Sprintf("%s set to %s", strings.ToUpper(fmt.Sprint(data["key"])), state)

	case "PREFERENCE_SYNCED":
		return domain.KindSuccess, "Preferences",
			fmt.Sprintf("PREFERENCE SYNCED: %s", strings.ToUpper(fmt.Sprint(data["value"])))

	case "WALLET_REJECTED":
		return domain.KindError, "Vault", "INVALID ADDRESS: FORMAT REJECTED"

	case "WALLET_UPDATED":
		return domain.KindSuccess, "Vault", "VAULT ADDRESS UPDATED & LOCKED"

	case "MFA_ENROLLED":
		return domain.KindSuccess, "Security Protocol", "AUTHENTICATOR LINKED: ENTER CODE TO CONFIRM"

	case "SESSION_TERMINATED":
		return domain.KindWarning, "Session", "SESSION TERMINATED: CONNECTION SEVERED"

	case "LOGIN_NEW_DEVICE":
		return domain.KindSystem, "New Login Detected",
			fmt.Sprintf("New session from %v (%v).", data["device"], data["ip"])

	case "ACCOUNT_PURGED":
		return domain.KindError, "Account", "ACCOUNT PURGED. SELF-DESTRUCT COMPLETE."

	case "LINK_HANDSHAKE":
		return domain.KindInfo, "Account Link",
			fmt.Sprintf("INITIATING HANDSHAKE WITH %s...", strings.ToUpper(fmt.Sprint(data["casino_name"])))

	case "LINK_VERIFIED":
		return domain.KindSuccess, "Account Link",
			fmt.Sprintf("UPLINK SECURE: %s VERIFIED", strings.ToUpper(fmt.Sprint(data["casino_name"])))

	case "LINK_SEVERED":
		return domain.KindWarning, "Account Link", "CONNECTION SEVERED. VPR DATA ARCHIVED."

	case "INTAKE_COMPLETE":
		return domain.KindSuccess, "Signal Encrypted & Sent",
			fmt.Sprintf("REF ID: %v. Compliance officers will initiate the handshake protocol via email within 48 hours.", data["ref_id"])

	case "INTAKE_FAILED":
		return domain.KindError, "Transmission Failed",
			fmt.Sprintf("Application could not be sent: %v", data["reason"])
	}
	return domain.KindInfo, "Notification", fmt.Sprintf("Event: %s", eventType)
}

// Sweep expires old notifications in every queue.
func (h *Hub) Sweep(now time.Time) int {
	h.mu.Lock()
	queues := make([]*Queue, 0, len(h.queues))
	for _, q := range h.queues {
		queues = append(queues, q)
	}
	h.mu.Unlock()

	removed := 0
	for _, q := range queues {
		removed += q.Sweep(now)
	}
	if removed > 0 {
		h.logger.Debug("Expired notifications", map[string]interface{}{
			"count": removed,
		})
	}
	return removed
}

// Drop discards the queue of userID and ends its subscriptions.
func (h *Hub) Drop(userID uuid.UUID) {
	h.mu.Lock()
	q, ok := h.queues[userID]
	delete(h.queues, userID)
	h.mu.Unlock()

	if ok {
		q.Close()
	}
}
