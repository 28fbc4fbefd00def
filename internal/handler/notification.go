package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"zapway/internal/domain"
	"zapway/internal/notification"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS middleware
	},
}

const streamPingInterval = 30 * time.Second

// NotificationHandler manages the notification centre.
type NotificationHandler struct {
	hub    *notification.Hub
	logger Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(hub *notification.Hub, log Logger) *NotificationHandler {
	return &NotificationHandler{hub: hub, logger: log}
}

type notificationList struct {
	Notifications []domain.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}

type pushRequest struct {
	Kind    domain.NotificationKind `json:"kind"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	q := h.hub.Queue(userID)
	respondJSON(w, http.StatusOK, notificationList{Notifications: q.List(), Unread: q.Unread()})
}

// Push adds a notification to the caller's own queue.
func (h *NotificationHandler) Push(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	var req pushRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		respondValidationErrors(w, map[string]string{"title": "title is required"})
		return
	}

	n, err := h.hub.Push(r.Context(), userID, req.Kind, req.Title, req.Message)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to push notification", nil)
		return
	}
	respondJSON(w, http.StatusCreated, n)
}

// MarkRead flags one notification as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "notification")
	if !ok {
		return
	}
	if err := h.hub.Queue(userID).MarkRead(id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to mark notification", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead flags every notification as read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	changed := h.hub.Queue(userID).MarkAllRead()
	respondJSON(w, http.StatusOK, map[string]int{"marked": changed})
}

// Dismiss removes a notification.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "notification")
	if !ok {
		return
	}
	if err := h.hub.Queue(userID).Dismiss(id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to dismiss notification", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stream upgrades to a WebSocket that carries the current list followed by
// every queue event.
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}
	defer conn.Close()

	q := h.hub.Queue(userID)
	events, unsubscribe := q.Subscribe(32)
	defer unsubscribe()

	h.logger.Info("Notification stream opened", map[string]interface{}{"user_id": userID.String()})

	if err := conn.WriteJSON(map[string]interface{}{
		"type":          "snapshot",
		"notifications": q.List(),
		"unread":        q.Unread(),
	}); err != nil {
		return
	}

	// Drain client frames so close messages are seen.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, open := <-events:
			if !open {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "queue closed"))
				return
			}
			if err := conn.WriteJSON(map[string]interface{}{
				"type":         ev.Type,
				"notification": ev.Notification,
				"unread":       q.Unread(),
			}); err != nil {
				h.logger.Warn("Notification stream write failed", map[string]interface{}{
					"error":   err.Error(),
					"user_id": userID.String(),
				})
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-gone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
