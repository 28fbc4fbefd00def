package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// SystemHandler reports liveness and readiness.
type SystemHandler struct {
	redisClient *redis.Client
	logger      Logger
	startTime   time.Time
	lastSweep   func() time.Time
}

// NewSystemHandler creates a SystemHandler. redisClient may be nil when the
// service runs without Redis; lastSweep may be nil.
func NewSystemHandler(redisClient *redis.Client, lastSweep func() time.Time, log Logger) *SystemHandler {
	return &SystemHandler{
		redisClient: redisClient,
		logger:      log,
		startTime:   time.Now(),
		lastSweep:   lastSweep,
	}
}

type ServiceStatus struct {
	ID        string `json:"id"`
	Status    string `json:"status"` // operational, degraded, outage, disabled
	LatencyMs int64  `json:"latency_ms"`
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        "zapway",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}

// Ready fails only when a configured Redis is unreachable.
func (h *SystemHandler) Ready(w http.ResponseWriter, r *http.Request) {
	redisStatus := ServiceStatus{ID: "redis", Status: "disabled"}
	if h.redisClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		start := time.Now()
		err := h.redisClient.Ping(ctx).Err()
		redisStatus.LatencyMs = time.Since(start).Milliseconds()
		switch {
		case err != nil:
			redisStatus.Status = "outage"
			h.logger.Error("Redis ping failed", map[string]interface{}{"error": err.Error()})
		case redisStatus.LatencyMs > 50:
			redisStatus.Status = "degraded"
		default:
			redisStatus.Status = "operational"
		}
	}

	body := map[string]interface{}{
		"status":   "ready",
		"services": []ServiceStatus{{ID: "core-api", Status: "operational"}, redisStatus},
	}
	if h.lastSweep != nil {
		if t := h.lastSweep(); !t.IsZero() {
			body["last_sweep"] = t
		}
	}

	if redisStatus.Status == "outage" {
		body["status"] = "not ready"
		respondJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	respondJSON(w, http.StatusOK, body)
}
