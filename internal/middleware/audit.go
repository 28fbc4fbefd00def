package middleware

import (
	"net/http"

	"zapway/pkg/logger"
)

// AuditMiddleware records state-changing requests made by authenticated users.
type AuditMiddleware struct {
	logger logger.Logger
}

// NewAuditMiddleware creates a new AuditMiddleware.
func NewAuditMiddleware(log logger.Logger) *AuditMiddleware {
	return &AuditMiddleware{logger: log.With(map[string]interface{}{"channel": "audit"})}
}

// Audit logs the caller, action and outcome of every non-GET request.
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		wrapped, ok := w.(*responseWriter)
		if !ok {
			wrapped = &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		}
		next.ServeHTTP(wrapped, r)

		fields := map[string]interface{}{
			"action":     r.Method + " " + r.URL.Path,
			"status":     wrapped.statusCode,
			"ip":         ClientIP(r),
			"user_agent": r.UserAgent(),
			"request_id": RequestIDFromContext(r.Context()),
		}
		if userID, ok := UserIDFromContext(r.Context()); ok {
			fields["user_id"] = userID.String()
		}
		if sessionID, ok := SessionIDFromContext(r.Context()); ok {
			fields["session_id"] = sessionID.String()
		}
		m.logger.Info("Audit", fields)
	})
}
