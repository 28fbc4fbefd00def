// Package middleware hosts authentication, logging, and rate limiting middleware.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"zapway/internal/session"
	"zapway/pkg/errors"
	"zapway/pkg/logger"
)

// contextKey avoids collisions when storing values in request contexts.
type contextKey string

const (
	ctxUserIDKey    contextKey = "user_id"
	ctxSessionIDKey contextKey = "session_id"
	ctxUsernameKey  contextKey = "username"
)

// Authenticator validates an access token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (session.Claims, error)
}

// AuthMiddleware validates bearer tokens and injects the caller identity into the context.
type AuthMiddleware struct {
	auth   Authenticator
	logger logger.Logger
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(auth Authenticator, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, logger: log}
}

// tokenFromRequest reads the bearer header, or the access_token query
// parameter for clients that cannot set headers (WebSocket).
func tokenFromRequest(r *http.Request) (string, string) {
	if authHeader := strings.TrimSpace(r.Header.Get("Authorization")); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", "Invalid authorization format"
		}
		return parts[1], ""
	}
	if token := r.URL.Query().Get("access_token"); token != "" {
		return token, ""
	}
	return "", "Authorization header required"
}

// Authenticate enforces bearer auth and populates the caller on the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, problem := tokenFromRequest(r)
		if problem != "" {
			jsonError(w, http.StatusUnauthorized, problem)
			return
		}

		claims, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, errors.ErrSessionRevoked):
				jsonError(w, http.StatusUnauthorized, "Session revoked")
			case errors.Is(err, errors.ErrSessionNotFound), errors.Is(err, errors.ErrInvalidCredentials):
				jsonError(w, http.StatusUnauthorized, "Invalid token")
			default:
				m.logger.Error("Token verification failed", map[string]interface{}{
					"error": err.Error(),
				})
				jsonError(w, http.StatusServiceUnavailable, "Authentication unavailable")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// Optional populates the caller when a valid token is present and lets
// anonymous requests through unchanged.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, problem := tokenFromRequest(r)
		if problem == "" {
			if claims, err := m.auth.Authenticate(r.Context(), token); err == nil {
				r = r.WithContext(withClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func withClaims(ctx context.Context, claims session.Claims) context.Context {
	ctx = context.WithValue(ctx, ctxUserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, ctxSessionIDKey, claims.SessionID)
	return context.WithValue(ctx, ctxUsernameKey, claims.Username)
}

// UserIDFromContext returns the authenticated user's UUID from context.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v := ctx.Value(ctxUserIDKey)
	id, ok := v.(uuid.UUID)
	return id, ok
}

// SessionIDFromContext returns the session behind the request token.
func SessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v := ctx.Value(ctxSessionIDKey)
	id, ok := v.(uuid.UUID)
	return id, ok
}

// UsernameFromContext returns the authenticated username from context.
func UsernameFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(ctxUsernameKey)
	s, ok := v.(string)
	return s, ok
}

// WithIdentity returns ctx carrying the given caller. Handlers tests use it
// to bypass token verification.
func WithIdentity(ctx context.Context, userID, sessionID uuid.UUID, username string) context.Context {
	return withClaims(ctx, session.Claims{UserID: userID, SessionID: sessionID, Username: username})
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// CORS allows the configured origins. With none configured any origin is reflected.
func CORS(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if len(allowed) > 0 {
				for _, o := range allowed {
					if strings.EqualFold(o, origin) {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						w.Header().Set("Vary", "Origin")
						break
					}
				}
			} else if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, Idempotency-Key")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
