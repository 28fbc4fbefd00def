package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapway/internal/session"
	"zapway/pkg/errors"
	"zapway/pkg/logger"
)

type fakeAuthenticator struct {
	claims session.Claims
	err    error
	seen   string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (session.Claims, error) {
	f.seen = token
	return f.claims, f.err
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestAuthenticate(t *testing.T) {
	userID, sessionID := uuid.New(), uuid.New()
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		sid, _ := SessionIDFromContext(r.Context())
		name, _ := UsernameFromContext(r.Context())
		_, _ = io.WriteString(w, uid.String()+"|"+sid.String()+"|"+name)
	})

	t.Run("bearer header", func(t *testing.T) {
		auth := &fakeAuthenticator{claims: session.Claims{UserID: userID, SessionID: sessionID, Username: "whale"}}
		h := NewAuthMiddleware(auth, logger.NewNop()).Authenticate(echo)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer tok-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tok-123", auth.seen)
		assert.Equal(t, userID.String()+"|"+sessionID.String()+"|whale", rec.Body.String())
	})

	t.Run("query token", func(t *testing.T) {
		auth := &fakeAuthenticator{claims: session.Claims{UserID: userID, SessionID: sessionID}}
		h := NewAuthMiddleware(auth, logger.NewNop()).Authenticate(echo)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/stream?access_token=ws-tok", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ws-tok", auth.seen)
	})

	tests := []struct {
		name   string
		header string
		err    error
		status int
		msg    string
	}{
		{"missing", "", nil, http.StatusUnauthorized, "Authorization header required"},
		{"malformed", "Token abc", nil, http.StatusUnauthorized, "Invalid authorization format"},
		{"revoked", "Bearer abc", errors.ErrSessionRevoked, http.StatusUnauthorized, "Session revoked"},
		{"invalid", "Bearer abc", errors.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid token"},
		{"backend down", "Bearer abc", io.ErrUnexpectedEOF, http.StatusServiceUnavailable, "Authentication unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthMiddleware(&fakeAuthenticator{err: tt.err}, logger.NewNop()).Authenticate(echo)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, errorBody(t, rec))
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	var got bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, got = UserIDFromContext(r.Context())
	})

	h := NewAuthMiddleware(&fakeAuthenticator{err: errors.ErrInvalidCredentials}, logger.NewNop()).Optional(next)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/casinos", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, got)

	h = NewAuthMiddleware(&fakeAuthenticator{claims: session.Claims{UserID: uuid.New()}}, logger.NewNop()).Optional(next)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/casinos", nil)
	req.Header.Set("Authorization", "Bearer good")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, got)
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	h := CORS([]string{"https://zapway.gg"})(ok)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://zapway.gg")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://zapway.gg", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	rec = httptest.NewRecorder()
	CORS(nil)(ok).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorrelationID(t *testing.T) {
	var seen string
	h := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestRecoveryAndBodyLimit(t *testing.T) {
	h := Recovery(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", errorBody(t, rec))

	var readErr error
	h = BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789abcdef")))
	assert.Error(t, readErr)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRateLimiter(t *testing.T) {
	_, client := newTestRedis(t)
	h := NewRateLimiter(client, 2, time.Minute, logger.NewNop()).
		Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/casinos", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterFallsBackWhenRedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.Close()

	h := NewRateLimiter(client, 1, time.Minute, logger.NewNop()).
		Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLocalRateLimiterKeysByUser(t *testing.T) {
	l := NewLocalRateLimiter(1, time.Minute)
	h := l.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	serve := func(userID uuid.UUID) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), userID, uuid.New(), "u"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	alice, bob := uuid.New(), uuid.New()
	assert.Equal(t, http.StatusOK, serve(alice))
	assert.Equal(t, http.StatusTooManyRequests, serve(alice))
	assert.Equal(t, http.StatusOK, serve(bob))
}

func TestIdempotencyReplaysResponse(t *testing.T) {
	_, client := newTestRedis(t)
	calls := 0
	h := NewIdempotencyMiddleware(client, time.Minute, logger.NewNop()).
		Replay(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":"intake-1"}`)
		}))

	userID := uuid.New()
	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/intake", strings.NewReader(`{}`))
		req = req.WithContext(WithIdentity(req.Context(), userID, uuid.New(), "u"))
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := send("k1")
	second := send("k1")
	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))

	send("")
	send("")
	assert.Equal(t, 3, calls)
}

func TestIdempotencyIgnoresServerErrorsAndReads(t *testing.T) {
	_, client := newTestRedis(t)
	calls := 0
	h := NewIdempotencyMiddleware(client, time.Minute, logger.NewNop()).
		Replay(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"x"}`)
		}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/intake", nil)
		req.Header.Set("Idempotency-Key", "same")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, 2, calls)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/intake", nil)
	req.Header.Set("Idempotency-Key", "same")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, 3, calls)
}

func TestIdempotencyConflictWhileInFlight(t *testing.T) {
	mr, client := newTestRedis(t)
	m := NewIdempotencyMiddleware(client, time.Minute, logger.NewNop())
	m.wait = 150 * time.Millisecond

	userID := uuid.New()
	require.NoError(t, mr.Set("idempotency:lock:"+userID.String()+":POST:/api/v1/intake:busy", "other"))

	h := m.Replay(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run while the key is locked")
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intake", nil)
	req = req.WithContext(WithIdentity(req.Context(), userID, uuid.New(), "u"))
	req.Header.Set("Idempotency-Key", "busy")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, errors.ErrDuplicateRequest.Error(), errorBody(t, rec))
}

func TestAuditPassesThrough(t *testing.T) {
	h := NewAuditMiddleware(logger.NewNop()).Audit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/account", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
