// Package session implements registration, login and the per-device
// sessions behind each issued token.
package session

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"zapway/internal/domain"
	"zapway/pkg/errors"
	"zapway/pkg/logger"
)

// Notifier delivers session events to the account owner.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType string, data map[string]interface{}) error
}

// Service provides user registration, login, and token issuance.
type Service struct {
	jwtSecret string
	jwtExpiry time.Duration
	hashCost  int
	revoker   Revoker
	notifier  Notifier
	logger    logger.Logger
	now       func() time.Time

	mu       sync.RWMutex
	users    map[uuid.UUID]*domain.User
	byEmail  map[string]uuid.UUID
	sessions map[uuid.UUID]*domain.Session
}

// NewService constructs a Service with the given JWT settings.
func NewService(jwtSecret string, jwtExpiry time.Duration, revoker Revoker, notifier Notifier, log logger.Logger) *Service {
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	return &Service{
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		hashCost:  bcrypt.DefaultCost,
		revoker:   revoker,
		notifier:  notifier,
		logger:    log,
		now:       time.Now,
		users:     make(map[uuid.UUID]*domain.User),
		byEmail:   make(map[string]uuid.UUID),
		sessions:  make(map[uuid.UUID]*domain.Session),
	}
}

// RegisterRequest captures the fields required to create a new user.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest captures credentials for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ClientInfo describes the device a login comes from.
type ClientInfo struct {
	UserAgent string
	IP        string
}

// TokenResponse is returned on successful register/login.
type TokenResponse struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        domain.User    `json:"user"`
	Session     domain.Session `json:"session"`
}

// Claims is the identity carried by a valid token.
type Claims struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Username  string
	ExpiresAt time.Time
}

// Register creates a new user and opens a first session.
func (s *Service) Register(ctx context.Context, req *RegisterRequest, client ClientInfo) (*TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	if _, exists := s.byEmail[email]; exists {
		s.mu.Unlock()
		return nil, errors.ErrUserAlreadyExists
	}
	user := &domain.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: string(passwordHash),
		CreatedAt:    s.now(),
	}
	s.users[user.ID] = user
	s.byEmail[email] = user.ID
	sess := s.openSession(user.ID, client)
	s.mu.Unlock()

	s.logger.Info("User registered", map[string]interface{}{
		"user_id":  user.ID.String(),
		"username": user.Username,
	})
	return s.issue(*user, sess)
}

// Login authenticates a user and opens a new session.
func (s *Service) Login(ctx context.Context, req *LoginRequest, client ClientInfo) (*TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.mu.RLock()
	id, ok := s.byEmail[email]
	var user domain.User
	if ok {
		user = *s.users[id]
	}
	s.mu.RUnlock()
	if !ok {
		return nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	s.mu.Lock()
	if _, still := s.users[user.ID]; !still {
		s.mu.Unlock()
		return nil, errors.ErrInvalidCredentials
	}
	others := 0
	for _, existing := range s.sessions {
		if existing.UserID == user.ID {
			others++
		}
	}
	sess := s.openSession(user.ID, client)
	s.mu.Unlock()

	if others > 0 {
		s.notify(ctx, user.ID, "LOGIN_NEW_DEVICE", map[string]interface{}{
			"device": sess.Device,
			"ip":     sess.IP,
		})
	}
	return s.issue(user, sess)
}

// openSession records a new session. Caller holds mu.
func (s *Service) openSession(userID uuid.UUID, client ClientInfo) domain.Session {
	device, kind := describeDevice(client.UserAgent)
	now := s.now()
	sess := &domain.Session{
		ID:         uuid.New(),
		UserID:     userID,
		Device:     device,
		Type:       kind,
		IP:         client.IP,
		CreatedAt:  now,
		LastActive: now,
	}
	s.sessions[sess.ID] = sess
	return *sess
}

func (s *Service) issue(user domain.User, sess domain.Session) (*TokenResponse, error) {
	expiresAt := s.now().Add(s.jwtExpiry)

	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"user_id":  user.ID.String(),
		"sid":      sess.ID.String(),
		"username": user.Username,
		"exp":      expiresAt.Unix(),
		"iat":      s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	sess.Current = true
	return &TokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User:        user,
		Session:     sess,
	}, nil
}

// Authenticate validates a token and the session behind it.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return Claims{}, errors.ErrInvalidCredentials
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.ErrInvalidCredentials
	}
	userID, err := uuid.Parse(fmt.Sprint(mc["user_id"]))
	if err != nil {
		return Claims{}, errors.ErrInvalidCredentials
	}
	sessionID, err := uuid.Parse(fmt.Sprint(mc["sid"]))
	if err != nil {
		return Claims{}, errors.ErrInvalidCredentials
	}

	revoked, err := s.revoker.IsRevoked(ctx, sessionID)
	if err != nil {
		return Claims{}, errors.Wrap(err, "revocation check failed")
	}
	if revoked {
		return Claims{}, errors.ErrSessionRevoked
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.UserID != userID {
		s.mu.Unlock()
		return Claims{}, errors.ErrSessionNotFound
	}
	sess.LastActive = s.now()
	s.mu.Unlock()

	claims := Claims{UserID: userID, SessionID: sessionID}
	if name, ok := mc["username"].(string); ok {
		claims.Username = name
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

// User returns a copy of the account.
func (s *Service) User(userID uuid.UUID) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.User{}, errors.ErrSessionNotFound
	}
	return *u, nil
}

// Sessions lists the sessions of userID, newest first, flagging current.
func (s *Service) Sessions(userID, current uuid.UUID) []domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Session
	for _, sess := range s.sessions {
		if sess.UserID != userID {
			continue
		}
		cp := *sess
		cp.Current = cp.ID == current
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Current != out[j].Current {
			return out[i].Current
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Live reports whether sessionID is still open.
func (s *Service) Live(sessionID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[sessionID]
	return ok
}

// Logout ends the caller's own session.
func (s *Service) Logout(ctx context.Context, userID, sessionID uuid.UUID) error {
	return s.end(ctx, userID, sessionID)
}

// Terminate ends another session of the same user.
func (s *Service) Terminate(ctx context.Context, userID, current, target uuid.UUID) error {
	if current == target {
		return errors.ErrCannotTerminateActive
	}
	if err := s.end(ctx, userID, target); err != nil {
		return err
	}
	s.notify(ctx, userID, "SESSION_TERMINATED", map[string]interface{}{
		"session_id": target.String(),
	})
	return nil
}

// TerminateOthers ends every session except current and returns how many.
func (s *Service) TerminateOthers(ctx context.Context, userID, current uuid.UUID) (int, error) {
	s.mu.RLock()
	var targets []uuid.UUID
	for id, sess := range s.sessions {
		if sess.UserID == userID && id != current {
			targets = append(targets, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range targets {
		if err := s.end(ctx, userID, id); err != nil && !errors.Is(err, errors.ErrSessionNotFound) {
			return 0, err
		}
	}
	if len(targets) > 0 {
		s.notify(ctx, userID, "SESSION_TERMINATED", map[string]interface{}{
			"count": len(targets),
		})
	}
	return len(targets), nil
}

func (s *Service) end(ctx context.Context, userID, sessionID uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.UserID != userID {
		s.mu.Unlock()
		return errors.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if err := s.revoker.Revoke(ctx, sessionID, s.jwtExpiry); err != nil {
		return errors.Wrap(err, "failed to revoke session")
	}
	s.logger.Info("Session ended", map[string]interface{}{
		"user_id":    userID.String(),
		"session_id": sessionID.String(),
	})
	return nil
}

// DeleteUser removes the account and revokes all of its sessions.
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	user, ok := s.users[userID]
	if !ok {
		s.mu.Unlock()
		return errors.ErrSessionNotFound
	}
	delete(s.users, userID)
	delete(s.byEmail, user.Email)
	var ended []uuid.UUID
	for id, sess := range s.sessions {
		if sess.UserID == userID {
			ended = append(ended, id)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, id := range ended {
		if err := s.revoker.Revoke(ctx, id, s.jwtExpiry); err != nil {
			return errors.Wrap(err, "failed to revoke session")
		}
	}
	s.logger.Warn("Account purged", map[string]interface{}{
		"user_id":  userID.String(),
		"sessions": len(ended),
	})
	return nil
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, event string, data map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, event, data); err != nil {
		s.logger.Error("Failed to deliver session notification", map[string]interface{}{
			"error": err.Error(),
			"event": event,
		})
	}
}
