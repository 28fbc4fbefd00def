// Package profile serves the public dossier: bio, share link and the
// casino accounts a user has linked.
package profile

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"zapway/internal/domain"
	"zapway/pkg/errors"
	"zapway/pkg/logger"
	"zapway/pkg/validator"
)

const defaultBio = "Crypto native. Hunting max RTP. Alpha seeker."

// Catalog resolves casinos for linking.
type Catalog interface {
	Get(ctx context.Context, id string) (domain.CatalogEntry, error)
}

// Notifier delivers link progress to the owner.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType string, data map[string]interface{}) error
}

// Profile is the dossier view.
type Profile struct {
	Username       string                 `json:"username"`
	Bio            string                 `json:"bio"`
	DossierURL     string                 `json:"dossier_url"`
	LinkedAccounts []domain.LinkedAccount `json:"linked_accounts"`
}

// BioRequest updates the bio.
type BioRequest struct {
	Bio string `json:"bio" validate:"max=280"`
}

// LinkRequest ties a casino username to the profile.
type LinkRequest struct {
	CasinoID string `json:"casino_id" validate:"required"`
	Username string `json:"username" validate:"required,max=64"`
}

type profile struct {
	bio     string
	links   []domain.LinkedAccount
	pending map[uuid.UUID]*time.Timer
}

type Service struct {
	catalog        Catalog
	notifier       Notifier
	validator      *validator.Validator
	logger         logger.Logger
	handshakeDelay time.Duration
	dossierBase    string
	now            func() time.Time

	mu       sync.Mutex
	profiles map[uuid.UUID]*profile
}

func NewService(c Catalog, n Notifier, v *validator.Validator, log logger.Logger, handshakeDelay time.Duration, dossierBase string) *Service {
	return &Service{
		catalog:        c,
		notifier:       n,
		validator:      v,
		logger:         log,
		handshakeDelay: handshakeDelay,
		dossierBase:    dossierBase,
		now:            time.Now,
		profiles:       make(map[uuid.UUID]*profile),
	}
}

func (s *Service) profile(userID uuid.UUID) *profile {
	p, ok := s.profiles[userID]
	if !ok {
		p = &profile{bio: defaultBio, pending: make(map[uuid.UUID]*time.Timer)}
		s.profiles[userID] = p
	}
	return p
}

func (s *Service) view(p *profile, username string) Profile {
	return Profile{
		Username:       username,
		Bio:            p.bio,
		DossierURL:     s.dossierBase + strings.ToLower(username),
		LinkedAccounts: append([]domain.LinkedAccount{}, p.links...),
	}
}

// Get returns the profile of userID.
func (s *Service) Get(userID uuid.UUID, username string) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.profile(userID), username)
}

// SetBio replaces the bio. Markup is escaped.
func (s *Service) SetBio(userID uuid.UUID, username string, req BioRequest) (Profile, error) {
	if fields := s.validator.ValidateStructured(req); fields != nil {
		return Profile{}, errors.Wrap(errors.ErrInvalidSettingValue, fields["bio"])
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profile(userID)
	p.bio = validator.Sanitize(req.Bio)
	return s.view(p, username), nil
}

// Link adds an unverified account and verifies it after the handshake delay.
func (s *Service) Link(ctx context.Context, userID uuid.UUID, req LinkRequest) (domain.LinkedAccount, error) {
	casino, err := s.catalog.Get(ctx, req.CasinoID)
	if err != nil {
		return domain.LinkedAccount{}, err
	}

	account := domain.LinkedAccount{
		ID:         uuid.New(),
		CasinoID:   casino.ID,
		CasinoName: casino.Name,
		CasinoLogo: casino.Logo,
		Username:   validator.Sanitize(req.Username),
		LinkedAt:   s.now(),
	}

	s.mu.Lock()
	p := s.profile(userID)
	p.links = append(p.links, account)
	p.pending[account.ID] = time.AfterFunc(s.handshakeDelay, func() {
		s.verify(userID, account.ID)
	})
	s.mu.Unlock()

	s.notify(ctx, userID, "LINK_HANDSHAKE", map[string]interface{}{
		"casino_name": casino.Name,
	})
	return account, nil
}

func (s *Service) verify(userID, linkID uuid.UUID) {
	s.mu.Lock()
	p, ok := s.profiles[userID]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(p.pending, linkID)
	var name string
	for i := range p.links {
		if p.links[i].ID == linkID {
			p.links[i].Verified = true
			name = p.links[i].CasinoName
		}
	}
	s.mu.Unlock()

	if name == "" {
		return
	}
	s.logger.Info("Linked account verified", map[string]interface{}{
		"user_id": userID.String(),
		"link_id": linkID.String(),
	})
	s.notify(context.Background(), userID, "LINK_VERIFIED", map[string]interface{}{
		"casino_name": name,
	})
}

// Unlink removes a linked account and cancels a pending handshake.
func (s *Service) Unlink(ctx context.Context, userID, linkID uuid.UUID) error {
	s.mu.Lock()
	p := s.profile(userID)
	idx := -1
	for i, l := range p.links {
		if l.ID == linkID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return errors.ErrLinkedAccountNotFound
	}
	p.links = append(p.links[:idx], p.links[idx+1:]...)
	if t, ok := p.pending[linkID]; ok {
		t.Stop()
		delete(p.pending, linkID)
	}
	s.mu.Unlock()

	s.notify(ctx, userID, "LINK_SEVERED", nil)
	return nil
}

// Forget drops the profile and stops pending handshakes.
func (s *Service) Forget(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return
	}
	for _, t := range p.pending {
		t.Stop()
	}
	delete(s.profiles, userID)
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, event string, data map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, event, data); err != nil {
		s.logger.Error("Failed to deliver profile notification", map[string]interface{}{
			"error": err.Error(),
			"event": event,
		})
	}
}
