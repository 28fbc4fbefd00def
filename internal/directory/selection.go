// Package directory tracks which casino a session has open in the detail
// overlay and which tab of the overlay is active.
package directory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"zapway/internal/catalog"
	"zapway/internal/domain"
	"zapway/pkg/errors"
	"zapway/pkg/logger"
)

// Tabs are the detail overlay sections in display order.
var Tabs = []string{"TACTICAL ANALYSIS", "COMPLIANCE", "COMMUNITY INTEL"}

// Selection holds at most one open entry.
type Selection struct {
	entry *domain.CatalogEntry
	tab   int
}

// Select opens entry, replacing any current one. The active tab resets.
func (s *Selection) Select(entry domain.CatalogEntry) {
	e := entry.Clone()
	s.entry = &e
	s.tab = 0
}

// Close clears the selection. Closing with nothing open is a no-op.
func (s *Selection) Close() {
	s.entry = nil
	s.tab = 0
}

// SetTab switches the active overlay tab.
func (s *Selection) SetTab(i int) error {
	if s.entry == nil {
		return errors.ErrNothingSelected
	}
	if i < 0 || i >= len(Tabs) {
		return errors.ErrInvalidDetailTab
	}
	s.tab = i
	return nil
}

// View is the overlay as rendered for the open entry.
type View struct {
	Entry        domain.CatalogEntry `json:"entry"`
	Tabs         []string            `json:"tabs"`
	ActiveTab    int                 `json:"active_tab"`
	ActiveName   string              `json:"active_tab_name"`
	ReferralLink string              `json:"referral_link"`
}

// Current derives the overlay view from the selected entry only.
func (s *Selection) Current() (View, bool) {
	if s.entry == nil {
		return View{}, false
	}
	link, err := catalog.ReferralURL(*s.entry)
	if err != nil {
		link = s.entry.Website
	}
	return View{
		Entry:        s.entry.Clone(),
		Tabs:         append([]string(nil), Tabs...),
		ActiveTab:    s.tab,
		ActiveName:   Tabs[s.tab],
		ReferralLink: link,
	}, true
}

// Catalog is the subset of catalog.Service the directory depends on.
type Catalog interface {
	Get(ctx context.Context, id string) (domain.CatalogEntry, error)
}

// Service keeps one Selection per session.
type Service struct {
	catalog Catalog
	logger  logger.Logger

	mu         sync.Mutex
	selections map[uuid.UUID]*Selection
}

func NewService(c Catalog, log logger.Logger) *Service {
	return &Service{
		catalog:    c,
		logger:     log,
		selections: make(map[uuid.UUID]*Selection),
	}
}

func (s *Service) selection(sessionID uuid.UUID) *Selection {
	sel, ok := s.selections[sessionID]
	if !ok {
		sel = &Selection{}
		s.selections[sessionID] = sel
	}
	return sel
}

// Select opens casinoID for the session.
func (s *Service) Select(ctx context.Context, sessionID uuid.UUID, casinoID string) (View, error) {
	entry, err := s.catalog.Get(ctx, casinoID)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.selection(sessionID)
	sel.Select(entry)
	view, _ := sel.Current()

	s.logger.Debug("Casino selected", map[string]interface{}{
		"session_id": sessionID.String(),
		"casino_id":  casinoID,
	})
	return view, nil
}

// Current returns the open overlay, or ErrNothingSelected.
func (s *Service) Current(sessionID uuid.UUID) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.selections[sessionID]
	if !ok {
		return View{}, errors.ErrNothingSelected
	}
	view, ok := sel.Current()
	if !ok {
		return View{}, errors.ErrNothingSelected
	}
	return view, nil
}

// SetTab switches the active tab of the open overlay.
func (s *Service) SetTab(sessionID uuid.UUID, tab int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.selections[sessionID]
	if !ok {
		return View{}, errors.ErrNothingSelected
	}
	if err := sel.SetTab(tab); err != nil {
		return View{}, err
	}
	view, _ := sel.Current()
	return view, nil
}

// Close dismisses the overlay.
func (s *Service) Close(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sel, ok := s.selections[sessionID]; ok {
		sel.Close()
	}
}

// Forget drops all state for a session.
func (s *Service) Forget(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selections, sessionID)
}

// Prune drops selections whose session is no longer live and returns how
// many were removed.
func (s *Service) Prune(live func(sessionID uuid.UUID) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id := range s.selections {
		if !live(id) {
			delete(s.selections, id)
			removed++
		}
	}
	return removed
}
