// Package catalog serves the casino directory: the static listing, the
// filter/sort projection and referral links.
package catalog

import (
	"context"
	"net/url"
	"time"

	"zapway/internal/domain"
	"zapway/pkg/errors"
	"zapway/pkg/logger"
)

// ReferralTag is appended to outbound casino links.
const ReferralTag = "zapway"

// ProjectionCache stores ordered id lists keyed by filter state.
type ProjectionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

type Service struct {
	entries []domain.CatalogEntry
	index   map[string]int
	cache   ProjectionCache
	ttl     time.Duration
	logger  logger.Logger
}

func NewService(entries []domain.CatalogEntry, log logger.Logger) *Service {
	owned := make([]domain.CatalogEntry, len(entries))
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		owned[i] = e.Clone()
		index[e.ID] = i
	}
	return &Service{
		entries: owned,
		index:   index,
		logger:  log,
	}
}

// WithCache enables the projection cache.
func (s *Service) WithCache(c ProjectionCache, ttl time.Duration) *Service {
	s.cache = c
	s.ttl = ttl
	return s
}

// List returns the projection of the catalog for state.
func (s *Service) List(ctx context.Context, state FilterState) []domain.CatalogEntry {
	state = state.Normalize()
	key := "catalog:projection:" + state.Key()

	if s.cache != nil {
		var ids []string
		if err := s.cache.Get(ctx, key, &ids); err == nil {
			if out, ok := s.hydrate(ids); ok {
				return out
			}
		}
	}

	projected := Project(s.entries, state)

	if s.cache != nil {
		ids := make([]string, len(projected))
		for i, e := range projected {
			ids[i] = e.ID
		}
		if err := s.cache.Set(ctx, key, ids, s.ttl); err != nil {
			s.logger.Warn("Failed to cache catalog projection", map[string]interface{}{
				"error": err.Error(),
				"key":   key,
			})
		}
	}

	return cloneAll(projected)
}

func (s *Service) hydrate(ids []string) ([]domain.CatalogEntry, bool) {
	out := make([]domain.CatalogEntry, 0, len(ids))
	for _, id := range ids {
		i, ok := s.index[id]
		if !ok {
			return nil, false
		}
		out = append(out, s.entries[i].Clone())
	}
	return out, true
}

// Get returns a single entry by id.
func (s *Service) Get(_ context.Context, id string) (domain.CatalogEntry, error) {
	i, ok := s.index[id]
	if !ok {
		return domain.CatalogEntry{}, errors.ErrCasinoNotFound
	}
	return s.entries[i].Clone(), nil
}

// ReferralLink returns the outbound tracking link for a casino.
func (s *Service) ReferralLink(ctx context.Context, id string) (string, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return ReferralURL(entry)
}

// ReferralURL adds the referral tag to the entry website.
func ReferralURL(entry domain.CatalogEntry) (string, error) {
	u, err := url.Parse(entry.Website)
	if err != nil {
		return "", errors.Wrap(err, "invalid casino website")
	}
	q := u.Query()
	q.Set("ref", ReferralTag)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// CategoryCount is the number of entries a category chip would show.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// Meta describes the available filters.
type Meta struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
	SortKeys   []SortKey       `json:"sort_keys"`
}

// Meta returns per-category counts with no search or toggles applied.
func (s *Service) Meta() Meta {
	counts := make([]CategoryCount, 0, len(Categories))
	for _, c := range Categories {
		counts = append(counts, CategoryCount{
			Category: c,
			Count:    len(Project(s.entries, FilterState{Category: c})),
		})
	}
	return Meta{
		Total:      len(s.entries),
		Categories: counts,
		SortKeys:   []SortKey{SortRatingDesc, SortRatingAsc, SortNewest, SortSpeed},
	}
}

func cloneAll(entries []domain.CatalogEntry) []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
