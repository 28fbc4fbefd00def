package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"zapway/internal/domain"
	"zapway/pkg/errors"
)

// Category is a named preset predicate over catalog entries.
type Category string

const (
	CategoryAll      Category = "ALL"
	CategoryVerified Category = "VERIFIED"
	CategoryNoKYC    Category = "NO_KYC"
	CategoryCrypto   Category = "CRYPTO"
)

// Categories lists the chip bar in display order.
var Categories = []Category{CategoryAll, CategoryVerified, CategoryNoKYC, CategoryCrypto}

// SortKey selects the comparator applied after filtering.
type SortKey string

const (
	SortRatingDesc SortKey = "RATING_DESC"
	SortRatingAsc  SortKey = "RATING_ASC"
	SortNewest     SortKey = "NEWEST"
	SortSpeed      SortKey = "SPEED"
)

// Toggles are independent feature filters. All set toggles must hold.
type Toggles struct {
	VPNFriendly bool `json:"vpn_friendly"`
	FiatOnramp  bool `json:"fiat_onramp"`
	NoKYC       bool `json:"no_kyc"`
	LiveChat    bool `json:"live_chat"`
	MobileApp   bool `json:"mobile_app"`
	P2PTransfer bool `json:"p2p_transfer"`
}

// FilterState is the directory query. The zero value matches everything
// and sorts by rating, highest first.
type FilterState struct {
	Search   string   `json:"search"`
	Category Category `json:"category"`
	Sort     SortKey  `json:"sort"`
	Toggles  Toggles  `json:"toggles"`
}

// Normalize fills defaults for empty category and sort.
func (f FilterState) Normalize() FilterState {
	if f.Category == "" {
		f.Category = CategoryAll
	}
	if f.Sort == "" {
		f.Sort = SortRatingDesc
	}
	return f
}

// Key is a stable string identifying the filter state.
func (f FilterState) Key() string {
	f = f.Normalize()
	t := f.Toggles
	return strings.Join([]string{
		strings.ToLower(f.Search),
		string(f.Category),
		string(f.Sort),
		bits(t.VPNFriendly, t.FiatOnramp, t.NoKYC, t.LiveChat, t.MobileApp, t.P2PTransfer),
	}, "|")
}

func bits(flags ...bool) string {
	var b strings.Builder
	for _, f := range flags {
		if f {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParseFilterState reads a FilterState from query parameters.
func ParseFilterState(q url.Values) (FilterState, error) {
	state := FilterState{
		Search:   q.Get("search"),
		Category: Category(strings.ToUpper(q.Get("category"))),
		Sort:     SortKey(strings.ToUpper(q.Get("sort"))),
	}
	state = state.Normalize()

	switch state.Category {
	case CategoryAll, CategoryVerified, CategoryNoKYC, CategoryCrypto:
	default:
		return FilterState{}, errors.ErrInvalidCategory
	}
	switch state.Sort {
	case SortRatingDesc, SortRatingAsc, SortNewest, SortSpeed:
	default:
		return FilterState{}, errors.ErrInvalidSortKey
	}

	state.Toggles = Toggles{
		VPNFriendly: queryBool(q, "vpn"),
		FiatOnramp:  queryBool(q, "fiat"),
		NoKYC:       queryBool(q, "no_kyc"),
		LiveChat:    queryBool(q, "live_chat"),
		MobileApp:   queryBool(q, "mobile_app"),
		P2PTransfer: queryBool(q, "p2p"),
	}
	return state, nil
}

func queryBool(q url.Values, key string) bool {
	v, err := strconv.ParseBool(q.Get(key))
	return err == nil && v
}

// Matches reports whether e passes the search, category and toggle predicates.
func (f FilterState) Matches(e domain.CatalogEntry) bool {
	if !strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Search)) {
		return false
	}

	switch f.Category {
	case CategoryVerified:
		if e.Status != domain.CasinoStatusVerified {
			return false
		}
	case CategoryNoKYC:
		if e.KYCLevel != domain.KYCLevelNone {
			return false
		}
	case CategoryCrypto:
		if len(e.Chains) == 0 {
			return false
		}
	}

	t := f.Toggles
	switch {
	case t.VPNFriendly && !e.Features.VPNFriendly,
		t.FiatOnramp && !e.Features.FiatOnramp,
		t.NoKYC && e.KYCLevel != domain.KYCLevelNone,
		t.LiveChat && !e.Features.LiveChat,
		t.MobileApp && !e.Features.MobileApp,
		t.P2PTransfer && !e.Features.P2PTransfer:
		return false
	}
	return true
}

// Project filters and orders entries for state. The input slice is left
// untouched; ties keep their input order.
func Project(entries []domain.CatalogEntry, state FilterState) []domain.CatalogEntry {
	state = state.Normalize()

	out := make([]domain.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if state.Matches(e) {
			out = append(out, e)
		}
	}

	less := comparator(state.Sort)
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func comparator(key SortKey) func(a, b domain.CatalogEntry) bool {
	switch key {
	case SortRatingDesc:
		return func(a, b domain.CatalogEntry) bool { return a.Rating.GreaterThan(b.Rating) }
	case SortRatingAsc:
		return func(a, b domain.CatalogEntry) bool { return a.Rating.LessThan(b.Rating) }
	case SortNewest:
		return func(a, b domain.CatalogEntry) bool { return establishedYear(a) > establishedYear(b) }
	case SortSpeed:
		// Locale collation on the label, not a duration parse. A Collator
		// keeps scratch buffers, so each projection gets its own.
		c := collate.New(language.Und)
		return func(a, b domain.CatalogEntry) bool {
			return c.CompareString(a.WithdrawalSpeed, b.WithdrawalSpeed) < 0
		}
	}
	return nil
}

func establishedYear(e domain.CatalogEntry) int {
	year, err := strconv.Atoi(strings.TrimSpace(e.Established))
	if err != nil {
		return 0
	}
	return year
}
