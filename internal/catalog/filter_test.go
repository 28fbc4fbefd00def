package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapway/internal/domain"
	"zapway/pkg/errors"
)

func ids(entries []domain.CatalogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func ratings(entries []domain.CatalogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Rating.StringFixed(1)
	}
	return out
}

func allStates() []FilterState {
	var states []FilterState
	for _, search := range []string{"", "ro", "STAKE", "zzz"} {
		for _, cat := range Categories {
			for _, sk := range []SortKey{SortRatingDesc, SortRatingAsc, SortNewest, SortSpeed} {
				for mask := 0; mask < 8; mask++ {
					states = append(states, FilterState{
						Search:   search,
						Category: cat,
						Sort:     sk,
						Toggles: Toggles{
							VPNFriendly: mask&1 != 0,
							FiatOnramp:  mask&2 != 0,
							NoKYC:       mask&4 != 0,
						},
					})
				}
			}
		}
	}
	return states
}

func TestProject_SubsetAndIdempotent(t *testing.T) {
	seed := Seed()
	known := make(map[string]bool, len(seed))
	for _, e := range seed {
		known[e.ID] = true
	}

	for _, state := range allStates() {
		once := Project(seed, state)
		for _, e := range once {
			assert.True(t, known[e.ID], "fabricated row %q for %+v", e.ID, state)
		}
		twice := Project(once, state)
		assert.Equal(t, ids(once), ids(twice), "not idempotent for %+v", state)
	}
}

func TestProject_Deterministic(t *testing.T) {
	seed := Seed()
	for _, state := range allStates() {
		assert.Equal(t, ids(Project(seed, state)), ids(Project(seed, state)))
	}
}

func TestProject_DoesNotReorderInput(t *testing.T) {
	seed := Seed()
	before := ids(seed)

	Project(seed, FilterState{Sort: SortRatingAsc})

	assert.Equal(t, before, ids(seed))
}

func TestProject_RatingOrder(t *testing.T) {
	seed := Seed()

	desc := Project(seed, FilterState{Sort: SortRatingDesc})
	assert.Equal(t, []string{"9.8", "9.6", "9.2", "8.8", "8.5", "8.1"}, ratings(desc))

	asc := Project(seed, FilterState{Sort: SortRatingAsc})
	assert.Equal(t, []string{"8.1", "8.5", "8.8", "9.2", "9.6", "9.8"}, ratings(asc))
}

func TestProject_NewestIsStableOnTies(t *testing.T) {
	got := Project(Seed(), FilterState{Sort: SortNewest})

	// 2023 ties (duel, shuffle) and 2017 ties (stake, bcgame) keep catalog order.
	assert.Equal(t, []string{"duel", "shuffle", "rollbit", "roobet", "stake", "bcgame"}, ids(got))
}

func TestProject_NewestTreatsUnparseableYearAsZero(t *testing.T) {
	entries := []domain.CatalogEntry{
		{ID: "unknown", Name: "Unknown", Established: "n/a"},
		{ID: "old", Name: "Old", Established: "2001"},
	}

	got := Project(entries, FilterState{Sort: SortNewest})

	assert.Equal(t, []string{"old", "unknown"}, ids(got))
}

func TestProject_SpeedUsesLocaleCollation(t *testing.T) {
	got := Project(Seed(), FilterState{Sort: SortSpeed})

	// Symbols collate before letters, so "~1 Hour" lands ahead of "Instant".
	assert.Equal(t, []string{"stake", "bcgame", "rollbit", "shuffle", "roobet", "duel"}, ids(got))
}

func TestProject_SpeedCollationIgnoresCase(t *testing.T) {
	entries := []domain.CatalogEntry{
		{ID: "upper", WithdrawalSpeed: "Slow"},
		{ID: "lower", WithdrawalSpeed: "instant"},
	}

	got := Project(entries, FilterState{Sort: SortSpeed})

	assert.Equal(t, []string{"lower", "upper"}, ids(got))
}

func TestProject_Categories(t *testing.T) {
	seed := Seed()

	noKYC := Project(seed, FilterState{Category: CategoryNoKYC})
	require.Len(t, noKYC, 1)
	assert.Equal(t, "duel", noKYC[0].ID)
	assert.Equal(t, domain.KYCLevelNone, noKYC[0].KYCLevel)

	verified := Project(seed, FilterState{Category: CategoryVerified})
	assert.NotContains(t, ids(verified), "roobet")
	assert.Len(t, verified, 5)

	crypto := Project(seed, FilterState{Category: CategoryCrypto})
	assert.Len(t, crypto, 6)
}

func TestProject_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	seed := Seed()

	assert.Equal(t, []string{"rollbit", "roobet"}, ids(Project(seed, FilterState{Search: "RO"})))
	assert.Equal(t, []string{"bcgame"}, ids(Project(seed, FilterState{Search: "c.g"})))
	assert.Empty(t, Project(seed, FilterState{Search: "nothing-here"}))
}

func TestProject_TogglesAreConjunctive(t *testing.T) {
	seed := Seed()

	vpn := Project(seed, FilterState{Toggles: Toggles{VPNFriendly: true}})
	assert.Equal(t, []string{"duel", "bcgame"}, ids(vpn))

	vpnMobile := Project(seed, FilterState{Toggles: Toggles{VPNFriendly: true, MobileApp: true}})
	assert.Equal(t, []string{"bcgame"}, ids(vpnMobile))

	vpnNoKYC := Project(seed, FilterState{Toggles: Toggles{VPNFriendly: true, NoKYC: true}})
	assert.Equal(t, []string{"duel"}, ids(vpnNoKYC))

	none := Project(seed, FilterState{Category: CategoryVerified, Toggles: Toggles{MobileApp: true, NoKYC: true}})
	assert.Empty(t, none)
}

func TestParseFilterState(t *testing.T) {
	state, err := ParseFilterState(url.Values{
		"search":   {"stake"},
		"category": {"no_kyc"},
		"sort":     {"newest"},
		"vpn":      {"true"},
		"fiat":     {"1"},
		"p2p":      {"garbage"},
	})
	require.NoError(t, err)
	assert.Equal(t, "stake", state.Search)
	assert.Equal(t, CategoryNoKYC, state.Category)
	assert.Equal(t, SortNewest, state.Sort)
	assert.True(t, state.Toggles.VPNFriendly)
	assert.True(t, state.Toggles.FiatOnramp)
	assert.False(t, state.Toggles.P2PTransfer)

	defaults, err := ParseFilterState(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, CategoryAll, defaults.Category)
	assert.Equal(t, SortRatingDesc, defaults.Sort)

	_, err = ParseFilterState(url.Values{"category": {"SPORTS"}})
	assert.ErrorIs(t, err, errors.ErrInvalidCategory)

	_, err = ParseFilterState(url.Values{"sort": {"ALPHA"}})
	assert.ErrorIs(t, err, errors.ErrInvalidSortKey)
}

func TestFilterState_KeyNormalizes(t *testing.T) {
	a := FilterState{Search: "Stake"}
	b := FilterState{Search: "stake", Category: CategoryAll, Sort: SortRatingDesc}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), FilterState{Search: "stake", Toggles: Toggles{NoKYC: true}}.Key())
}
