package domain

import "github.com/shopspring/decimal"

// CasinoStatus is the review verdict attached to a catalog entry.
type CasinoStatus string

const (
	CasinoStatusVerified    CasinoStatus = "VERIFIED"
	CasinoStatusUnverified  CasinoStatus = "UNVERIFIED"
	CasinoStatusBlacklisted CasinoStatus = "BLACKLISTED"
)

// KYCLevel describes how much identity verification a casino demands.
type KYCLevel string

const (
	KYCLevelNone KYCLevel = "NONE"
	KYCLevelLow  KYCLevel = "LOW"
	KYCLevelHigh KYCLevel = "HIGH"
)

// SpecialRanking is an optional editorial badge.
type SpecialRanking string

const (
	RankingEternalCrown SpecialRanking = "ETERNAL CROWN"
	RankingEliteTier    SpecialRanking = "ELITE TIER"
	RankingVeteran      SpecialRanking = "VETERAN"
)

// CasinoFeatures are the boolean capability flags shown in the detail view.
type CasinoFeatures struct {
	VPNFriendly bool `json:"vpn_friendly"`
	FiatOnramp  bool `json:"fiat_onramp"`
	LiveChat    bool `json:"live_chat"`
	MobileApp   bool `json:"mobile_app"`
	P2PTransfer bool `json:"p2p_transfer"`
}

// CatalogEntry is a reviewed casino. Entries are read-only once loaded.
type CatalogEntry struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Website         string          `json:"website"`
	Logo            string          `json:"logo"`
	Rating          decimal.Decimal `json:"rating"`
	Status          CasinoStatus    `json:"status"`
	Bonus           string          `json:"bonus"`
	Established     string          `json:"established"`
	WithdrawalSpeed string          `json:"withdrawal_speed"`
	License         string          `json:"license"`
	Founder         string          `json:"founder"`
	CompanySize     string          `json:"company_size"`
	SpecialRanking  *SpecialRanking `json:"special_ranking,omitempty"`
	Tags            []string        `json:"tags"`
	Restricted      []string        `json:"restricted"`
	Chains          []string        `json:"chains"`
	Languages       []string        `json:"languages"`
	KYCLevel        KYCLevel        `json:"kyc_level"`
	Description     string          `json:"description"`
	Advisory        string          `json:"advisory"`
	ZeroEdge        bool            `json:"zero_edge"`
	Pros            []string        `json:"pros"`
	Cons            []string        `json:"cons"`
	Features        CasinoFeatures  `json:"features"`
}

// Clone returns a deep copy so callers cannot alias catalog slices.
func (e CatalogEntry) Clone() CatalogEntry {
	out := e
	out.Tags = append([]string(nil), e.Tags...)
	out.Restricted = append([]string(nil), e.Restricted...)
	out.Chains = append([]string(nil), e.Chains...)
	out.Languages = append([]string(nil), e.Languages...)
	out.Pros = append([]string(nil), e.Pros...)
	out.Cons = append([]string(nil), e.Cons...)
	if e.SpecialRanking != nil {
		r := *e.SpecialRanking
		out.SpecialRanking = &r
	}
	return out
}
