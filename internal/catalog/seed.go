package catalog

import (
	"github.com/shopspring/decimal"

	"zapway/internal/domain"
)

func ranking(r domain.SpecialRanking) *domain.SpecialRanking {
	return &r
}

// Seed returns the compiled-in casino listings in editorial order.
func Seed() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{
			ID:              "duel",
			Name:            "Duel",
			Website:         "https://duel.com",
			Logo:            "https://files.catbox.moe/p4z3v7.jpg",
			Rating:          decimal.RequireFromString("9.8"),
			Status:          domain.CasinoStatusVerified,
			Bonus:           "50% Rakeback",
			Established:     "2023",
			WithdrawalSpeed: "Instant (L2)",
			License:         "Curaçao",
			Founder:         "Unknown (DAO)",
			CompanySize:     "50-100",
			SpecialRanking:  ranking(domain.RankingEternalCrown),
			Tags:            []string{"Zero Edge", "No KYC", "PVP"},
			Restricted:      []string{"USA", "France"},
			Chains:          []string{"BTC", "ETH", "LTC", "SOL"},
			Languages:       []string{"English", "Spanish", "Portuguese", "Japanese"},
			KYCLevel:        domain.KYCLevelNone,
			Description:     "The new standard for PVP gaming. Built on high-frequency L2 rails for instant settlement. Zero-edge original games and massive rakeback rewards.",
			Advisory:        "AUDIT PASSED 10/2025. Zero-Edge protocols verified on-chain.",
			ZeroEdge:        true,
			Pros:            []string{"Zero house edge on originals", "No KYC required for crypto", "Instant L2 settlements"},
			Cons:            []string{"Limited slot selection", "No sports betting"},
			Features:        domain.CasinoFeatures{VPNFriendly: true, FiatOnramp: true, LiveChat: true, MobileApp: false, P2PTransfer: true},
		},
		{
			ID:              "stake",
			Name:            "Stake",
			Website:         "https://stake.com",
			Logo:            "https://files.catbox.moe/klt24q.jpg",
			Rating:          decimal.RequireFromString("9.6"),
			Status:          domain.CasinoStatusVerified,
			Bonus:           "$1000 Monthly",
			Established:     "2017",
			WithdrawalSpeed: "< 10 Mins",
			License:         "Curaçao",
			Founder:         "Eddie Miroslav",
			CompanySize:     "500+",
			SpecialRanking:  ranking(domain.RankingEliteTier),
			Tags:            []string{"Sportsbook", "Originals", "High Limit"},
			Restricted:      []string{"USA", "UK", "Australia"},
			Chains:          []string{"BTC", "ETH", "LTC", "DOGE", "EOS"},
			Languages:       []string{"English", "German", "Spanish", "French", "Russian", "Portuguese"},
			KYCLevel:        domain.KYCLevelLow,
			Description:     "The industry titan. Unmatched liquidity, massive sports betting markets, and the original provably fair games that started the revolution.",
			Advisory:        "STABLE OPERATION. High liquidity reserves confirmed.",
			Pros:            []string{"Massive liquidity for high rollers", "Industry leading sports odds", "Top-tier VIP program"},
			Cons:            []string{"Strict KYC for large withdrawals", "Restricted in many regions"},
			Features:        domain.CasinoFeatures{VPNFriendly: false, FiatOnramp: true, LiveChat: true, MobileApp: false, P2PTransfer: true},
		},
		{
			ID:              "bcgame",
			Name:            "BC.GAME",
			Website:         "https://bc.game",
			Logo:            "https://files.catbox.moe/810c57.jpg",
			Rating:          decimal.RequireFromString("9.2"),
			Status:          domain.CasinoStatusVerified,
			Bonus:           "180% Deposit",
			Established:     "2017",
			WithdrawalSpeed: "~1 Hour",
			License:         "Curaçao",
			Founder:         "BlockDance B.V.",
			CompanySize:     "200-500",
			Tags:            []string{"Huge Community", "Rain", "DeFi"},
			Restricted:      []string{"USA", "China"},
			Chains:          []string{"BTC", "ETH", "BNB", "SOL", "TRX"},
			Languages:       []string{"English", "Chinese", "Spanish", "French", "German", "Japanese"},
			KYCLevel:        domain.KYCLevelLow,
			Description:     "A massive ecosystem of proprietary games and community features. BC.Game offers one of the most generous deposit match structures in the sector.",
			Advisory:        "BONUS TERMS: Wager requirements apply to unlocked BCD.",
			Pros:            []string{"Supports 50+ cryptocurrencies", "Huge community & chat rain", "Daily free spins"},
			Cons:            []string{"Complex bonus unlocking", "Cluttered interface"},
			Features:        domain.CasinoFeatures{VPNFriendly: true, FiatOnramp: true, LiveChat: true, MobileApp: true, P2PTransfer: true},
		},
		{
			ID:              "rollbit",
			Name:            "Rollbit",
			Website:         "https://rollbit.com",
			Logo:            "https://files.catbox.moe/wpp3nk.jpg",
			Rating:          decimal.RequireFromString("8.8"),
			Status:          domain.CasinoStatusVerified,
			Bonus:           "RLB Airdrop",
			Established:     "2020",
			WithdrawalSpeed: "Instant",
			License:         "Curaçao",
			Founder:         "Bull Gaming",
			CompanySize:     "50-200",
			Tags:            []string{"NFT", "Crypto Futures", "1000x"},
			Restricted:      []string{"USA", "UK"},
			Chains:          []string{"BTC", "ETH", "SOL", "LTC"},
			Languages:       []string{"English"},
			KYCLevel:        domain.KYCLevelLow,
			Description:     "A crypto-native powerhouse blending high-leverage trading, NFT loans, and casino games. High volatility, high reward.",
			Advisory:        "FUTURES RISK: 1000x leverage involves extreme liquidation risk.",
			Pros:            []string{"Crypto futures trading", "NFT marketplace", "Innovative features"},
			Cons:            []string{"Volatile native token", "Complex UI for beginners"},
			Features:        domain.CasinoFeatures{VPNFriendly: false, FiatOnramp: true, LiveChat: true, MobileApp: false, P2PTransfer: true},
		},
		{
			ID:              "shuffle",
			Name:            "Shuffle",
			Website:         "https://shuffle.com",
			Logo:            "https://files.catbox.moe/pkbfod.png",
			Rating:          decimal.RequireFromString("8.5"),
			Status:          domain.CasinoStatusVerified,
			Bonus:           "SHFL Airdrop",
			Established:     "2023",
			WithdrawalSpeed: "Instant",
			License:         "Curaçao",
			Founder:         "Noah",
			CompanySize:     "50-100",
			Tags:            []string{"Tokenized", "Airdrop"},
			Restricted:      []string{"USA"},
			Chains:          []string{"BTC", "ETH", "USDC", "TRX"},
			Languages:       []string{"English", "Japanese"},
			KYCLevel:        domain.KYCLevelLow,
			Description:     "Heavily integrated with its native SHFL token. Offers a sleek UI and aggressive rewards for active token holders.",
			Advisory:        "TOKEN VOLATILITY: SHFL price impacts effective rakeback value.",
			Pros:            []string{"Sleek modern design", "SHFL token utility", "Transparent team"},
			Cons:            []string{"Token price volatility", "Limited payment options"},
			Features:        domain.CasinoFeatures{VPNFriendly: false, FiatOnramp: true, LiveChat: true, MobileApp: false, P2PTransfer: true},
		},
		{
			ID:              "roobet",
			Name:            "Roobet",
			Website:         "https://roobet.com",
			Logo:            "https://files.catbox.moe/of4dut.jpg",
			Rating:          decimal.RequireFromString("8.1"),
			Status:          domain.CasinoStatusUnverified,
			Bonus:           "Snoop Dogg",
			Established:     "2019",
			WithdrawalSpeed: "Instant",
			License:         "Curaçao",
			Founder:         "Raw Entertainment",
			CompanySize:     "200-500",
			Tags:            []string{"Brand", "Slots"},
			Restricted:      []string{"USA", "UK"},
			Chains:          []string{"BTC", "ETH", "LTC"},
			Languages:       []string{"English", "Spanish", "Portuguese"},
			KYCLevel:        domain.KYCLevelHigh,
			Description:     "Famous for high-profile partnerships (Snoop Dogg, UFC). Extremely polished but has strict KYC and region blocking.",
			Advisory:        "GEO-RESTRICTION: Aggressive VPN detection active. Caution advised.",
			Pros:            []string{"High-profile partnerships", "Massive slot library", "Reliable payouts"},
			Cons:            []string{"Strict VPN detection", "Mandatory KYC"},
			Features:        domain.CasinoFeatures{VPNFriendly: false, FiatOnramp: true, LiveChat: true, MobileApp: false, P2PTransfer: false},
		},
	}
}
