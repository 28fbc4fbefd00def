// Package navigation resolves page names to the page a caller may see.
package navigation

import "strings"

const (
	Home      = "Home"
	Dashboard = "Dashboard"
)

// Pages is every routable page name.
var Pages = []string{
	Home,
	Dashboard,
	"Casino Directory",
	"Bonus Offers",
	"Live RTP Tracker",
	"Bonus Calculator",
	"Certified Platforms",
	"Affiliate Program",
	"Review Methodology",
	"Provably Fair",
	"Protocol Deep Dive",
	"Tactical Guides",
	"Mines Game",
	"Plinko Game",
	"Analytics",
	"Profile",
	"Settings",
	"Messages",
	"Rewards",
	"Support",
	"FAQ",
	"About Us",
	"Terms of Service",
	"Privacy Policy",
	"Cookies Policy",
	"Responsible Gaming",
	"AML & CTF Policy",
	"Commercial Disclosure",
	"Copyright Notice",
}

var index = func() map[string]string {
	m := make(map[string]string, len(Pages))
	for _, p := range Pages {
		m[strings.ToLower(p)] = p
	}
	return m
}()

// Resolve maps a requested page to the one rendered. Anonymous callers
// always get Home; unknown names fall back to Dashboard.
func Resolve(page string, loggedIn bool) string {
	if !loggedIn {
		return Home
	}
	if p, ok := index[strings.ToLower(strings.TrimSpace(page))]; ok {
		return p
	}
	return Dashboard
}
