// Package asset normalizes trade symbols, derives news query terms,
// and classifies assets into market tiers. Everything here is pure.
package asset

import "strings"

// Market tiers, most liquid first. TierUnknown is internal routing
// state only; it is never rendered into an Insight.
type Tier string

const (
	TierMajor        Tier = "MAJOR"
	TierL1Alt        Tier = "L1_ALT"
	TierL2Ecosystem  Tier = "L2_ECOSYSTEM"
	TierMemeSmallcap Tier = "MEME_SMALLCAP"
	TierUnknown      Tier = "UNKNOWN"
)

var canonicalNames = map[string]string{
	"BTC":   "Bitcoin",
	"ETH":   "Ethereum",
	"SOL":   "Solana",
	"ADA":   "Cardano",
	"AVAX":  "Avalanche",
	"DOT":   "Polkadot",
	"ATOM":  "Cosmos",
	"NEAR":  "NEAR Protocol",
	"ARB":   "Arbitrum",
	"OP":    "Optimism",
	"MATIC": "Polygon",
	"IMX":   "Immutable",
	"DOGE":  "Dogecoin",
	"SHIB":  "Shiba Inu",
	"PEPE":  "Pepe",
	"XRP":   "XRP",
	"LINK":  "Chainlink",
	"LTC":   "Litecoin",
}

var synonyms = map[string][]string{
	"BTC":  {"XBT"},
	"ETH":  {"Ether"},
	"DOGE": {"Doge"},
	"XRP":  {"Ripple"},
}

var tierMembers = map[Tier][]string{
	TierMajor:        {"BTC", "ETH"},
	TierL1Alt:        {"SOL", "ADA", "AVAX", "DOT", "ATOM", "NEAR", "XRP", "LTC"},
	TierL2Ecosystem:  {"ARB", "OP", "MATIC", "IMX", "LINK"},
	TierMemeSmallcap: {"DOGE", "SHIB", "PEPE", "WIF", "BONK", "FLOKI"},
}

// Normalize canonicalizes a raw symbol: trim, uppercase, strip a
// trailing "-USD" pair suffix. Idempotent.
func Normalize(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.TrimSuffix(s, "-USD")
	return s
}

// QueryTerms builds the ordered, case-insensitively deduplicated news
// query list for a symbol: the symbol itself, the -USD pair, the
// canonical name, and any known synonyms.
func QueryTerms(symbol string) []string {
	sym := Normalize(symbol)
	if sym == "" {
		return nil
	}

	candidates := []string{sym, sym + "-USD"}
	if name, ok := canonicalNames[sym]; ok {
		candidates = append(candidates, name)
	}
	candidates = append(candidates, synonyms[sym]...)

	seen := make(map[string]bool, len(candidates))
	terms := make([]string, 0, len(candidates))
	for _, c := range candidates {
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, c)
	}
	return terms
}

// Classify assigns a market tier via static membership sets. MAJOR is
// checked first so overlapping listings resolve to the stronger tier.
func Classify(symbol string) Tier {
	sym := Normalize(symbol)
	for _, tier := range []Tier{TierMajor, TierL1Alt, TierL2Ecosystem, TierMemeSmallcap} {
		for _, m := range tierMembers[tier] {
			if m == sym {
				return tier
			}
		}
	}
	return TierUnknown
}

// CanonicalName returns the display name for a symbol, or the symbol
// itself when no name is known.
func CanonicalName(symbol string) string {
	sym := Normalize(symbol)
	if name, ok := canonicalNames[sym]; ok {
		return name
	}
	return sym
}
