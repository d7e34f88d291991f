package news

import "strings"

// Lexicon-based sentiment tagging. One label per headline; majority of
// lexicon hits wins, ties fall back to neutral.

var bullishTerms = []string{
	"surge", "surges", "surged", "soar", "soars", "soared",
	"rally", "rallies", "rallied", "jump", "jumps", "jumped",
	"gain", "gains", "climbs", "record high", "all-time high",
	"breakout", "bullish", "approval", "approves", "inflow", "inflows",
	"upgrade", "partnership", "adoption", "accumulation", "milestone",
}

var bearishTerms = []string{
	"drop", "drops", "dropped", "fall", "falls", "fell",
	"plunge", "plunges", "plunged", "crash", "crashes", "crashed",
	"dump", "selloff", "sell-off", "slump", "slides", "bearish",
	"hack", "exploit", "lawsuit", "ban", "bans", "outflow", "outflows",
	"downgrade", "liquidation", "liquidations", "fraud", "warning",
}

// driverGroups resolve the driver category: first matching group wins.
// Order matters; macro themes shadow narrower ones.
var driverGroups = []struct {
	label string
	terms []string
}{
	{"macro", []string{"fed", "inflation", "rate cut", "rate hike", "rates", "cpi", "macro", "treasury", "tariff", "recession"}},
	{"regulation", []string{"sec", "regulation", "regulator", "regulatory", "lawsuit", "ban", "legal", "congress", "legislation"}},
	{"etf", []string{"etf", "etfs", "fund", "blackrock", "fidelity", "inflow", "outflow", "grayscale"}},
	{"exchange", []string{"exchange", "binance", "coinbase", "kraken", "listing", "delist", "delisting"}},
	{"security", []string{"hack", "hacked", "exploit", "breach", "vulnerability", "stolen", "phishing"}},
	{"adoption", []string{"adoption", "partnership", "integration", "payment", "payments", "institutional", "merchant"}},
	{"on-chain", []string{"whale", "on-chain", "onchain", "staking", "wallet", "wallets", "supply", "miners"}},
}

// Annotation is the sentiment verdict for a single headline.
type Annotation struct {
	Sentiment  string
	Confidence float64
	Driver     string
	Rationale  string
}

// AnalyzeSentiment classifies one headline. The rationale is always a
// non-empty quote from the headline for non-empty input.
func AnalyzeSentiment(title string) Annotation {
	lower := strings.ToLower(title)

	bullHits, bullFirst := countHits(lower, bullishTerms)
	bearHits, bearFirst := countHits(lower, bearishTerms)

	ann := Annotation{Sentiment: "neutral"}

	var primary string
	tied := bullHits == bearHits && bullHits > 0
	switch {
	case bullHits > bearHits:
		ann.Sentiment = "bullish"
		ann.Confidence = confidenceFor(bullHits)
		primary = bullFirst
	case bearHits > bullHits:
		ann.Sentiment = "bearish"
		ann.Confidence = confidenceFor(bearHits)
		primary = bearFirst
	case tied:
		ann.Confidence = confidenceFor(bullHits)
		primary = bullFirst
	}

	switch driver := resolveDriver(lower); {
	case driver != "":
		ann.Driver = driver
	case tied:
		ann.Driver = "mixed"
	case primary != "":
		ann.Driver = primary
	default:
		// primary is empty only when neither lexicon matched
		ann.Driver = "none"
	}

	ann.Rationale = rationaleFor(title, primary)
	return ann
}

func confidenceFor(dominant int) float64 {
	c := float64(dominant) / 3.0
	if c > 1.0 {
		return 1.0
	}
	return c
}

// countHits counts lexicon terms present as substrings and returns the
// term occurring earliest in the title.
func countHits(lower string, terms []string) (int, string) {
	hits := 0
	first := ""
	firstPos := len(lower) + 1
	for _, term := range terms {
		pos := strings.Index(lower, term)
		if pos < 0 {
			continue
		}
		hits++
		if pos < firstPos {
			firstPos = pos
			first = term
		}
	}
	return hits, first
}

func resolveDriver(lower string) string {
	for _, group := range driverGroups {
		for _, term := range group.terms {
			if strings.Contains(lower, term) {
				return group.label
			}
		}
	}
	return ""
}

// rationaleFor quotes a window of up to 2 words before and 8 words
// after the first occurrence of the primary keyword. Windows shorter
// than 3 words, and headlines with no keyword, quote the first 10
// words instead.
func rationaleFor(title, primary string) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return ""
	}

	head := func() string {
		n := len(words)
		if n > 10 {
			n = 10
		}
		return strings.Join(words[:n], " ")
	}

	if primary == "" {
		return head()
	}

	keyword := strings.Fields(primary)[0]
	idx := -1
	for i, w := range words {
		if strings.Contains(strings.ToLower(w), keyword) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return head()
	}

	start := idx - 2
	if start < 0 {
		start = 0
	}
	end := idx + 9
	if end > len(words) {
		end = len(words)
	}
	window := words[start:end]
	if len(window) < 3 {
		return head()
	}
	return strings.Join(window, " ")
}
