package insight

import (
	"fmt"
	"strings"

	"TradeInsight/internal/domain/models"
)

// RenderTemplate produces the deterministic headline and narrative
// from a fact pack. No model call; every branch is a pure function of
// the pack.
func RenderTemplate(pack models.FactPack) (string, string) {
	return renderHeadline(pack), renderNarrative(pack)
}

func renderHeadline(pack models.FactPack) string {
	var b strings.Builder
	if pack.LiveDowngraded {
		b.WriteString("LIVE downgraded to PAPER: ")
	}
	b.WriteString(trendPhrase(pack))

	if pack.RangeLabel != nil {
		switch *pack.RangeLabel {
		case models.RangeNearHigh:
			b.WriteString(", near its 7-day high")
		case models.RangeNearLow:
			b.WriteString(", near its 7-day low")
		}
	}

	if pack.NewsEnabled {
		if len(pack.Headlines) > 0 {
			b.WriteString("; news flow skews " + dominantSentiment(pack.Headlines))
		} else {
			b.WriteString("; no headlines available")
		}
	}
	return b.String()
}

func trendPhrase(pack models.FactPack) string {
	price := pack.Price.Price
	chg := pack.Price.Change24hPct
	switch {
	case price != nil && chg != nil:
		return fmt.Sprintf("%s %s at $%.2f (%+.2f%% 24h)", pack.Asset, trendVerb(*chg), *price, *chg)
	case price != nil:
		return fmt.Sprintf("%s trades at $%.2f with no recent trend data", pack.Asset, *price)
	default:
		return fmt.Sprintf("%s market data not available", pack.Asset)
	}
}

func trendVerb(chg float64) string {
	switch {
	case chg >= 3:
		return "is surging"
	case chg > 0.5:
		return "is edging higher"
	case chg <= -3:
		return "is selling off"
	case chg < -0.5:
		return "is drifting lower"
	default:
		return "is trading flat"
	}
}

// openingRule is one row of the narrative decision table. Rows are
// evaluated in order; the first match supplies the opening sentence
// for the trade side.
type openingRule struct {
	match func(chg float64, hasChg bool, rangeLabel string) bool
	buy   func(asset string) string
	sell  func(asset string) string
}

var openingRules = []openingRule{
	{
		match: func(chg float64, hasChg bool, rangeLabel string) bool {
			return rangeLabel == models.RangeNearLow && hasChg && chg < 0
		},
		buy: func(a string) string {
			return fmt.Sprintf("Buying %s near the bottom of its weekly range during a pullback can offer a better entry, though the slide may continue.", a)
		},
		sell: func(a string) string {
			return fmt.Sprintf("Selling %s near the bottom of its weekly range locks in weakness; the price is already depressed for the week.", a)
		},
	},
	{
		match: func(chg float64, hasChg bool, rangeLabel string) bool {
			return rangeLabel == models.RangeNearHigh && hasChg && chg > 0
		},
		buy: func(a string) string {
			return fmt.Sprintf("Buying %s near the top of its weekly range chases strength; late entries risk a reversion.", a)
		},
		sell: func(a string) string {
			return fmt.Sprintf("Selling %s near the top of its weekly range captures recent strength while the price is elevated.", a)
		},
	},
	{
		match: func(chg float64, hasChg bool, _ string) bool { return hasChg && chg < -3 },
		buy: func(a string) string {
			return fmt.Sprintf("%s is down sharply over the last day; a buy here is a bet that the drawdown is overdone.", a)
		},
		sell: func(a string) string {
			return fmt.Sprintf("%s is down sharply over the last day; selling adds to an already fast-moving decline.", a)
		},
	},
	{
		match: func(chg float64, hasChg bool, _ string) bool { return hasChg && chg > 3 },
		buy: func(a string) string {
			return fmt.Sprintf("%s is up sharply over the last day; momentum entries can work but the move is extended.", a)
		},
		sell: func(a string) string {
			return fmt.Sprintf("%s is up sharply over the last day, so a sell takes profit into strength.", a)
		},
	},
	{
		match: func(float64, bool, string) bool { return true },
		buy: func(a string) string {
			return fmt.Sprintf("A buy of %s at current levels is a neutral entry given the quiet tape.", a)
		},
		sell: func(a string) string {
			return fmt.Sprintf("A sell of %s at current levels trims exposure without chasing a move.", a)
		},
	},
}

func renderNarrative(pack models.FactPack) string {
	sentences := make([]string, 0, 5)

	sentences = append(sentences, openingSentence(pack))

	if pack.NotionalUSD < 50 {
		sentences = append(sentences, fmt.Sprintf(
			"On a small $%.2f order the fixed taker fee is a meaningful drag at %.2f%% of notional.",
			pack.NotionalUSD, pack.FeeImpactPct))
	}

	if sentence := headlineSentence(pack); sentence != "" {
		sentences = append(sentences, sentence)
	}

	sentences = append(sentences, volatilitySentence(pack))

	if pack.LiveDowngraded {
		sentences = append(sentences, "LIVE execution was requested but is disabled; this insight assumes PAPER execution.")
	}

	return strings.Join(sentences, " ")
}

func openingSentence(pack models.FactPack) string {
	chg := 0.0
	hasChg := pack.Price.Change24hPct != nil
	if hasChg {
		chg = *pack.Price.Change24hPct
	}
	rangeLbl := ""
	if pack.RangeLabel != nil {
		rangeLbl = *pack.RangeLabel
	}

	for _, rule := range openingRules {
		if !rule.match(chg, hasChg, rangeLbl) {
			continue
		}
		if pack.Side == models.SideSell {
			return rule.sell(pack.Asset)
		}
		return rule.buy(pack.Asset)
	}
	return ""
}

func headlineSentence(pack models.FactPack) string {
	if len(pack.Headlines) == 0 {
		return ""
	}

	bull, bear, neutral := sentimentCounts(pack.Headlines)
	dominant := dominantSentiment(pack.Headlines)
	sentence := fmt.Sprintf("News flow leans %s with %d bullish, %d bearish and %d neutral headlines; the top story is %q.",
		dominant, bull, bear, neutral, pack.Headlines[0].Title)

	if (pack.Side == models.SideBuy && dominant == models.SentimentBearish) ||
		(pack.Side == models.SideSell && dominant == models.SentimentBullish) {
		sentence += fmt.Sprintf(" Note that the dominant news sentiment runs against this %s.", pack.Side)
	}
	return sentence
}

func volatilitySentence(pack models.FactPack) string {
	if pack.VolatilityTier == nil {
		return "Volatility data is not available, so sizing should assume wider swings than usual."
	}
	switch *pack.VolatilityTier {
	case models.VolatilityHigh:
		return "Volatility is high; expect fast moves in both directions and size accordingly."
	case models.VolatilityModerate:
		return "Volatility is moderate; swings are normal for this market."
	default:
		return "Volatility is low; the market has been comparatively calm this week."
	}
}

func sentimentCounts(records []models.HeadlineRecord) (bull, bear, neutral int) {
	for _, rec := range records {
		switch rec.Sentiment {
		case models.SentimentBullish:
			bull++
		case models.SentimentBearish:
			bear++
		default:
			neutral++
		}
	}
	return bull, bear, neutral
}

func dominantSentiment(records []models.HeadlineRecord) string {
	bull, bear, _ := sentimentCounts(records)
	switch {
	case bull > bear:
		return models.SentimentBullish
	case bear > bull:
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}
