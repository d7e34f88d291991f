package insight

import (
	"fmt"

	"TradeInsight/internal/domain/models"
)

// keyFacts renders the ordered declarative fact list. Only present
// fields produce numbers; absent fields produce an explanatory
// sentence instead of a sentinel.
func keyFacts(pack models.FactPack) []string {
	facts := make([]string, 0, 9)
	asset := pack.Asset

	if pack.Price.Price != nil {
		facts = append(facts, fmt.Sprintf("%s trades at $%.2f.", asset, *pack.Price.Price))
	} else {
		facts = append(facts, fmt.Sprintf("Current %s price is not available because no price source responded.", asset))
	}

	if pack.Price.Change24hPct != nil {
		if pack.Price.Change7dPct != nil {
			facts = append(facts, fmt.Sprintf("24h move is %+.2f%% and the 7d move is %+.2f%%.", *pack.Price.Change24hPct, *pack.Price.Change7dPct))
		} else {
			facts = append(facts, fmt.Sprintf("24h move is %+.2f%%.", *pack.Price.Change24hPct))
		}
	} else {
		facts = append(facts, fmt.Sprintf("Recent %s trend is not available because candle history is insufficient.", asset))
	}

	if pack.Price.High7d != nil && pack.Price.Low7d != nil && pack.RangeLabel != nil {
		facts = append(facts, fmt.Sprintf("Price sits %s within the 7-day band of $%.2f to $%.2f.",
			rangePhrase(*pack.RangeLabel), *pack.Price.Low7d, *pack.Price.High7d))
	}

	if pack.VolatilityTier != nil {
		facts = append(facts, fmt.Sprintf("Volatility over the trailing week is %s.", volatilityPhrase(*pack.VolatilityTier)))
	} else {
		facts = append(facts, fmt.Sprintf("Volatility for %s is not available because there is no candle history.", asset))
	}

	facts = append(facts, fmt.Sprintf("Proposed %s order size is $%.2f.", pack.Side, pack.NotionalUSD))

	if pack.NotionalUSD < 50 {
		facts = append(facts, fmt.Sprintf("Estimated taker fee is $%.2f, %.2f%% of the order.", pack.FeeUSD, pack.FeeImpactPct))
	} else {
		facts = append(facts, fmt.Sprintf("Estimated taker fee is $%.2f.", pack.FeeUSD))
	}

	if pack.NewsEnabled {
		if n := len(pack.Headlines); n > 0 {
			facts = append(facts, fmt.Sprintf("%d recent %s headlines were considered.", n, asset))
		} else {
			facts = append(facts, fmt.Sprintf("No recent %s headlines were found in the window.", asset))
		}
	}

	if pack.LiveDowngraded {
		facts = append(facts, "Execution mode is PAPER; the LIVE request was downgraded because live trading is disabled.")
	} else {
		facts = append(facts, fmt.Sprintf("Execution mode is %s.", pack.Mode))
	}

	return facts
}

func rangePhrase(label string) string {
	switch label {
	case models.RangeNearHigh:
		return "near the top"
	case models.RangeNearLow:
		return "near the bottom"
	default:
		return "mid-range"
	}
}

func volatilityPhrase(tier string) string {
	switch tier {
	case models.VolatilityHigh:
		return "high"
	case models.VolatilityModerate:
		return "moderate"
	default:
		return "low"
	}
}
