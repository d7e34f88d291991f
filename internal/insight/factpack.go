// Package insight turns a trade request plus market and news signals
// into a deterministic fact pack, renders it to prose, optionally
// polishes the prose with a generative model, and guarantees a fixed
// output contract on every path.
package insight

import (
	"fmt"

	"TradeInsight/internal/domain/models"
)

// takerFeeRate is the fixed execution cost applied to notional.
const takerFeeRate = 0.006

// Risk flag names. Each flag is a pure function of fact pack fields.
const (
	FlagHighVolatility       = "high_volatility"
	FlagThinNotional         = "thin_notional"
	FlagNewsEmpty            = "news_empty"
	FlagPriceUnavailable     = "price_unavailable"
	FlagLiveDisabled         = "live_disabled"
	FlagHighFeeImpact        = "high_fee_impact"
	FlagNoCandleData         = "no_candle_data"
	FlagHeadlinesFetchFailed = "headlines_fetch_failed"
	FlagInsightUnavailable   = "insight_unavailable"
)

// BuildFactPack aggregates all signals into one immutable record.
// Pure: same inputs, same pack.
func BuildFactPack(req models.TradeRequest, snap models.PriceSnapshot, outcome models.NewsOutcome, liveDowngraded bool) models.FactPack {
	pack := models.FactPack{
		Asset:           req.Asset,
		Side:            req.Side,
		Mode:            req.Mode,
		NotionalUSD:     req.NotionalUSD,
		NewsEnabled:     req.NewsEnabled,
		LookbackHours:   req.LookbackHours,
		Price:           snap,
		Headlines:       outcome.AssetItems,
		MarketHeadlines: outcome.MarketItems,
		News:            outcome,
		LiveDowngraded:  liveDowngraded,
	}

	pack.VolatilityTier = volatilityTier(snap)
	pack.RangeLabel = rangeLabel(snap)
	pack.FeeUSD = req.NotionalUSD * takerFeeRate
	if req.NotionalUSD > 0 {
		pack.FeeImpactPct = pack.FeeUSD / req.NotionalUSD * 100
	}

	pack.RiskFlags = riskFlags(pack)
	pack.Confidence = confidence(pack)
	pack.DataQuality = dataQuality(pack)
	pack.KeyFacts = keyFacts(pack)
	return pack
}

// volatilityTier prefers ATR%, falling back to the absolute 24h move.
func volatilityTier(snap models.PriceSnapshot) *string {
	var magnitude float64
	switch {
	case snap.ATRVolatilityPct != nil:
		magnitude = *snap.ATRVolatilityPct
	case snap.Change24hPct != nil:
		magnitude = abs(*snap.Change24hPct)
	default:
		return nil
	}

	tier := models.VolatilityLow
	if magnitude > 5 {
		tier = models.VolatilityHigh
	} else if magnitude > 2 {
		tier = models.VolatilityModerate
	}
	return &tier
}

func rangeLabel(snap models.PriceSnapshot) *string {
	if snap.RangePositionPct == nil {
		return nil
	}
	label := models.RangeMid
	switch {
	case *snap.RangePositionPct >= 80:
		label = models.RangeNearHigh
	case *snap.RangePositionPct <= 20:
		label = models.RangeNearLow
	}
	return &label
}

// riskFlags evaluates each condition independently, in a fixed order.
func riskFlags(pack models.FactPack) []string {
	flags := make([]string, 0, 4)
	if pack.Price.Change24hPct != nil && abs(*pack.Price.Change24hPct) > 5 {
		flags = append(flags, FlagHighVolatility)
	}
	if pack.NotionalUSD < 10 {
		flags = append(flags, FlagThinNotional)
	}
	if pack.NewsEnabled && len(pack.Headlines) == 0 {
		flags = append(flags, FlagNewsEmpty)
	}
	if pack.Price.Price == nil {
		flags = append(flags, FlagPriceUnavailable)
	}
	if pack.LiveDowngraded {
		flags = append(flags, FlagLiveDisabled)
	}
	if pack.FeeImpactPct > 1 && pack.NotionalUSD < 50 {
		flags = append(flags, FlagHighFeeImpact)
	}
	if pack.Price.Change24hPct == nil {
		flags = append(flags, FlagNoCandleData)
	}
	if pack.News.FetchFailed {
		flags = append(flags, FlagHeadlinesFetchFailed)
	}
	return flags
}

// confidence is additive/subtractive from a 0.35 base, clamped to [0,1].
func confidence(pack models.FactPack) float64 {
	c := 0.35
	if pack.Price.Price != nil && pack.Price.Change24hPct != nil {
		c += 0.15
	}
	if pack.VolatilityTier != nil {
		c += 0.10
	}
	if len(pack.Headlines) >= 2 {
		c += 0.10
	}
	if pack.NewsEnabled && len(pack.Headlines) == 0 {
		c -= 0.20
	}
	if pack.Price.Price == nil {
		c -= 0.20
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func dataQuality(pack models.FactPack) []models.QualityCheck {
	asset := pack.Asset
	checks := []models.QualityCheck{
		{Check: "missing_price"},
		{Check: "missing_change"},
		{Check: "missing_headlines"},
		{Check: "stale_data"},
		{Check: "headlines_fetch_failed"},
	}

	if pack.Price.Price == nil {
		checks[0].Failed = true
		checks[0].Reason = fmt.Sprintf("no current price for %s: price source unavailable", asset)
	}
	if pack.Price.Change24hPct == nil {
		checks[1].Failed = true
		checks[1].Reason = fmt.Sprintf("no 24h change for %s: insufficient candle history", asset)
	}
	if pack.NewsEnabled && len(pack.Headlines) == 0 {
		checks[2].Failed = true
		reason := pack.News.Reason
		if reason == "" {
			reason = fmt.Sprintf("no recent headlines matched %s", asset)
		}
		checks[2].Reason = reason
	}
	if stale, newest := staleHeadlines(pack); stale {
		checks[3].Failed = true
		checks[3].Reason = fmt.Sprintf("freshest %s headline is %s old, over half the lookback window", asset, newest)
	}
	if pack.News.FetchFailed {
		checks[4].Failed = true
		checks[4].Reason = fmt.Sprintf("headline fetch for %s failed: provider error", asset)
	}
	return checks
}

// staleHeadlines reports whether the freshest asset headline is older
// than half the lookback window.
func staleHeadlines(pack models.FactPack) (bool, string) {
	if !pack.NewsEnabled || len(pack.Headlines) == 0 || pack.News.FreshestAgeHours == nil {
		return false, ""
	}
	half := float64(pack.LookbackHours) / 2
	if half <= 0 || *pack.News.FreshestAgeHours <= half {
		return false, ""
	}
	return true, fmt.Sprintf("%.0fh", *pack.News.FreshestAgeHours)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
