package insight

import (
	"strings"
	"testing"

	"TradeInsight/internal/domain/models"
)

func fptr(v float64) *float64 { return &v }

func baseRequest() models.TradeRequest {
	return models.TradeRequest{
		Asset:         "BTC",
		Side:          models.SideBuy,
		NotionalUSD:   500,
		Mode:          models.ModePaper,
		NewsEnabled:   true,
		LookbackHours: 24,
		RequestID:     "req-1",
	}
}

func healthySnapshot() models.PriceSnapshot {
	return models.PriceSnapshot{
		Price:            fptr(50000),
		Change24hPct:     fptr(1.2),
		Change7dPct:      fptr(4.0),
		High7d:           fptr(52000),
		Low7d:            fptr(48000),
		RangePositionPct: fptr(50),
		ATRVolatilityPct: fptr(1.5),
		Source:           "live_feed",
	}
}

func okOutcome(headlines int) models.NewsOutcome {
	items := make([]models.HeadlineRecord, 0, headlines)
	for i := 0; i < headlines; i++ {
		items = append(items, models.HeadlineRecord{
			Title:     "Bitcoin climbs on ETF inflows",
			Source:    "wire",
			Sentiment: models.SentimentBullish,
		})
	}
	status := models.NewsStatusOK
	if headlines == 0 {
		status = models.NewsStatusEmpty
	}
	return models.NewsOutcome{
		Status:     status,
		AssetItems: items,
		ItemCount:  headlines,
	}
}

func TestConfidenceFullyDegraded(t *testing.T) {
	req := baseRequest()
	pack := BuildFactPack(req, models.PriceSnapshot{Source: "none"}, okOutcome(0), false)

	if pack.Confidence != 0 {
		t.Fatalf("expected confidence 0 for missing price with empty enabled news, got %v", pack.Confidence)
	}
}

func TestConfidenceHealthyPath(t *testing.T) {
	pack := BuildFactPack(baseRequest(), healthySnapshot(), okOutcome(3), false)

	// 0.35 base + 0.15 price/change + 0.10 tier + 0.10 headlines
	want := 0.70
	if pack.Confidence < want-1e-9 || pack.Confidence > want+1e-9 {
		t.Fatalf("confidence = %v, want %v", pack.Confidence, want)
	}
}

func TestVolatilityTierFrom24hChange(t *testing.T) {
	cases := []struct {
		chg  float64
		want string
	}{
		{7.0, models.VolatilityHigh},
		{2.5, models.VolatilityModerate},
		{0.5, models.VolatilityLow},
		{-7.0, models.VolatilityHigh},
	}
	for _, tc := range cases {
		snap := models.PriceSnapshot{Price: fptr(100), Change24hPct: fptr(tc.chg)}
		pack := BuildFactPack(baseRequest(), snap, okOutcome(1), false)
		if pack.VolatilityTier == nil || *pack.VolatilityTier != tc.want {
			t.Fatalf("chg %v: tier = %v, want %s", tc.chg, pack.VolatilityTier, tc.want)
		}
	}
}

func TestVolatilityTierPrefersATR(t *testing.T) {
	snap := models.PriceSnapshot{
		Price:            fptr(100),
		Change24hPct:     fptr(1.0),
		ATRVolatilityPct: fptr(6.0),
	}
	pack := BuildFactPack(baseRequest(), snap, okOutcome(0), false)

	if pack.VolatilityTier == nil || *pack.VolatilityTier != models.VolatilityHigh {
		t.Fatalf("tier = %v, want HIGH from ATR", pack.VolatilityTier)
	}
	// high_volatility keys off the 24h move, which is small here
	for _, f := range pack.RiskFlags {
		if f == FlagHighVolatility {
			t.Fatalf("high_volatility flag should not fire on a 1%% 24h move")
		}
	}
}

func TestHighVolatilityFlag(t *testing.T) {
	snap := models.PriceSnapshot{Price: fptr(100), Change24hPct: fptr(7.0)}
	pack := BuildFactPack(baseRequest(), snap, okOutcome(1), false)

	if !hasFlag(pack.RiskFlags, FlagHighVolatility) {
		t.Fatalf("expected high_volatility in %v", pack.RiskFlags)
	}
}

func TestRiskFlagsDegradedRequest(t *testing.T) {
	req := baseRequest()
	req.NotionalUSD = 5
	outcome := okOutcome(0)
	outcome.FetchFailed = true
	pack := BuildFactPack(req, models.PriceSnapshot{Source: "none"}, outcome, true)

	for _, want := range []string{
		FlagThinNotional, FlagNewsEmpty, FlagPriceUnavailable,
		FlagLiveDisabled, FlagNoCandleData, FlagHeadlinesFetchFailed,
	} {
		if !hasFlag(pack.RiskFlags, want) {
			t.Fatalf("missing flag %s in %v", want, pack.RiskFlags)
		}
	}
}

func TestNewsDisabledSuppressesNewsFlags(t *testing.T) {
	req := baseRequest()
	req.NewsEnabled = false
	pack := BuildFactPack(req, healthySnapshot(), models.NewsOutcome{Status: models.NewsStatusDisabled}, false)

	if hasFlag(pack.RiskFlags, FlagNewsEmpty) {
		t.Fatalf("news_empty must not fire when news is disabled")
	}
}

func TestFeeComputation(t *testing.T) {
	req := baseRequest()
	req.NotionalUSD = 100
	pack := BuildFactPack(req, healthySnapshot(), okOutcome(0), false)

	if pack.FeeUSD != 0.6 {
		t.Fatalf("fee = %v, want 0.6", pack.FeeUSD)
	}
	if pack.FeeImpactPct < 0.599 || pack.FeeImpactPct > 0.601 {
		t.Fatalf("fee impact = %v, want 0.6", pack.FeeImpactPct)
	}
}

func TestRangeLabels(t *testing.T) {
	cases := []struct {
		pos  float64
		want string
	}{
		{85, models.RangeNearHigh},
		{80, models.RangeNearHigh},
		{20, models.RangeNearLow},
		{15, models.RangeNearLow},
		{50, models.RangeMid},
	}
	for _, tc := range cases {
		snap := healthySnapshot()
		snap.RangePositionPct = fptr(tc.pos)
		pack := BuildFactPack(baseRequest(), snap, okOutcome(0), false)
		if pack.RangeLabel == nil || *pack.RangeLabel != tc.want {
			t.Fatalf("pos %v: label = %v, want %s", tc.pos, pack.RangeLabel, tc.want)
		}
	}
}

func TestDataQualityReasonsNameAsset(t *testing.T) {
	req := baseRequest()
	req.Asset = "DOGE"
	pack := BuildFactPack(req, models.PriceSnapshot{Source: "none"}, okOutcome(0), false)

	named := 0
	for _, check := range pack.DataQuality {
		if check.Failed && strings.Contains(check.Reason, "DOGE") {
			named++
		}
	}
	if named < 2 {
		t.Fatalf("expected failed checks to name the asset, got %+v", pack.DataQuality)
	}
}

func TestStaleHeadlinesCheck(t *testing.T) {
	outcome := okOutcome(2)
	outcome.FreshestAgeHours = fptr(20)
	pack := BuildFactPack(baseRequest(), healthySnapshot(), outcome, false)

	found := false
	for _, check := range pack.DataQuality {
		if check.Check == "stale_data" {
			found = true
			if !check.Failed {
				t.Fatalf("stale_data should fail when freshest headline is 20h old in a 24h window")
			}
		}
	}
	if !found {
		t.Fatalf("stale_data check missing from %+v", pack.DataQuality)
	}
}

func TestBuildFactPackDeterministic(t *testing.T) {
	a := BuildFactPack(baseRequest(), healthySnapshot(), okOutcome(2), false)
	b := BuildFactPack(baseRequest(), healthySnapshot(), okOutcome(2), false)

	if a.Confidence != b.Confidence || len(a.KeyFacts) != len(b.KeyFacts) {
		t.Fatalf("same inputs produced different packs")
	}
	for i := range a.KeyFacts {
		if a.KeyFacts[i] != b.KeyFacts[i] {
			t.Fatalf("key fact %d differs: %q vs %q", i, a.KeyFacts[i], b.KeyFacts[i])
		}
	}
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}
