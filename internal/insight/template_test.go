package insight

import (
	"strings"
	"testing"

	"TradeInsight/internal/domain/models"
)

func TestRenderHeadlineHealthy(t *testing.T) {
	pack := BuildFactPack(baseRequest(), healthySnapshot(), okOutcome(2), false)
	headline, _ := RenderTemplate(pack)

	want := "BTC is edging higher at $50000.00 (+1.20% 24h); news flow skews bullish"
	if headline != want {
		t.Fatalf("headline = %q, want %q", headline, want)
	}
}

func TestRenderHeadlineNoPrice(t *testing.T) {
	pack := BuildFactPack(baseRequest(), models.PriceSnapshot{Source: "none"}, okOutcome(0), false)
	headline, _ := RenderTemplate(pack)

	if !strings.HasPrefix(headline, "BTC market data not available") {
		t.Fatalf("headline = %q", headline)
	}
	if !strings.Contains(headline, "no headlines available") {
		t.Fatalf("expected empty-news suffix in %q", headline)
	}
}

func TestRenderHeadlineNewsDisabled(t *testing.T) {
	req := baseRequest()
	req.NewsEnabled = false
	pack := BuildFactPack(req, healthySnapshot(), models.NewsOutcome{Status: models.NewsStatusDisabled}, false)
	headline, _ := RenderTemplate(pack)

	if strings.Contains(headline, "news flow") || strings.Contains(headline, "headlines") {
		t.Fatalf("disabled news leaked into headline: %q", headline)
	}
}

func TestRenderHeadlineRangeSuffix(t *testing.T) {
	snap := healthySnapshot()
	snap.RangePositionPct = fptr(90)
	pack := BuildFactPack(baseRequest(), snap, okOutcome(1), false)
	headline, _ := RenderTemplate(pack)

	if !strings.Contains(headline, ", near its 7-day high") {
		t.Fatalf("missing range suffix in %q", headline)
	}
}

func TestRenderHeadlineLiveDowngradePrefix(t *testing.T) {
	pack := BuildFactPack(baseRequest(), healthySnapshot(), okOutcome(1), true)
	headline, narrative := RenderTemplate(pack)

	if !strings.HasPrefix(headline, "LIVE downgraded to PAPER: ") {
		t.Fatalf("headline = %q", headline)
	}
	if !strings.Contains(narrative, "LIVE execution was requested but is disabled") {
		t.Fatalf("narrative missing downgrade note: %q", narrative)
	}
}

func TestNarrativeSideChangesOpening(t *testing.T) {
	buyReq := baseRequest()
	sellReq := baseRequest()
	sellReq.Side = models.SideSell

	snap := healthySnapshot()
	snap.Change24hPct = fptr(-4.0)

	buyPack := BuildFactPack(buyReq, snap, okOutcome(0), false)
	sellPack := BuildFactPack(sellReq, snap, okOutcome(0), false)

	_, buyNarrative := RenderTemplate(buyPack)
	_, sellNarrative := RenderTemplate(sellPack)

	if buyNarrative == sellNarrative {
		t.Fatalf("buy and sell narratives must differ")
	}
	if !strings.Contains(buyNarrative, "the drawdown is overdone") {
		t.Fatalf("buy narrative = %q", buyNarrative)
	}
	if !strings.Contains(sellNarrative, "selling adds to an already fast-moving decline") {
		t.Fatalf("sell narrative = %q", sellNarrative)
	}
}

func TestNarrativeNearLowPullback(t *testing.T) {
	snap := healthySnapshot()
	snap.Change24hPct = fptr(-1.0)
	snap.RangePositionPct = fptr(10)

	pack := BuildFactPack(baseRequest(), snap, okOutcome(0), false)
	_, narrative := RenderTemplate(pack)

	if !strings.Contains(narrative, "near the bottom of its weekly range") {
		t.Fatalf("narrative = %q", narrative)
	}
}

func TestNarrativeSmallOrderFeeSentence(t *testing.T) {
	req := baseRequest()
	req.NotionalUSD = 25
	pack := BuildFactPack(req, healthySnapshot(), okOutcome(0), false)
	_, narrative := RenderTemplate(pack)

	if !strings.Contains(narrative, "On a small $25.00 order") {
		t.Fatalf("missing fee sentence in %q", narrative)
	}
}

func TestNarrativeContrarianNote(t *testing.T) {
	outcome := okOutcome(0)
	outcome.Status = models.NewsStatusOK
	outcome.AssetItems = []models.HeadlineRecord{
		{Title: "Exchange hack drains funds", Sentiment: models.SentimentBearish},
		{Title: "Regulator opens probe", Sentiment: models.SentimentBearish},
	}
	outcome.ItemCount = 2

	pack := BuildFactPack(baseRequest(), healthySnapshot(), outcome, false)
	_, narrative := RenderTemplate(pack)

	if !strings.Contains(narrative, "News flow leans bearish with 0 bullish, 2 bearish and 0 neutral headlines") {
		t.Fatalf("narrative = %q", narrative)
	}
	if !strings.Contains(narrative, "runs against this BUY") {
		t.Fatalf("missing contrarian note in %q", narrative)
	}
}

func TestNarrativeVolatilitySentences(t *testing.T) {
	cases := []struct {
		atr  *float64
		want string
	}{
		{fptr(6.0), "Volatility is high"},
		{fptr(3.0), "Volatility is moderate"},
		{fptr(1.0), "Volatility is low"},
		{nil, "Volatility data is not available"},
	}
	for _, tc := range cases {
		snap := models.PriceSnapshot{Price: fptr(100)}
		snap.ATRVolatilityPct = tc.atr
		pack := BuildFactPack(baseRequest(), snap, okOutcome(0), false)
		_, narrative := RenderTemplate(pack)
		if !strings.Contains(narrative, tc.want) {
			t.Fatalf("atr %v: narrative %q missing %q", tc.atr, narrative, tc.want)
		}
	}
}
