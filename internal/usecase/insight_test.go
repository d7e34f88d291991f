package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"TradeInsight/internal/domain/models"
	"TradeInsight/internal/insight"
	icache "TradeInsight/internal/service/cache"
)

func fptr(v float64) *float64 { return &v }

type marketStub struct {
	mu      sync.Mutex
	snap    models.PriceSnapshot
	calls   int
	symbols []string
	panics  bool
}

func (m *marketStub) Snapshot(_ context.Context, symbol string) models.PriceSnapshot {
	m.mu.Lock()
	m.calls++
	m.symbols = append(m.symbols, symbol)
	m.mu.Unlock()
	if m.panics {
		panic("snapshot exploded")
	}
	return m.snap
}

type newsStub struct {
	mu      sync.Mutex
	outcome models.NewsOutcome
	calls   int
}

func (n *newsStub) Retrieve(_ context.Context, _ string, _ int) models.NewsOutcome {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
	return n.outcome
}

type metricsStub struct {
	mu       sync.Mutex
	insights map[string]int
	degraded map[string]int
	hits     int
	misses   int
}

func newMetricsStub() *metricsStub {
	return &metricsStub{insights: make(map[string]int), degraded: make(map[string]int)}
}

func (m *metricsStub) RecordInsight(outcome string) {
	m.mu.Lock()
	m.insights[outcome]++
	m.mu.Unlock()
}

func (m *metricsStub) RecordDegraded(source string) {
	m.mu.Lock()
	m.degraded[source]++
	m.mu.Unlock()
}

func (m *metricsStub) RecordCache(hit bool) {
	m.mu.Lock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
	m.mu.Unlock()
}

func (m *metricsStub) RecordLastPrice(string, float64) {}
func (m *metricsStub) RecordLatency(string, float64)   {}

func healthyStubSnapshot() models.PriceSnapshot {
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

func okStubOutcome() models.NewsOutcome {
	return models.NewsOutcome{
		Queries:       []string{"BTC", "Bitcoin"},
		LookbackLabel: "24h",
		Sources:       []string{"wire"},
		Status:        models.NewsStatusOK,
		ItemCount:     2,
		AssetItems: []models.HeadlineRecord{
			{Title: "Bitcoin climbs on ETF inflows", Source: "wire", Sentiment: models.SentimentBullish},
			{Title: "Funding rates normalize", Source: "wire", Sentiment: models.SentimentNeutral},
		},
	}
}

func newEngine(market *marketStub, news *newsStub, metrics *metricsStub) *InsightEngine {
	cache := insight.NewCache(icache.NewTTLStore(), time.Minute)
	return NewInsightEngine(market, news, nil, cache, metrics, nil)
}

func engineRequest() models.TradeRequest {
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

func TestGenerateInsightHappyPath(t *testing.T) {
	market := &marketStub{snap: healthyStubSnapshot()}
	news := &newsStub{outcome: okStubOutcome()}
	metrics := newMetricsStub()
	engine := newEngine(market, news, metrics)

	ins := engine.GenerateInsight(context.Background(), engineRequest())

	if ins.Headline == "" || ins.WhyItMatters == "" {
		t.Fatalf("empty prose: %+v", ins)
	}
	if ins.GeneratedBy != models.GeneratedByTemplate {
		t.Fatalf("generated_by = %q, want template without an enhancer", ins.GeneratedBy)
	}
	if ins.RequestID != "req-1" {
		t.Fatalf("request id = %q", ins.RequestID)
	}
	if len(ins.Sources) != 1 || ins.Sources[0] != "wire" {
		t.Fatalf("sources = %v", ins.Sources)
	}
	if ins.NewsOutcome == nil || ins.NewsOutcome.Status != models.NewsStatusOK {
		t.Fatalf("news outcome = %+v", ins.NewsOutcome)
	}
	if metrics.insights[models.GeneratedByTemplate] != 1 {
		t.Fatalf("insight counter = %v", metrics.insights)
	}
}

func TestGenerateInsightDegradesOnSnapshotPanic(t *testing.T) {
	market := &marketStub{panics: true}
	news := &newsStub{outcome: okStubOutcome()}
	engine := newEngine(market, news, newMetricsStub())

	ins := engine.GenerateInsight(context.Background(), engineRequest())

	found := false
	for _, f := range ins.RiskFlags {
		if f == insight.FlagPriceUnavailable {
			found = true
		}
	}
	if !found {
		t.Fatalf("price_unavailable missing after snapshot panic: %v", ins.RiskFlags)
	}
	if ins.Headline == "" || ins.NewsOutcome.Status != models.NewsStatusOK {
		t.Fatalf("news path should survive a market panic: %+v", ins)
	}
}

type panickyPolisher struct{}

func (panickyPolisher) Enhance(context.Context, models.FactPack, models.Insight) models.Insight {
	panic("polish exploded")
}

func TestGenerateInsightFallsBackOnPipelinePanic(t *testing.T) {
	market := &marketStub{snap: healthyStubSnapshot()}
	news := &newsStub{outcome: okStubOutcome()}
	metrics := newMetricsStub()
	engine := NewInsightEngine(market, news, panickyPolisher{},
		insight.NewCache(icache.NewTTLStore(), time.Minute), metrics, nil)

	ins := engine.GenerateInsight(context.Background(), engineRequest())

	if ins.Headline != "Market insight unavailable" {
		t.Fatalf("headline = %q", ins.Headline)
	}
	if len(ins.RiskFlags) != 1 || ins.RiskFlags[0] != insight.FlagInsightUnavailable {
		t.Fatalf("risk flags = %v", ins.RiskFlags)
	}
	if ins.Confidence != 0 {
		t.Fatalf("confidence = %v", ins.Confidence)
	}
	if ins.RequestID != "req-1" {
		t.Fatalf("request id = %q", ins.RequestID)
	}
	if ins.KeyFacts == nil || ins.NewsOutcome == nil || ins.AssetNewsEvidence == nil {
		t.Fatalf("fallback insight broke the contract: %+v", ins)
	}
	if metrics.insights["fallback"] != 1 {
		t.Fatalf("insight counter = %v", metrics.insights)
	}
}

func TestGenerateInsightNewsDisabled(t *testing.T) {
	market := &marketStub{snap: healthyStubSnapshot()}
	news := &newsStub{outcome: okStubOutcome()}
	engine := newEngine(market, news, newMetricsStub())

	req := engineRequest()
	req.NewsEnabled = false
	ins := engine.GenerateInsight(context.Background(), req)

	if news.calls != 0 {
		t.Fatalf("retriever called %d times for a disabled request", news.calls)
	}
	if ins.NewsOutcome.Status != models.NewsStatusDisabled {
		t.Fatalf("news status = %q", ins.NewsOutcome.Status)
	}
	for _, f := range ins.RiskFlags {
		if f == insight.FlagNewsEmpty {
			t.Fatalf("news_empty raised for a disabled request: %v", ins.RiskFlags)
		}
	}
}

func TestGenerateInsightCacheHit(t *testing.T) {
	market := &marketStub{snap: healthyStubSnapshot()}
	news := &newsStub{outcome: okStubOutcome()}
	metrics := newMetricsStub()
	engine := newEngine(market, news, metrics)

	first := engine.GenerateInsight(context.Background(), engineRequest())

	req := engineRequest()
	req.RequestID = "req-2"
	second := engine.GenerateInsight(context.Background(), req)

	if market.calls != 1 || news.calls != 1 {
		t.Fatalf("upstreams re-queried on a cache hit: market=%d news=%d", market.calls, news.calls)
	}
	if second.RequestID != "req-2" {
		t.Fatalf("cached request id not rewritten: %q", second.RequestID)
	}
	if second.Headline != first.Headline || second.Confidence != first.Confidence {
		t.Fatalf("cached insight diverged from the original")
	}
	if metrics.hits != 1 || metrics.misses != 1 {
		t.Fatalf("cache counters: hits=%d misses=%d", metrics.hits, metrics.misses)
	}
}

func TestGenerateInsightCacheKeySeparatesRequests(t *testing.T) {
	market := &marketStub{snap: healthyStubSnapshot()}
	news := &newsStub{outcome: okStubOutcome()}
	engine := newEngine(market, news, newMetricsStub())

	engine.GenerateInsight(context.Background(), engineRequest())

	req := engineRequest()
	req.Side = models.SideSell
	engine.GenerateInsight(context.Background(), req)

	if market.calls != 2 {
		t.Fatalf("a SELL request must not hit the BUY cache slot, market calls = %d", market.calls)
	}
}

func TestGenerateInsightLiveDowngrade(t *testing.T) {
	market := &marketStub{snap: healthyStubSnapshot()}
	news := &newsStub{outcome: okStubOutcome()}
	engine := newEngine(market, news, newMetricsStub())

	req := engineRequest()
	req.Mode = models.ModeLive
	ins := engine.GenerateInsight(context.Background(), req)

	if !strings.HasPrefix(ins.Headline, "LIVE downgraded to PAPER: ") {
		t.Fatalf("headline = %q", ins.Headline)
	}
	found := false
	for _, f := range ins.RiskFlags {
		if f == insight.FlagLiveDisabled {
			found = true
		}
	}
	if !found {
		t.Fatalf("live_disabled missing from %v", ins.RiskFlags)
	}

	// A repeated LIVE request fingerprints to the same slot despite the
	// internal downgrade to PAPER.
	req.RequestID = "req-2"
	engine.GenerateInsight(context.Background(), req)
	if market.calls != 1 {
		t.Fatalf("repeated LIVE request missed the cache, market calls = %d", market.calls)
	}
}

func TestGenerateInsightFillsRequestDefaults(t *testing.T) {
	market := &marketStub{snap: healthyStubSnapshot()}
	news := &newsStub{outcome: okStubOutcome()}
	engine := newEngine(market, news, newMetricsStub())

	ins := engine.GenerateInsight(context.Background(), models.TradeRequest{
		Asset:       "btc",
		NotionalUSD: 100,
		NewsEnabled: true,
	})

	if ins.RequestID == "" {
		t.Fatalf("missing request id must be minted")
	}
	if len(market.symbols) != 1 || market.symbols[0] != "BTC" {
		t.Fatalf("asset not normalized before the snapshot: %v", market.symbols)
	}
	if !strings.Contains(ins.WhyItMatters, "A buy of BTC") {
		t.Fatalf("default side did not resolve to BUY: %q", ins.WhyItMatters)
	}
}
