package news

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"TradeInsight/internal/domain/models"
)

type stubNewsStore struct {
	assetItems  []models.NewsItem
	marketItems []models.NewsItem
	health      models.SourceHealth
	queryErr    error
	calls       int
}

func (s *stubNewsStore) QueryByTerms(_ context.Context, terms []string, _ time.Time, _ int) ([]models.NewsItem, error) {
	s.calls++
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	for _, term := range terms {
		if strings.Contains(strings.ToLower(term), "market") {
			return s.marketItems, nil
		}
	}
	return s.assetItems, nil
}

func (s *stubNewsStore) SourceHealth(context.Context) (models.SourceHealth, error) {
	return s.health, nil
}

func (s *stubNewsStore) Insert(context.Context, models.NewsItem) error { return nil }

func newsAt(title string, age time.Duration) models.NewsItem {
	return models.NewsItem{Title: title, Source: "wire", PublishedAt: time.Now().Add(-age)}
}

func TestRetrieveOK(t *testing.T) {
	store := &stubNewsStore{
		assetItems: []models.NewsItem{
			newsAt("Bitcoin surges to new all-time high", time.Hour),
			newsAt("Bitcoin surges to new all-time high", time.Hour), // duplicate
			newsAt("BTC steady ahead of data", 2*time.Hour),
		},
	}
	a := NewAdapter(store, nil, nil, time.Second)

	out := a.Retrieve(context.Background(), "BTC", 24)
	if out.Status != models.NewsStatusOK {
		t.Fatalf("status %s", out.Status)
	}
	if len(out.AssetItems) != 2 {
		t.Fatalf("dedupe failed: %d items", len(out.AssetItems))
	}
	if out.AssetItems[0].Sentiment == "" {
		t.Fatalf("headline not sentiment-tagged")
	}
	if out.LookbackLabel != "last 24h" {
		t.Fatalf("lookback label %q", out.LookbackLabel)
	}
	if out.FetchFailed {
		t.Fatalf("unexpected fetch-failed flag")
	}
}

func TestRetrieveEmptyFallsBackToMarket(t *testing.T) {
	store := &stubNewsStore{
		marketItems: []models.NewsItem{newsAt("Crypto market drifts lower", time.Hour)},
		health:      models.SourceHealth{EnabledSources: 3, TotalItems: 40},
	}
	a := NewAdapter(store, nil, nil, time.Second)

	out := a.Retrieve(context.Background(), "ZZZZ", 24)
	if out.Status != models.NewsStatusEmpty {
		t.Fatalf("status %s", out.Status)
	}
	if !strings.Contains(out.Reason, "ZZZZ") {
		t.Fatalf("reason must name the asset: %q", out.Reason)
	}
	if len(out.MarketItems) != 1 {
		t.Fatalf("expected market fallback items")
	}
	if out.MarketItems[0].Rationale != marketFallbackRationale {
		t.Fatalf("rationale %q", out.MarketItems[0].Rationale)
	}
}

func TestRetrieveEmptyNoSourcesDiagnostic(t *testing.T) {
	store := &stubNewsStore{health: models.SourceHealth{}}
	a := NewAdapter(store, nil, nil, time.Second)

	out := a.Retrieve(context.Background(), "SOL", 24)
	if !strings.Contains(out.Reason, "no news sources are enabled") {
		t.Fatalf("reason %q", out.Reason)
	}
}

func TestRetrieveStoreErrorNeverPropagates(t *testing.T) {
	store := &stubNewsStore{queryErr: errors.New("connection refused")}
	a := NewAdapter(store, nil, nil, time.Second)

	out := a.Retrieve(context.Background(), "BTC", 24)
	if !out.FetchFailed {
		t.Fatalf("expected fetch-failed flag")
	}
	if out.Status != models.NewsStatusError {
		t.Fatalf("status %s", out.Status)
	}
	if !strings.Contains(out.Reason, "news provider error") {
		t.Fatalf("reason %q", out.Reason)
	}
	if store.calls < 2 {
		t.Fatalf("market fallback should still be attempted, calls=%d", store.calls)
	}
}
