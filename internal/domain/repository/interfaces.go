package repository

import (
	"context"
	"time"

	"TradeInsight/internal/domain/models"
)

// NewsStore is the persisted headline store consumed by the news
// retrieval adapter.
type NewsStore interface {
	// QueryByTerms returns items tagged or matching any of the query
	// terms, published at or after cutoff, newest first, capped at limit.
	QueryByTerms(ctx context.Context, terms []string, cutoff time.Time, limit int) ([]models.NewsItem, error)
	// SourceHealth reports source-catalog counts used for empty-result
	// diagnostics.
	SourceHealth(ctx context.Context) (models.SourceHealth, error)
	// Insert stores a headline (used by the ingest path).
	Insert(ctx context.Context, item models.NewsItem) error
}

// CandleStore is the persisted hourly candle store.
type CandleStore interface {
	// LatestN returns up to n most-recent hourly candles for symbol,
	// ordered oldest first.
	LatestN(ctx context.Context, symbol string, n int) ([]models.Candle, error)
	// UpsertIfAbsent stores fallback-sourced candles, skipping buckets
	// that already exist.
	UpsertIfAbsent(ctx context.Context, candles []models.Candle) error
}

// PriceSource answers synchronous current-price lookups.
type PriceSource interface {
	// Current returns the latest known price for symbol and a source tag.
	Current(ctx context.Context, symbol string) (float64, string, error)
}

// CandleFallback is the public hourly-candle source used only when the
// local store has no history for the symbol.
type CandleFallback interface {
	Hourly(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error)
}

// Narrator is the generative-narrative provider behind the optional
// enhancement step.
type Narrator interface {
	// Available reports whether a narrative-generation credential is
	// configured. Computed once and memoized by implementations.
	Available() bool
	// Rewrite asks for a structured {headline, why_it_matters, key_facts}
	// rewrite of the drafted insight. Callers enforce the timeout.
	Rewrite(ctx context.Context, prompt string) (NarrativeDraft, error)
}

// NarrativeDraft is the structured output of a Narrator call.
type NarrativeDraft struct {
	Headline     string   `json:"headline"`
	WhyItMatters string   `json:"why_it_matters"`
	KeyFacts     []string `json:"key_facts"`
}

// MarketStream is a live ticker feed maintaining last prices.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Metrics records pipeline observability counters.
type Metrics interface {
	RecordInsight(outcome string)
	RecordDegraded(source string)
	RecordCache(hit bool)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
