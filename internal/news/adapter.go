package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TradeInsight/internal/asset"
	"TradeInsight/internal/domain/models"
	"TradeInsight/internal/domain/repository"
	applogger "TradeInsight/pkg/logger"
	"TradeInsight/pkg/util"
)

const (
	// headlineLimit caps ranked headline lists before rendering.
	headlineLimit = 5
	// storeFetchCap bounds how many raw items one query pulls.
	storeFetchCap = 50

	marketFallbackRationale = "broad market headline used as context"
)

// marketFallbackTerms select category-level queries when no
// asset-specific coverage exists.
var marketFallbackTerms = map[asset.Tier][]string{
	asset.TierMajor:        {"crypto market", "bitcoin", "macro"},
	asset.TierL1Alt:        {"altcoin", "layer 1", "crypto market"},
	asset.TierL2Ecosystem:  {"layer 2", "scaling", "ethereum"},
	asset.TierMemeSmallcap: {"memecoin", "altcoin", "crypto market"},
	asset.TierUnknown:      {"crypto market", "markets"},
}

// Adapter retrieves and tags asset headlines from the news store,
// degrading to market-level fallback queries with diagnostics when the
// asset query comes back empty or the store fails. It never returns an
// error; every failure mode is folded into the NewsOutcome.
type Adapter struct {
	store   repository.NewsStore
	metrics repository.Metrics
	log     *applogger.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewAdapter(store repository.NewsStore, metrics repository.Metrics, log *applogger.Logger, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Adapter{store: store, metrics: metrics, log: log, timeout: timeout, now: time.Now}
}

// WithClock overrides the adapter clock, for tests.
func (a *Adapter) WithClock(now func() time.Time) *Adapter {
	a.now = now
	return a
}

// Retrieve runs the asset query and, if needed, the market fallback.
func (a *Adapter) Retrieve(ctx context.Context, symbol string, lookbackHours int) models.NewsOutcome {
	terms := asset.QueryTerms(symbol)
	now := a.now()
	cutoff := now.Add(-time.Duration(lookbackHours) * time.Hour)

	outcome := models.NewsOutcome{
		Queries:       terms,
		LookbackLabel: fmt.Sprintf("last %dh", lookbackHours),
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	items, err := a.store.QueryByTerms(fetchCtx, terms, cutoff, storeFetchCap)
	if err != nil {
		if a.log != nil {
			a.log.Warn("news store query failed",
				applogger.String("asset", symbol),
				applogger.Error(err),
			)
		}
		if a.metrics != nil {
			a.metrics.RecordDegraded("news_store")
		}
		outcome.FetchFailed = true
		outcome.Status = models.NewsStatusError
		outcome.Reason = fmt.Sprintf("news provider error while fetching %s headlines", asset.Normalize(symbol))
		outcome.MarketItems = a.marketFallback(ctx, symbol, cutoff, now)
		return outcome
	}

	records := annotate(dedupe(items))
	if len(records) > 0 {
		outcome.AssetItems = RankHeadlines(records, terms, now, headlineLimit)
		outcome.Status = models.NewsStatusOK
		outcome.ItemCount = len(outcome.AssetItems)
		outcome.Sources = distinctSources(outcome.AssetItems)
		outcome.Reason = fmt.Sprintf("%d matching headlines within %s", len(outcome.AssetItems), outcome.LookbackLabel)
		outcome.FreshestAgeHours = freshestAge(outcome.AssetItems, now)
		return outcome
	}

	outcome.Status = models.NewsStatusEmpty
	outcome.Reason = a.emptyDiagnostic(ctx, symbol)
	outcome.MarketItems = a.marketFallback(ctx, symbol, cutoff, now)
	return outcome
}

// emptyDiagnostic explains why the asset query returned nothing.
func (a *Adapter) emptyDiagnostic(ctx context.Context, symbol string) string {
	sym := asset.Normalize(symbol)

	healthCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	health, err := a.store.SourceHealth(healthCtx)
	if err != nil {
		return fmt.Sprintf("no %s headlines found; source catalog state unavailable", sym)
	}
	switch {
	case health.EnabledSources == 0:
		return fmt.Sprintf("no %s headlines: no news sources are enabled", sym)
	case health.TotalItems == 0:
		return fmt.Sprintf("no %s headlines: sources are enabled but no items were ingested in the window", sym)
	default:
		return fmt.Sprintf("no %s headlines: %d items ingested but none matched the %s queries", sym, health.TotalItems, sym)
	}
}

// marketFallback fetches category-level headlines with a fixed rationale.
func (a *Adapter) marketFallback(ctx context.Context, symbol string, cutoff, now time.Time) []models.HeadlineRecord {
	tier := asset.Classify(symbol)
	terms := marketFallbackTerms[tier]

	fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	items, err := a.store.QueryByTerms(fetchCtx, terms, cutoff, storeFetchCap)
	if err != nil {
		if a.log != nil {
			a.log.Warn("market fallback query failed",
				applogger.String("asset", symbol),
				applogger.Error(err),
			)
		}
		return nil
	}

	records := annotate(dedupe(items))
	for i := range records {
		records[i].Rationale = marketFallbackRationale
	}
	return RankHeadlines(records, terms, now, headlineLimit)
}

// dedupe drops repeated (title, source) pairs, case-insensitively.
func dedupe(items []models.NewsItem) []models.NewsItem {
	seen := make(map[string]bool, len(items))
	out := make([]models.NewsItem, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item.Title) + "\x00" + strings.ToLower(item.Source)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func annotate(items []models.NewsItem) []models.HeadlineRecord {
	records := make([]models.HeadlineRecord, 0, len(items))
	for _, item := range items {
		ann := AnalyzeSentiment(item.Title)
		published := ""
		if !item.PublishedAt.IsZero() {
			published = item.PublishedAt.UTC().Format(time.RFC3339)
		}
		records = append(records, models.HeadlineRecord{
			Title:       item.Title,
			Source:      item.Source,
			PublishedAt: published,
			URL:         item.URL,
			Sentiment:   ann.Sentiment,
			Confidence:  ann.Confidence,
			Driver:      ann.Driver,
			Rationale:   ann.Rationale,
		})
	}
	return records
}

// freshestAge returns the age in hours of the newest record with a
// parsable timestamp, or nil when none parses.
func freshestAge(records []models.HeadlineRecord, now time.Time) *float64 {
	var freshest *float64
	for _, rec := range records {
		ts, ok := util.ParseTime(rec.PublishedAt)
		if !ok {
			continue
		}
		age := now.Sub(ts).Hours()
		if age < 0 {
			age = 0
		}
		if freshest == nil || age < *freshest {
			v := age
			freshest = &v
		}
	}
	return freshest
}

func distinctSources(records []models.HeadlineRecord) []string {
	seen := make(map[string]bool, len(records))
	out := make([]string, 0, len(records))
	for _, rec := range records {
		key := strings.ToLower(rec.Source)
		if rec.Source == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec.Source)
	}
	return out
}
