// Package usecase wires the adapters into the insight pipeline: the
// engine that answers trade requests, the Kafka intake and egress, and
// the background collectors feeding the stores.
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"TradeInsight/internal/asset"
	"TradeInsight/internal/domain/models"
	"TradeInsight/internal/domain/repository"
	"TradeInsight/internal/insight"
	applogger "TradeInsight/pkg/logger"
)

// DefaultLookbackHours is the news window applied when the request
// does not carry one.
const DefaultLookbackHours = 24

const unavailableHeadline = "Market insight unavailable"

// MarketSnapshotter assembles the price snapshot for a symbol.
type MarketSnapshotter interface {
	Snapshot(ctx context.Context, symbol string) models.PriceSnapshot
}

// NewsRetriever runs headline retrieval for a symbol.
type NewsRetriever interface {
	Retrieve(ctx context.Context, symbol string, lookbackHours int) models.NewsOutcome
}

// Polisher applies the optional generative rewrite.
type Polisher interface {
	Enhance(ctx context.Context, pack models.FactPack, ins models.Insight) models.Insight
}

// InsightEngine turns a trade request into an Insight. It never
// returns an error: every upstream failure degrades into flags,
// quality checks, and reduced confidence, and a panic anywhere in the
// pipeline collapses to the minimal fallback insight.
type InsightEngine struct {
	market   MarketSnapshotter
	news     NewsRetriever
	enhancer Polisher
	cache    *insight.Cache
	metrics  repository.Metrics
	log      *applogger.Logger
}

func NewInsightEngine(
	market MarketSnapshotter,
	news NewsRetriever,
	enhancer Polisher,
	cache *insight.Cache,
	metrics repository.Metrics,
	log *applogger.Logger,
) *InsightEngine {
	return &InsightEngine{
		market:   market,
		news:     news,
		enhancer: enhancer,
		cache:    cache,
		metrics:  metrics,
		log:      log,
	}
}

// GenerateInsight produces the insight for req.
func (e *InsightEngine) GenerateInsight(ctx context.Context, req models.TradeRequest) (out models.Insight) {
	req = normalizeRequest(req)
	// The fingerprint keys on the request as submitted, before any
	// execution-mode downgrade.
	cacheReq := req
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			if e.log != nil {
				e.log.Error("insight pipeline panicked", applogger.Any("panic", r),
					applogger.String("asset", req.Asset))
			}
			if e.metrics != nil {
				e.metrics.RecordInsight("fallback")
			}
			out = fallbackInsight(req)
		}
	}()

	if e.cache != nil {
		if cached, ok := e.cache.Get(cacheReq); ok {
			if e.metrics != nil {
				e.metrics.RecordCache(true)
			}
			cached.RequestID = req.RequestID
			return cached
		}
		if e.metrics != nil {
			e.metrics.RecordCache(false)
		}
	}

	liveDowngraded := req.Mode == models.ModeLive
	if liveDowngraded {
		req.Mode = models.ModePaper
	}

	var (
		wg      sync.WaitGroup
		snap    models.PriceSnapshot
		outcome models.NewsOutcome
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				if e.log != nil {
					e.log.Error("market snapshot panicked", applogger.Any("panic", r),
						applogger.String("asset", req.Asset))
				}
				snap = models.PriceSnapshot{Source: "none"}
			}
		}()
		snap = e.market.Snapshot(ctx, req.Asset)
	}()

	if req.NewsEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					if e.log != nil {
						e.log.Error("news retrieval panicked", applogger.Any("panic", r),
							applogger.String("asset", req.Asset))
					}
					outcome = models.NewsOutcome{
						Status:      models.NewsStatusError,
						Reason:      "news retrieval failed unexpectedly",
						FetchFailed: true,
					}
				}
			}()
			outcome = e.news.Retrieve(ctx, req.Asset, req.LookbackHours)
		}()
	} else {
		outcome = models.NewsOutcome{
			Status: models.NewsStatusDisabled,
			Reason: "news retrieval disabled for this request",
		}
	}
	wg.Wait()

	pack := insight.BuildFactPack(req, snap, outcome, liveDowngraded)
	headline, narrative := insight.RenderTemplate(pack)

	ins := models.Insight{
		Headline:     headline,
		WhyItMatters: narrative,
		KeyFacts:     pack.KeyFacts,
		RiskFlags:    pack.RiskFlags,
		Confidence:   pack.Confidence,
		GeneratedBy:  models.GeneratedByTemplate,
		Sources:      outcome.Sources,
		DataQuality:  pack.DataQuality,
		NewsOutcome:  &outcome,
		RequestID:    req.RequestID,
	}

	if e.enhancer != nil {
		ins = e.enhancer.Enhance(ctx, pack, ins)
	}
	ins = insight.NormalizeContract(ins)

	if e.cache != nil {
		e.cache.Put(cacheReq, ins)
	}
	if e.metrics != nil {
		e.metrics.RecordInsight(ins.GeneratedBy)
		e.metrics.RecordLatency("generate", time.Since(start).Seconds())
	}
	return ins
}

// normalizeRequest fills request defaults so downstream stages can
// rely on them: canonical symbol, lookback window, request id.
func normalizeRequest(req models.TradeRequest) models.TradeRequest {
	req.Asset = asset.Normalize(req.Asset)
	if req.LookbackHours <= 0 {
		req.LookbackHours = DefaultLookbackHours
	}
	if req.Side == "" {
		req.Side = models.SideBuy
	}
	if req.Mode == "" {
		req.Mode = models.ModePaper
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	return req
}

// fallbackInsight is the last-resort output when the pipeline itself
// failed. It still satisfies the full contract.
func fallbackInsight(req models.TradeRequest) models.Insight {
	return insight.NormalizeContract(models.Insight{
		Headline:     unavailableHeadline,
		WhyItMatters: "Insight generation failed before any market or news data could be assembled.",
		RiskFlags:    []string{insight.FlagInsightUnavailable},
		Confidence:   0,
		GeneratedBy:  models.GeneratedByTemplate,
		RequestID:    req.RequestID,
	})
}
