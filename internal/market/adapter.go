// Package market derives the PriceSnapshot feeding the fact pack:
// current price, trailing changes, range position, and ATR volatility
// from hourly candles, with an external fallback when local history is
// empty. Missing inputs yield nil fields, never interpolation.
package market

import (
	"context"
	"time"

	"TradeInsight/internal/domain/models"
	"TradeInsight/internal/domain/repository"
	applogger "TradeInsight/pkg/logger"
)

const (
	// candleWindow is how many hourly candles the adapter pulls.
	candleWindow = 200
	// rangeWindow is the trailing 7-day slice used for range metrics.
	rangeWindow = 168
)

type Adapter struct {
	candles  repository.CandleStore
	prices   repository.PriceSource
	fallback repository.CandleFallback
	metrics  repository.Metrics
	log      *applogger.Logger

	fallbackTimeout time.Duration
	persistTimeout  time.Duration
	now             func() time.Time
}

func NewAdapter(
	candles repository.CandleStore,
	prices repository.PriceSource,
	fallback repository.CandleFallback,
	metrics repository.Metrics,
	log *applogger.Logger,
) *Adapter {
	return &Adapter{
		candles:         candles,
		prices:          prices,
		fallback:        fallback,
		metrics:         metrics,
		log:             log,
		fallbackTimeout: 3 * time.Second,
		persistTimeout:  5 * time.Second,
		now:             time.Now,
	}
}

// Snapshot assembles the price snapshot for symbol. It never returns
// an error; unavailable upstream data leaves nil fields and a "none"
// source tag.
func (a *Adapter) Snapshot(ctx context.Context, symbol string) models.PriceSnapshot {
	snap := models.PriceSnapshot{Source: "none"}

	price, source, err := a.prices.Current(ctx, symbol)
	if err == nil && price > 0 {
		snap.Price = &price
		snap.Source = source
		if a.metrics != nil {
			a.metrics.RecordLastPrice(symbol, price)
		}
	} else {
		if a.log != nil && err != nil {
			a.log.Debug("price lookup failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		if a.metrics != nil {
			a.metrics.RecordDegraded("price")
		}
	}

	candles := a.loadCandles(ctx, symbol)
	derive(&snap, candles)
	return snap
}

// loadCandles reads local history, falling back to the public candle
// source when the store is empty. Fallback-sourced candles are
// persisted asynchronously, best effort.
func (a *Adapter) loadCandles(ctx context.Context, symbol string) []models.Candle {
	candles, err := a.candles.LatestN(ctx, symbol, candleWindow)
	if err != nil {
		if a.log != nil {
			a.log.Warn("candle store read failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		if a.metrics != nil {
			a.metrics.RecordDegraded("candle_store")
		}
		candles = nil
	}
	if len(candles) > 0 {
		return candles
	}
	if a.fallback == nil {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.fallbackTimeout)
	defer cancel()

	now := a.now()
	fetched, err := a.fallback.Hourly(fetchCtx, symbol, now.Add(-rangeWindow*time.Hour), now)
	if err != nil {
		if a.log != nil {
			a.log.Warn("candle fallback fetch failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		if a.metrics != nil {
			a.metrics.RecordDegraded("candle_fallback")
		}
		return nil
	}
	if len(fetched) > 0 {
		a.persistAsync(symbol, fetched)
	}
	return fetched
}

// persistAsync writes fallback candles back to the store without
// coupling the read path to the write: failures are logged only.
func (a *Adapter) persistAsync(symbol string, candles []models.Candle) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.persistTimeout)
		defer cancel()
		if err := a.candles.UpsertIfAbsent(ctx, candles); err != nil && a.log != nil {
			a.log.Warn("candle persist failed",
				applogger.String("symbol", symbol),
				applogger.Int("count", len(candles)),
				applogger.Error(err),
			)
		}
	}()
}

// derive fills the trailing metrics from candles ordered oldest first.
func derive(snap *models.PriceSnapshot, candles []models.Candle) {
	n := len(candles)
	if n >= 2 {
		prev := candles[n-2].Close
		last := candles[n-1].Close
		if prev > 0 {
			chg := (last - prev) / prev * 100
			snap.Change24hPct = &chg
		}
	}

	window := candles
	if n > rangeWindow {
		window = candles[n-rangeWindow:]
	}
	if len(window) >= 2 {
		high := window[0].High
		low := window[0].Low
		for _, c := range window[1:] {
			if c.High > high {
				high = c.High
			}
			if c.Low < low {
				low = c.Low
			}
		}
		snap.High7d = &high
		snap.Low7d = &low

		first := window[0].Close
		last := window[len(window)-1].Close
		if first > 0 {
			chg := (last - first) / first * 100
			snap.Change7dPct = &chg
		}

		if snap.Price != nil && high > low {
			pos := (*snap.Price - low) / (high - low) * 100
			snap.RangePositionPct = &pos
		}

		if snap.Price != nil && *snap.Price > 0 {
			atr := meanTrueRange(window)
			atrPct := atr / *snap.Price * 100
			snap.ATRVolatilityPct = &atrPct
		}
	}
}

// meanTrueRange averages the true range over adjacent candle pairs.
func meanTrueRange(window []models.Candle) float64 {
	total := 0.0
	count := 0
	for i := 1; i < len(window); i++ {
		prevClose := window[i-1].Close
		tr := window[i].High - window[i].Low
		if d := abs(window[i].High - prevClose); d > tr {
			tr = d
		}
		if d := abs(window[i].Low - prevClose); d > tr {
			tr = d
		}
		total += tr
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
