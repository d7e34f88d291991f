package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"TradeInsight/internal/domain/models"
	apphttp "TradeInsight/pkg/http"
)

const hourlyGranularity = 3600

// RESTFallback implements CandleFallback against a public exchange
// candle endpoint (Coinbase Exchange shape: /products/{id}/candles
// returning [[time, low, high, open, close, volume], ...]).
type RESTFallback struct {
	baseURL string
	client  *apphttp.Client
}

func NewRESTFallback(baseURL string, timeout time.Duration) *RESTFallback {
	return &RESTFallback{
		baseURL: baseURL,
		client:  apphttp.NewClient(apphttp.WithTimeout(timeout)),
	}
}

// Hourly fetches hourly candles for symbol between from and to,
// returned oldest first.
func (f *RESTFallback) Hourly(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	product := symbol + "-USD"
	url := fmt.Sprintf("%s/products/%s/candles", f.baseURL, product)

	var rows [][]json.Number
	err := f.client.SendAndParse(ctx, &apphttp.RequestOptions{
		Method: apphttp.MethodGet,
		URL:    url,
		QueryParams: map[string][]string{
			"granularity": {fmt.Sprintf("%d", hourlyGranularity)},
			"start":       {from.UTC().Format(time.RFC3339)},
			"end":         {to.UTC().Format(time.RFC3339)},
		},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetch candles for %s: %w", product, err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		c, err := rowToCandle(symbol, row)
		if err != nil {
			continue
		}
		candles = append(candles, c)
	}

	// API returns newest first
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Bucket.Before(candles[j].Bucket)
	})
	return candles, nil
}

func rowToCandle(symbol string, row []json.Number) (models.Candle, error) {
	if len(row) < 6 {
		return models.Candle{}, fmt.Errorf("short candle row: %d fields", len(row))
	}
	ts, err := row[0].Int64()
	if err != nil {
		return models.Candle{}, fmt.Errorf("bad candle timestamp: %w", err)
	}
	vals := make([]float64, 5)
	for i := 1; i < 6; i++ {
		v, err := row[i].Float64()
		if err != nil {
			return models.Candle{}, fmt.Errorf("bad candle field %d: %w", i, err)
		}
		vals[i-1] = v
	}
	// row layout is [time, low, high, open, close, volume]
	return models.Candle{
		Bucket: time.Unix(ts, 0).UTC(),
		Symbol: symbol,
		Open:   vals[2],
		High:   vals[1],
		Low:    vals[0],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
