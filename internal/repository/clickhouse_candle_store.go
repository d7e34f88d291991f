package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"TradeInsight/internal/domain/models"
	pkgch "TradeInsight/pkg/clickhouse"
	applogger "TradeInsight/pkg/logger"
)

// CHCandleStore implements CandleStore backed by ClickHouse.
type CHCandleStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHCandleStore(ch *pkgch.Client) *CHCandleStore {
	return &CHCandleStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHCandleStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHCandleStore) LatestN(ctx context.Context, symbol string, n int) ([]models.Candle, error) {
	start := time.Now()
	const q = `
        SELECT bucket, symbol, open, high, low, close, vol
        FROM tradeinsight.candles_1h
        WHERE symbol = ?
        ORDER BY bucket DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_candles query error",
				applogger.String("symbol", symbol),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get latest candles: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Candle, 0, n)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Bucket, &c.Symbol, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		tmp = append(tmp, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Debug("clickhouse latest_candles ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

// UpsertIfAbsent stores fallback-sourced candles, skipping buckets the
// store already has. ReplacingMergeTree collapses the rare duplicate
// that slips through between the read and the write.
func (s *CHCandleStore) UpsertIfAbsent(ctx context.Context, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	symbol := candles[0].Symbol

	existing, err := s.existingBuckets(ctx, symbol, candles)
	if err != nil {
		return err
	}

	const q = `
        INSERT INTO tradeinsight.candles_1h (bucket, symbol, open, high, low, close, vol)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	inserted := 0
	for _, c := range candles {
		if _, ok := existing[c.Bucket.Unix()]; ok {
			continue
		}
		if _, err := s.db.ExecContext(ctx, q,
			c.Bucket.UTC(), c.Symbol, c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			return fmt.Errorf("insert candle %s %s: %w", c.Symbol, c.Bucket, err)
		}
		inserted++
	}
	if s.l != nil {
		s.l.Info("clickhouse candle upsert ok",
			applogger.String("symbol", symbol),
			applogger.Int("candidates", len(candles)),
			applogger.Int("inserted", inserted),
		)
	}
	return nil
}

func (s *CHCandleStore) existingBuckets(ctx context.Context, symbol string, candles []models.Candle) (map[int64]struct{}, error) {
	lo, hi := candles[0].Bucket, candles[0].Bucket
	for _, c := range candles[1:] {
		if c.Bucket.Before(lo) {
			lo = c.Bucket
		}
		if c.Bucket.After(hi) {
			hi = c.Bucket
		}
	}

	const q = `
        SELECT bucket
        FROM tradeinsight.candles_1h
        WHERE symbol = ? AND bucket >= ? AND bucket <= ?
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("existing buckets: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]struct{})
	for rows.Next() {
		var bucket time.Time
		if err := rows.Scan(&bucket); err != nil {
			return nil, fmt.Errorf("scan bucket: %w", err)
		}
		out[bucket.Unix()] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
