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

// CHNewsStore implements NewsStore backed by ClickHouse.
type CHNewsStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHNewsStore(ch *pkgch.Client) *CHNewsStore {
	return &CHNewsStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHNewsStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHNewsStore) QueryByTerms(ctx context.Context, terms []string, cutoff time.Time, limit int) ([]models.NewsItem, error) {
	start := time.Now()
	const q = `
        SELECT title, source, published_at, url, assets
        FROM tradeinsight.headlines
        WHERE published_at >= ?
          AND (hasAny(assets, ?) OR multiSearchAnyCaseInsensitive(title, ?) != 0)
        ORDER BY published_at DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, cutoff, terms, terms, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse headline query error",
				applogger.Strings("terms", terms),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("query headlines: %w", err)
	}
	defer rows.Close()

	out := make([]models.NewsItem, 0, limit)
	for rows.Next() {
		var item models.NewsItem
		if err := rows.Scan(&item.Title, &item.Source, &item.PublishedAt, &item.URL, &item.Assets); err != nil {
			return nil, fmt.Errorf("scan headline: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse headline query ok",
			applogger.Strings("terms", terms),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHNewsStore) SourceHealth(ctx context.Context) (models.SourceHealth, error) {
	const q = `
        SELECT source, count() AS items
        FROM tradeinsight.headlines
        GROUP BY source
        ORDER BY source
    `
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return models.SourceHealth{}, fmt.Errorf("source health: %w", err)
	}
	defer rows.Close()

	var health models.SourceHealth
	for rows.Next() {
		var source string
		var items uint64
		if err := rows.Scan(&source, &items); err != nil {
			return models.SourceHealth{}, fmt.Errorf("scan source: %w", err)
		}
		health.Sources = append(health.Sources, source)
		health.EnabledSources++
		health.TotalItems += int(items)
	}
	if err := rows.Err(); err != nil {
		return models.SourceHealth{}, fmt.Errorf("rows: %w", err)
	}
	return health, nil
}

func (s *CHNewsStore) Insert(ctx context.Context, item models.NewsItem) error {
	const q = `
        INSERT INTO tradeinsight.headlines (title, source, published_at, url, assets)
        VALUES (?, ?, ?, ?, ?)
    `
	if _, err := s.db.ExecContext(ctx, q,
		item.Title, item.Source, item.PublishedAt.UTC(), item.URL, item.Assets); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse headline insert error",
				applogger.String("source", item.Source),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("insert headline: %w", err)
	}
	return nil
}
