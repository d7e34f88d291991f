package di

import (
	"context"
	"fmt"
	"time"

	"TradeInsight/internal/domain/repository"
	"TradeInsight/internal/handler"
	"TradeInsight/internal/insight"
	"TradeInsight/internal/market"
	"TradeInsight/internal/news"
	internalrepo "TradeInsight/internal/repository"
	icache "TradeInsight/internal/service/cache"
	"TradeInsight/internal/service/marketdata"
	"TradeInsight/internal/service/narrative"
	"TradeInsight/internal/service/pricefeed"
	"TradeInsight/internal/usecase"
	pkgch "TradeInsight/pkg/clickhouse"
	"TradeInsight/pkg/config"
	pkgkafka "TradeInsight/pkg/kafka"
	applogger "TradeInsight/pkg/logger"
	"TradeInsight/pkg/metrics"
	"TradeInsight/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "json", Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideNewsStore creates the ClickHouse headline store.
func ProvideNewsStore(chClient *pkgch.Client, l *applogger.Logger) repository.NewsStore {
	store := internalrepo.NewCHNewsStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideCandleStore creates the ClickHouse candle store.
func ProvideCandleStore(chClient *pkgch.Client, l *applogger.Logger) repository.CandleStore {
	store := internalrepo.NewCHCandleStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvidePriceBook creates the in-memory last-price book.
func ProvidePriceBook(cfg *config.Config) *pricefeed.Book {
	return pricefeed.NewBook(cfg.PriceFeed.MaxTickAge)
}

// ProvidePriceStream creates the ticker WebSocket stream.
func ProvidePriceStream(cfg *config.Config, l *applogger.Logger) repository.MarketStream {
	return pricefeed.New(
		cfg.PriceFeed.WebSocketURL,
		cfg.PriceFeed.Products,
		cfg.PriceFeed.ReconnectDelay,
		cfg.PriceFeed.PingInterval,
		l,
	)
}

// ProvidePriceCollector creates the price collector use case.
func ProvidePriceCollector(stream repository.MarketStream, book *pricefeed.Book, m repository.Metrics) *usecase.PriceCollector {
	return usecase.NewPriceCollector(stream, book, m)
}

// ProvideCandleFallback creates the public hourly-candle REST client.
func ProvideCandleFallback(cfg *config.Config) repository.CandleFallback {
	timeout := cfg.MarketData.FallbackTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return marketdata.NewRESTFallback(cfg.MarketData.FallbackURL, timeout)
}

// ProvideMarketAdapter creates the market snapshot adapter.
func ProvideMarketAdapter(
	candles repository.CandleStore,
	book *pricefeed.Book,
	fallback repository.CandleFallback,
	m repository.Metrics,
	l *applogger.Logger,
) *market.Adapter {
	return market.NewAdapter(candles, book, fallback, m, l)
}

// ProvideNewsAdapter creates the news retrieval adapter.
func ProvideNewsAdapter(store repository.NewsStore, m repository.Metrics, l *applogger.Logger, cfg *config.Config) *news.Adapter {
	return news.NewAdapter(store, m, l, cfg.Insight.NewsTimeout)
}

// ProvideNarrator creates the generative narrator. With no API key
// configured it reports unavailable and the engine stays on templates.
func ProvideNarrator(cfg *config.Config, l *applogger.Logger) repository.Narrator {
	return narrative.NewClaudeNarrator(narrative.Config{
		APIKey:    cfg.Anthropic.APIKey,
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
	}, l)
}

// ProvideEnhancer creates the time-boxed narrative enhancer.
func ProvideEnhancer(narrator repository.Narrator, m repository.Metrics, l *applogger.Logger, cfg *config.Config) *insight.Enhancer {
	return insight.NewEnhancer(narrator, m, l, cfg.Insight.EnhanceTimeout)
}

// ProvideCacheStore picks the insight cache backend: Redis when
// configured, in-process TTL store otherwise.
func ProvideCacheStore(cfg *config.Config) icache.BytesCache {
	if cfg.Insight.Redis.Enabled {
		return icache.NewRedisStore(icache.RedisConfig{
			Addr:     cfg.Insight.Redis.Addr,
			Password: cfg.Insight.Redis.Password,
			DB:       cfg.Insight.Redis.DB,
		})
	}
	return icache.NewTTLStore()
}

// ProvideInsightCache creates the memoizing insight cache.
func ProvideInsightCache(store icache.BytesCache, cfg *config.Config) *insight.Cache {
	return insight.NewCache(store, cfg.Insight.CacheTTL)
}

// ProvideInsightEngine creates the insight generation engine.
func ProvideInsightEngine(
	marketAdapter *market.Adapter,
	newsAdapter *news.Adapter,
	enhancer *insight.Enhancer,
	cache *insight.Cache,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.InsightEngine {
	return usecase.NewInsightEngine(marketAdapter, newsAdapter, enhancer, cache, m, l)
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideTradeRequestHandler registers the requests-topic handler.
func ProvideTradeRequestHandler(
	engine *usecase.InsightEngine,
	producer *pkgkafka.Producer,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.TradeRequestHandler {
	return usecase.NewTradeRequestHandler(cfg.Kafka.RequestsTopic, cfg.Kafka.InsightsTopic, engine, producer, l)
}

// ProvideHeadlineIngestHandler registers the headlines-topic handler.
func ProvideHeadlineIngestHandler(store repository.NewsStore, cfg *config.Config, l *applogger.Logger) *usecase.HeadlineIngestHandler {
	return usecase.NewHeadlineIngestHandler(cfg.Kafka.HeadlinesTopic, store, l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.PriceCollector,
	consumer *pkgkafka.Consumer,
	requests *usecase.TradeRequestHandler,
	headlines *usecase.HeadlineIngestHandler,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	cacheStore icache.BytesCache,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, consumer, requests, headlines, producer, chClient, cacheStore)
	app.SetHTTPHandler(handler.NewOpsHandler(chClient, collector))
	return app
}
