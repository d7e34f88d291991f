//go:build wireinject
// +build wireinject

package di

import (
	"TradeInsight/pkg/config"
	"TradeInsight/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideNewsStore,
		ProvideCandleStore,

		// Services
		ProvidePriceBook,
		ProvidePriceStream,
		ProvideCandleFallback,
		ProvideNarrator,
		ProvideCacheStore,

		// Adapters and engine
		ProvideMarketAdapter,
		ProvideNewsAdapter,
		ProvideEnhancer,
		ProvideInsightCache,
		ProvideInsightEngine,

		// Use cases
		ProvidePriceCollector,
		ProvideTradeRequestHandler,
		ProvideHeadlineIngestHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
