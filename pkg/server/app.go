package server

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	icache "TradeInsight/internal/service/cache"
	"TradeInsight/internal/usecase"
	pkgch "TradeInsight/pkg/clickhouse"
	"TradeInsight/pkg/config"
	xhttp "TradeInsight/pkg/http"
	pkgkafka "TradeInsight/pkg/kafka"
	applogger "TradeInsight/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	collector   *usecase.PriceCollector
	consumer    *pkgkafka.Consumer
	requests    *usecase.TradeRequestHandler
	headlines   *usecase.HeadlineIngestHandler
	producer    *pkgkafka.Producer
	chClient    *pkgch.Client
	cacheStore  icache.BytesCache
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	collector *usecase.PriceCollector,
	consumer *pkgkafka.Consumer,
	requests *usecase.TradeRequestHandler,
	headlines *usecase.HeadlineIngestHandler,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	cacheStore icache.BytesCache,
) *App {
	return &App{
		cfg:        cfg,
		collector:  collector,
		consumer:   consumer,
		requests:   requests,
		headlines:  headlines,
		producer:   producer,
		chClient:   chClient,
		cacheStore: cacheStore,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start price collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("price collector error", applogger.Error(err))
		}
	}()
	l.Info("price collector started", applogger.Strings("products", a.cfg.PriceFeed.Products))

	// Start consumer with both intake handlers
	if a.consumer != nil {
		if a.requests != nil {
			a.consumer.RegisterHandler(a.requests)
		}
		if a.headlines != nil {
			a.consumer.RegisterHandler(a.headlines)
		}
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started",
			applogger.String("requests_topic", a.cfg.Kafka.RequestsTopic),
			applogger.String("headlines_topic", a.cfg.Kafka.HeadlinesTopic),
		)
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop collector (stream)
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("price collector stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			l.Error("http shutdown error", applogger.Error(err))
		}
	}

	// Stop consumer before closing the stores it writes to
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Cache backends with connections (Redis) need a close; the
	// in-process store does not implement io.Closer.
	if closer, ok := a.cacheStore.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
