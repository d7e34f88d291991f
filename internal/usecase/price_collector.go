package usecase

import (
	"context"

	"TradeInsight/internal/domain/models"
	drepo "TradeInsight/internal/domain/repository"
	"TradeInsight/internal/service/pricefeed"
)

// PriceCollector consumes the live ticker stream and keeps the price
// book current.
type PriceCollector struct {
	stream  drepo.MarketStream
	book    *pricefeed.Book
	metrics drepo.Metrics
}

// NewPriceCollector creates a new PriceCollector instance.
func NewPriceCollector(stream drepo.MarketStream, book *pricefeed.Book, metrics drepo.Metrics) *PriceCollector {
	return &PriceCollector{stream: stream, book: book, metrics: metrics}
}

// IsConnected returns true if the market stream is connected.
func (c *PriceCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *PriceCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *PriceCollector) consume(ctx context.Context, tickCh <-chan *models.Tick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				if c.metrics != nil {
					c.metrics.RecordDegraded("price_stream")
				}
				_ = c.stream.Reconnect(ctx)
			}
		case t := <-tickCh:
			if t == nil {
				continue
			}
			c.book.Apply(t)
			if c.metrics != nil {
				c.metrics.RecordLastPrice(t.Symbol, t.Price)
			}
		}
	}
}

// Shutdown closes the stream.
func (c *PriceCollector) Shutdown(ctx context.Context) error {
	return c.stream.Close()
}
