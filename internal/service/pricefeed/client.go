package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"TradeInsight/internal/domain/models"
	drepo "TradeInsight/internal/domain/repository"
	applogger "TradeInsight/pkg/logger"
)

// Client implements a MarketStream backed by an exchange ticker
// WebSocket (Coinbase-style channel protocol).
type Client struct {
	websocketURL   string
	products       []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *applogger.Logger

	conn      *websocket.Conn
	connected bool
}

// New creates a new ticker MarketStream.
func New(websocketURL string, products []string, reconnectDelay, pingInterval time.Duration, log *applogger.Logger) drepo.MarketStream {
	return &Client{
		websocketURL:   websocketURL,
		products:       products,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("pricefeed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	c.log.Info("pricefeed: connected", applogger.String("url", c.websocketURL))
	return nil
}

// Subscribe subscribes to the ticker channel for configured products.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("pricefeed not connected")
	}
	msg := map[string]interface{}{
		"type":        "subscribe",
		"product_ids": c.products,
		"channels":    []string{"ticker"},
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe ticker: %w", err)
	}
	c.log.Info("pricefeed: subscribed", applogger.Strings("products", c.products))
	return nil
}

type tickerFrame struct {
	Type      string `json:"type"`
	ProductID string `json:"product_id"`
	Price     string `json:"price"`
	LastSize  string `json:"last_size"`
	Time      string `json:"time"`
}

// Read streams Tick events and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	ticks := make(chan *models.Tick, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("pricefeed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("pricefeed read: %w", err)
					return
				}
				var f tickerFrame
				if err := json.Unmarshal(b, &f); err != nil {
					// ignore non-ticker frames
					continue
				}
				if f.Type != "ticker" || f.ProductID == "" {
					continue
				}
				tick, err := f.toTick()
				if err != nil {
					continue
				}
				select {
				case ticks <- tick:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return ticks, errs
}

func (f tickerFrame) toTick() (*models.Tick, error) {
	price, err := strconv.ParseFloat(f.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("bad price %q: %w", f.Price, err)
	}
	size, _ := strconv.ParseFloat(f.LastSize, 64)
	ts := time.Now().Unix()
	if t, err := time.Parse(time.RFC3339Nano, f.Time); err == nil {
		ts = t.Unix()
	}
	return &models.Tick{Symbol: f.ProductID, Timestamp: ts, Price: price, Volume: size}, nil
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
