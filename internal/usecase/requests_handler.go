package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"TradeInsight/internal/domain/models"
	pkgkafka "TradeInsight/pkg/kafka"
	applogger "TradeInsight/pkg/logger"
)

var validate = validator.New()

// tradeRequestMessage is the wire schema on the requests topic.
type tradeRequestMessage struct {
	Asset         string  `json:"asset" validate:"required"`
	Side          string  `json:"side" default:"BUY" validate:"oneof=BUY SELL"`
	NotionalUSD   float64 `json:"notional_usd" validate:"gt=0"`
	Mode          string  `json:"mode" default:"PAPER" validate:"oneof=PAPER LIVE"`
	NewsEnabled   *bool   `json:"news_enabled"`
	LookbackHours int     `json:"lookback_hours" default:"24" validate:"gte=1,lte=168"`
	RequestID     string  `json:"request_id"`
}

// InsightPublisher publishes generated insights.
type InsightPublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// TradeRequestHandler consumes trade requests from Kafka, generates
// the insight, and publishes it to the insights topic.
type TradeRequestHandler struct {
	requestsTopic string
	insightsTopic string
	engine        *InsightEngine
	publisher     InsightPublisher
	log           *applogger.Logger
}

func NewTradeRequestHandler(
	requestsTopic, insightsTopic string,
	engine *InsightEngine,
	publisher InsightPublisher,
	log *applogger.Logger,
) *TradeRequestHandler {
	return &TradeRequestHandler{
		requestsTopic: requestsTopic,
		insightsTopic: insightsTopic,
		engine:        engine,
		publisher:     publisher,
		log:           log,
	}
}

func (h *TradeRequestHandler) Topic() string { return h.requestsTopic }

func (h *TradeRequestHandler) Handle(ctx context.Context, b []byte) error {
	var m tradeRequestMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return &pkgkafka.HookError{Code: "ERR_DECODE", Err: err}
	}
	if err := defaults.Set(&m); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	if err := validate.StructCtx(ctx, &m); err != nil {
		return &pkgkafka.HookError{Code: "ERR_VALIDATION", Err: err}
	}

	req := models.TradeRequest{
		Asset:         m.Asset,
		Side:          models.Side(m.Side),
		NotionalUSD:   m.NotionalUSD,
		Mode:          models.Mode(m.Mode),
		NewsEnabled:   m.NewsEnabled == nil || *m.NewsEnabled,
		LookbackHours: m.LookbackHours,
		RequestID:     m.RequestID,
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	ins := h.engine.GenerateInsight(ctx, req)

	if err := h.publisher.Publish(ctx, h.insightsTopic, []byte(req.Asset), ins); err != nil {
		if h.log != nil {
			h.log.Error("insight publish failed",
				applogger.String("asset", req.Asset),
				applogger.String("request_id", req.RequestID),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("publish insight: %w", err)
	}
	if h.log != nil {
		h.log.Info("insight published",
			applogger.String("asset", req.Asset),
			applogger.String("request_id", req.RequestID),
			applogger.String("generated_by", ins.GeneratedBy),
		)
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*TradeRequestHandler)(nil)
