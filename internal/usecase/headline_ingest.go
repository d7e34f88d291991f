package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"TradeInsight/internal/domain/models"
	"TradeInsight/internal/domain/repository"
	pkgkafka "TradeInsight/pkg/kafka"
	applogger "TradeInsight/pkg/logger"
	"TradeInsight/pkg/util"
)

// headlineMessage is the wire schema on the headlines topic.
type headlineMessage struct {
	Title       string   `json:"title"`
	Source      string   `json:"source"`
	PublishedAt string   `json:"published_at"`
	URL         string   `json:"url"`
	Assets      []string `json:"assets"`
}

// HeadlineIngestHandler consumes headlines from Kafka and persists
// them to the news store.
type HeadlineIngestHandler struct {
	topic string
	store repository.NewsStore
	log   *applogger.Logger
}

func NewHeadlineIngestHandler(topic string, store repository.NewsStore, log *applogger.Logger) *HeadlineIngestHandler {
	return &HeadlineIngestHandler{topic: topic, store: store, log: log}
}

func (h *HeadlineIngestHandler) Topic() string { return h.topic }

func (h *HeadlineIngestHandler) Handle(ctx context.Context, b []byte) error {
	var m headlineMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return &pkgkafka.HookError{Code: "ERR_DECODE", Err: err}
	}
	if m.Title == "" || m.Source == "" {
		return &pkgkafka.HookError{Code: "ERR_VALIDATION", Err: fmt.Errorf("headline needs title and source")}
	}

	published, ok := util.ParseTime(m.PublishedAt)
	if !ok {
		return &pkgkafka.HookError{Code: "ERR_VALIDATION", Err: fmt.Errorf("unparsable published_at %q", m.PublishedAt)}
	}

	item := models.NewsItem{
		Title:       m.Title,
		Source:      m.Source,
		PublishedAt: published,
		URL:         m.URL,
		Assets:      m.Assets,
	}
	if err := h.store.Insert(ctx, item); err != nil {
		if h.log != nil {
			h.log.Error("headline insert failed",
				applogger.String("source", m.Source),
				applogger.Error(err),
			)
		}
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*HeadlineIngestHandler)(nil)
