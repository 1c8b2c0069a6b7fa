package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/config"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

const EventOrderConfirmed = "flight_order.confirmed"

// OrderConfirmedEvent is the payload written for every persisted order.
type OrderConfirmedEvent struct {
	Type       string                 `json:"type"`
	OrderID    string                 `json:"order_id"`
	PNR        string                 `json:"pnr"`
	OccurredAt time.Time              `json:"occurred_at"`
	Order      *domain.ConfirmedOrder `json:"order"`
}

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w      messageWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewPublisher returns a Kafka publisher, or a no-op one when no brokers are configured.
func NewPublisher(cfg config.KafkaConfig, logger *slog.Logger) application.OrderEventPublisher {
	if len(cfg.Brokers) == 0 {
		logger.Info("kafka brokers not configured, order events disabled")
		return NoopPublisher{}
	}
	return NewKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}, logger)
}

func NewKafkaPublisher(w messageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{w: w, logger: logger, now: time.Now}
}

func (p *KafkaPublisher) PublishOrderConfirmed(ctx context.Context, order *domain.ConfirmedOrder) error {
	evt := OrderConfirmedEvent{
		Type:       EventOrderConfirmed,
		OrderID:    order.OrderID,
		PNR:        order.PNR(),
		OccurredAt: p.now().UTC(),
		Order:      order,
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.OrderID),
		Value: b,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "event-type", Value: []byte(EventOrderConfirmed)},
		},
	})
	if err != nil {
		return fmt.Errorf("write order event: %w", err)
	}

	p.logger.Debug("order event published", "order_id", order.OrderID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderConfirmed(context.Context, *domain.ConfirmedOrder) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
