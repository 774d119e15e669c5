package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/naeembaloch9099/EComerce-sub000/models"
)

const orderTopic = "order-events"

type OrderCreatedEvent struct {
	EventID     string             `json:"event_id"`
	OrderKey    string             `json:"order_key"`
	OrderNumber string             `json:"order_number"`
	UserID      string             `json:"user_id"`
	Total       float64            `json:"total"`
	Items       []models.OrderItem `json:"items"`
	Status      string             `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`
}

type OrderStatusChangedEvent struct {
	EventID   string    `json:"event_id"`
	OrderKey  string    `json:"order_key"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Note      string    `json:"note,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderPaidEvent struct {
	EventID               string    `json:"event_id"`
	OrderKey              string    `json:"order_key"`
	Amount                float64   `json:"amount"`
	Currency              string    `json:"currency"`
	ProviderTransactionID string    `json:"provider_transaction_id"`
	Timestamp             time.Time `json:"timestamp"`
}

// Producer publishes order lifecycle events. Downstream consumers render
// emails and invoices; publishing is fire-and-forget so a slow notifier never
// delays an order response. A nil Producer (no brokers configured) is safe to
// call and drops everything.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(brokers string, logger *zap.Logger) *Producer {
	if strings.TrimSpace(brokers) == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(brokers, ",")...),
		Topic:    orderTopic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer, logger: logger}
}

// PublishAsync serializes the event and writes it from a goroutine, logging
// failures instead of surfacing them.
func (p *Producer) PublishAsync(key string, event any) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := p.publish(ctx, key, event); err != nil {
			p.logger.Error("failed to publish order event",
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}

func (p *Producer) publish(ctx context.Context, key string, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
