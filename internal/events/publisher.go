// Package events publishes order lifecycle events to kafka. Emission is
// best effort: reconciliation never waits on, or fails because of, the
// broker.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

type orderReceivedEvent struct {
	Event       string    `json:"event"`
	OrderNumber string    `json:"orderNumber"`
	PaymentID   string    `json:"paymentId"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Publisher writes order events to a single topic keyed by order
// number. A Publisher built from an empty broker list is a no-op.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewPublisher(brokersCSV, topic string, logger *slog.Logger) *Publisher {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 || topic == "" {
		return &Publisher{logger: logger}
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger,
	}
}

// OrderReceived emits an order.received event. Failures are logged and
// dropped.
func (p *Publisher) OrderReceived(ctx context.Context, orderNumber, paymentID string) {
	if p == nil || p.writer == nil {
		return
	}

	payload, err := json.Marshal(orderReceivedEvent{
		Event:       "order.received",
		OrderNumber: orderNumber,
		PaymentID:   paymentID,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orderNumber),
		Value: payload,
		Time:  time.Now().UTC(),
	})
	if err != nil && p.logger != nil {
		p.logger.Warn("failed to publish order.received event",
			"order_number", orderNumber,
			"error", err)
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
