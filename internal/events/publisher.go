// Package events publishes record-change notifications after successful
// mutations. In-process pub/sub by default; Kafka when brokers are
// configured.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Topic carries every record-change event.
const Topic = "registry.records"

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// RecordEvent describes one committed mutation of a record-store table.
type RecordEvent struct {
	Table      string    `json:"table"`
	Action     Action    `json:"action"`
	RecordID   int       `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher wraps a watermill publisher with the event envelope.
type Publisher struct {
	pub    message.Publisher
	logger *slog.Logger
}

// NewGoChannelPublisher builds the in-process publisher used when no broker
// is configured.
func NewGoChannelPublisher(logger *slog.Logger) *Publisher {
	pub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
	return &Publisher{pub: pub, logger: logger}
}

// NewKafkaPublisher builds a Kafka-backed publisher.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) (*Publisher, error) {
	pub, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}
	return &Publisher{pub: pub, logger: logger}, nil
}

// Publish emits one record event. Failures are logged, not propagated: a
// missed notification must never fail the mutation that already committed.
func (p *Publisher) Publish(event RecordEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("record event marshal failed", "table", event.Table, "error", err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pub.Publish(Topic, msg); err != nil {
		p.logger.Error("record event publish failed",
			"table", event.Table, "action", event.Action, "error", err)
	}
}

// Subscriber exposes the underlying publisher when it also subscribes
// (gochannel), mainly for tests and in-process consumers.
func (p *Publisher) Subscriber() (message.Subscriber, bool) {
	sub, ok := p.pub.(message.Subscriber)
	return sub, ok
}

func (p *Publisher) Close() error {
	return p.pub.Close()
}
