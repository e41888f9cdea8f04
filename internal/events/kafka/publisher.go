package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	interfaces "github.com/sheikh-saqib/llvar-ledger/internal/interfaces"
)

// Keyed is implemented by events that should be partitioned by a key, so
// all events of one run land on the same partition in order.
type Keyed interface {
	EventKey() string
}

type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns a Publisher writing to brokers. The topic is chosen
// per call, so the writer itself carries none.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, topic string, events ...any) error {
	if len(events) == 0 {
		return nil
	}

	msgs, err := buildMessages(topic, events)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func buildMessages(topic string, events []any) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}
		msg := kafka.Message{Topic: topic, Value: data}
		if k, ok := event.(Keyed); ok {
			msg.Key = []byte(k.EventKey())
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
