package interfaces

import "context"

// EventPublisher delivers events to a topic, in the order given.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, events ...any) error
}
