// Package queue carries async analysis jobs between the API and workers.
package queue

import "context"

// Type names a queue backend
type Type string

const (
	TypeMemory Type = "memory"
	TypeNATS   Type = "nats"
	TypeRedis  Type = "redis"
	TypeKafka  Type = "kafka"
)

// MaxDeliver bounds how many times a failing message is handed to a handler
const MaxDeliver = 3

// Publisher publishes messages to a queue
type Publisher interface {
	// Publish publishes a message to a subject/topic
	Publish(ctx context.Context, subject string, data []byte) error

	// Close closes the connection
	Close() error
}

// Subscriber subscribes to messages from a queue
type Subscriber interface {
	// Subscribe starts delivering messages on subject to handler.
	// A handler error requests redelivery, up to MaxDeliver attempts.
	Subscribe(subject string, handler MessageHandler) error

	// Unsubscribe stops delivery on subject
	Unsubscribe(subject string) error

	// Close closes the connection
	Close() error
}

// MessageHandler handles one delivered message
type MessageHandler func(ctx context.Context, data []byte) error

// Queue combines Publisher and Subscriber interfaces
type Queue interface {
	Publisher
	Subscriber
}
