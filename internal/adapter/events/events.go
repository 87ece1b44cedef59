// Package events publishes cv.generated notifications to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"smart-cv-generator/internal/domain"
)

const (
	BackendNone   = "none"
	BackendAMQP   = "amqp"
	BackendPubSub = "pubsub"
)

// RoutingKey is used for every AMQP message.
const RoutingKey = domain.EventGenerated

// Publisher sends generation events and releases its connection on Close.
type Publisher interface {
	Publish(ctx context.Context, ev domain.GenerationEvent) error
	Close() error
}

type Options struct {
	Backend      string
	AMQPURL      string
	AMQPExchange string
	GCPProjectID string
	PubSubTopic  string
}

// New connects the configured backend. It returns a nil Publisher for "none".
func New(ctx context.Context, opts Options) (Publisher, error) {
	switch opts.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendAMQP:
		p, err := NewAMQPPublisher(opts.AMQPURL, opts.AMQPExchange)
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendPubSub:
		p, err := NewPubSubPublisher(ctx, opts.GCPProjectID, opts.PubSubTopic)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", opts.Backend)
	}
}

// Encode returns the JSON wire form of ev.
func Encode(ev domain.GenerationEvent) ([]byte, error) {
	if ev.Event == "" {
		ev.Event = domain.EventGenerated
	}
	return json.Marshal(ev)
}
