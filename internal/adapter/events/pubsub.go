package events

import (
	"context"
	"fmt"

	"smart-cv-generator/internal/domain"

	"cloud.google.com/go/pubsub"
)

// PubSubPublisher publishes to one Google Pub/Sub topic.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func NewPubSubPublisher(ctx context.Context, projectID, topic string) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client, topic: client.Topic(topic)}, nil
}

// Publish waits for the server to acknowledge the message.
func (p *PubSubPublisher) Publish(ctx context.Context, ev domain.GenerationEvent) error {
	msg, err := pubsubMessage(ev)
	if err != nil {
		return err
	}
	if _, err := p.topic.Publish(ctx, msg).Get(ctx); err != nil {
		return fmt.Errorf("failed to publish message to topic %s: %w", p.topic.ID(), err)
	}
	return nil
}

func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}

func pubsubMessage(ev domain.GenerationEvent) (*pubsub.Message, error) {
	body, err := Encode(ev)
	if err != nil {
		return nil, err
	}
	return &pubsub.Message{
		Data:       body,
		Attributes: map[string]string{"event": domain.EventGenerated, "generation_id": ev.ID.String()},
	}, nil
}
