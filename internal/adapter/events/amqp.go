package events

import (
	"context"
	"fmt"

	"smart-cv-generator/internal/domain"

	"github.com/streadway/amqp"
)

// AMQPPublisher publishes to a durable topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// NewAMQPPublisher dials url and declares exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev domain.GenerationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := amqpMessage(ev)
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(p.exchange, RoutingKey, false, false, msg)
}

func (p *AMQPPublisher) Close() error { return p.conn.Close() }

func amqpMessage(ev domain.GenerationEvent) (amqp.Publishing, error) {
	body, err := Encode(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID.String(),
		Timestamp:    ev.CreatedAt,
		Type:         domain.EventGenerated,
		Body:         body,
	}, nil
}
