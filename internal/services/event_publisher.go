package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

const EventsExchange = "screener_events"

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// EventPublisher publishes JSON events to a topic exchange, one channel per publish.
type EventPublisher struct {
	conn     *amqp.Connection
	exchange string
	channel  func() (amqpChannel, error)
}

func NewEventPublisher(url string) (*EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", EventsExchange, err)
	}

	p := &EventPublisher{conn: conn, exchange: EventsExchange}
	p.channel = func() (amqpChannel, error) { return conn.Channel() }
	return p, nil
}

func (p *EventPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", routingKey, err)
	}

	ch, err := p.channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	return ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (p *EventPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
