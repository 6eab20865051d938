// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shoestore/internal/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const orderCreatedQueue = "order.created"

// OrderCreatedEvent is the wire form of a new-order notification.
type OrderCreatedEvent struct {
	EventID     string       `json:"eventId"`
	OrderID     string       `json:"orderId"`
	UserID      string       `json:"userId"`
	TotalAmount int64        `json:"totalAmount"`
	Status      string       `json:"status"`
	OccurredAt  time.Time    `json:"occurredAt"`
	Order       domain.Order `json:"order"`
}

type Publisher struct {
	channel *amqp.Channel
}

// NewPublisher declares the queues this service publishes to.
func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	_, err = ch.QueueDeclare(
		orderCreatedQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", orderCreatedQueue, err)
	}
	return &Publisher{channel: ch}, nil
}

// PublishOrderCreated emits a persistent order.created message.
func (p *Publisher) PublishOrderCreated(ctx context.Context, o domain.Order) error {
	event := OrderCreatedEvent{
		EventID:     uuid.NewString(),
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		OccurredAt:  time.Now().UTC(),
		Order:       o,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		"",                // default exchange
		orderCreatedQueue, // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", orderCreatedQueue, err)
	}
	return nil
}

// Close releases the channel.
func (p *Publisher) Close() error {
	return p.channel.Close()
}
