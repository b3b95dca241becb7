package events

import (
	"context"
	"encoding/json"
	"fmt"
)

type amqpClient interface {
	Publish(ctx context.Context, eventType string, body []byte) error
	Close() error
}

// RabbitMQPublisher publishes order events to the durable RabbitMQ queue.
type RabbitMQPublisher struct {
	client amqpClient
}

// NewRabbitMQPublisher wraps a connected client, normally a *rabbitmq.Client.
func NewRabbitMQPublisher(client amqpClient) *RabbitMQPublisher {
	return &RabbitMQPublisher{client: client}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	return p.client.Publish(ctx, event.Type, body)
}

func (p *RabbitMQPublisher) Close() error {
	return p.client.Close()
}
