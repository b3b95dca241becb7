package events

import (
	"context"
	"encoding/json"
	"time"

	"cafeconnect/internal/models"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// Order event types.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

// OrderEvent is the message published after an order is persisted or changes status.
type OrderEvent struct {
	Type      string             `json:"type"`
	OrderID   string             `json:"orderId"`
	CafeID    string             `json:"cafeId"`
	UserID    string             `json:"userId"`
	Status    models.OrderStatus `json:"status"`
	Total     float64            `json:"total"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewOrderEvent snapshots o as an event of the given type.
func NewOrderEvent(eventType string, o *models.Order) OrderEvent {
	return OrderEvent{
		Type:      eventType,
		OrderID:   o.ID,
		CafeID:    o.CafeID,
		UserID:    o.UserID,
		Status:    o.Status,
		Total:     o.Total,
		Timestamp: models.Now(),
	}
}

// Publisher delivers order events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// LogDelivery is the RabbitMQ consumer handler: it logs every order event it receives.
// Undecodable messages are logged and dropped so they are not redelivered forever.
func LogDelivery(msg amqp.Delivery) error {
	var event OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.WithField("delivery_tag", msg.DeliveryTag).Warnf("Dropping malformed order event: %v", err)
		return nil
	}
	log.WithFields(log.Fields{
		"type":     event.Type,
		"order_id": event.OrderID,
		"cafe_id":  event.CafeID,
		"status":   event.Status,
		"total":    event.Total,
	}).Info("Received order event")
	return nil
}
