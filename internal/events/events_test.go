package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"cafeconnect/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

type mockAMQP struct {
	mock.Mock
}

func (m *mockAMQP) Publish(ctx context.Context, eventType string, body []byte) error {
	return m.Called(eventType, body).Error(0)
}

func (m *mockAMQP) Close() error {
	return m.Called().Error(0)
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:     "order-1",
		CafeID: "cafe-1",
		UserID: "user-1",
		Status: models.StatusConfirmed,
		Total:  77000,
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := new(mockWriter)
	publisher := &KafkaPublisher{Writer: writer}

	writer.On("WriteMessages", mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "order-1" {
			return false
		}
		var event OrderEvent
		if err := json.Unmarshal(msgs[0].Value, &event); err != nil {
			return false
		}
		return event.Type == OrderCreated && event.Total == 77000 && event.Status == models.StatusConfirmed
	})).Return(nil).Once()

	require.NoError(t, publisher.Publish(context.Background(), NewOrderEvent(OrderCreated, sampleOrder())))
	writer.AssertExpectations(t)

	writer.On("WriteMessages", mock.Anything).Return(errors.New("broker down")).Once()
	err := publisher.Publish(context.Background(), NewOrderEvent(OrderStatusChanged, sampleOrder()))
	assert.ErrorContains(t, err, "broker down")
}

func TestRabbitMQPublisher_Publish(t *testing.T) {
	client := new(mockAMQP)
	publisher := NewRabbitMQPublisher(client)

	client.On("Publish", OrderStatusChanged, mock.MatchedBy(func(body []byte) bool {
		var event OrderEvent
		return json.Unmarshal(body, &event) == nil && event.OrderID == "order-1" && event.CafeID == "cafe-1"
	})).Return(nil).Once()
	client.On("Close").Return(nil).Once()

	require.NoError(t, publisher.Publish(context.Background(), NewOrderEvent(OrderStatusChanged, sampleOrder())))
	require.NoError(t, publisher.Close())
	client.AssertExpectations(t)
}

func TestLogDelivery(t *testing.T) {
	body, err := json.Marshal(NewOrderEvent(OrderCreated, sampleOrder()))
	require.NoError(t, err)

	assert.NoError(t, LogDelivery(amqp.Delivery{Body: body}))
	assert.NoError(t, LogDelivery(amqp.Delivery{Body: []byte("not json")}), "malformed events are dropped")
}
