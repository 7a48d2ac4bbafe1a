package orderevents

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/quickmart/backend/internal/order/dal/rabbitmq"
	"github.com/quickmart/backend/internal/order/service/models/order"
)

const confirmedQueue = "oms.order.confirmed"

// Publisher announces confirmed orders on RabbitMQ. Publishing is
// fire-and-forget and happens only after the saga has fully completed; a
// publish failure never affects the order outcome.
type Publisher struct {
	client *rabbitmq.Client
	queue  amqp.Queue
}

func NewPublisher(client *rabbitmq.Client) *Publisher {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       confirmedQueue,
		Durable:    false,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return &Publisher{
		client: client,
		queue:  queue,
	}
}

// PublishConfirmed publishes one confirmed order.
func (p *Publisher) PublishConfirmed(_ context.Context, o order.Order) {
	payload, err := json.Marshal(o)
	if err != nil {
		slog.Error("Failed to encode confirmed order event", "order_id", o.ID, "error", err)

		return
	}

	err = p.client.Channel().Publish(
		"",
		p.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
		},
	)
	if err != nil {
		slog.Error("Failed to publish confirmed order event", "order_id", o.ID, "error", err)
	}
}

// NoopPublisher is used when event publishing is disabled by config.
type NoopPublisher struct{}

func (NoopPublisher) PublishConfirmed(context.Context, order.Order) {}
