package commander

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockery --name RabbitMQPublisher --filename rabbitmqpublisher.go

// RabbitMQPublisher is RabbitMQ messages publisher.
type RabbitMQPublisher interface {
	Publish(ctx context.Context, routingKey, messageID string, message []byte) error
}

// RabbitMQSender sends RMQ messages to routing key.
type RabbitMQSender struct {
	publisher     RabbitMQPublisher
	cmdRoutingKey string
	newID         func() (uuid.UUID, error)
}

// NewRabbitMQSender returns new RabbitMQSender using provided publisher for sending messages to provided routing key.
func NewRabbitMQSender(publisher RabbitMQPublisher, cmdRoutingKey string) RabbitMQSender {
	return RabbitMQSender{
		publisher:     publisher,
		cmdRoutingKey: cmdRoutingKey,
		newID:         uuid.NewRandom,
	}
}

// Send sends message with unique message ID to RabbitMQSender's routing key.
func (s RabbitMQSender) Send(ctx context.Context, msg []byte) error {
	messageID, err := s.newID()
	if err != nil {
		return fmt.Errorf("can't create message ID: %w", err)
	}

	return s.publisher.Publish(ctx, s.cmdRoutingKey, messageID.String(), msg)
}
