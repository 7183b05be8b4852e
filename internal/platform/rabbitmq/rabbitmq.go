package rabbitmq

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

const deadLetterSuffix = ".dead"

// HandlerFunc is function which handles messages.
type HandlerFunc func(ctx context.Context, message []byte) error

// Option is custom configuration of RabbitMQ.
type Option func(mq *RabbitMQ)

// RabbitMQ consumes and publishes amqp messages.
type RabbitMQ struct {
	channel   *amqp.Channel
	exchange  string
	prefetch  int
	isRunning chan struct{}
}

// NewRabbitMQ returns new RabbitMQ with its own channel.
// Channel's prefetch limits number of unacknowledged deliveries, 1 by default.
func NewRabbitMQ(connection *amqp.Connection, exchange string, ops ...Option) (*RabbitMQ, error) {
	channel, err := connection.Channel()
	if err != nil {
		return nil, fmt.Errorf("can't open channel: %w", err)
	}
	mq := RabbitMQ{
		channel:  channel,
		exchange: exchange,
		prefetch: 1,
	}

	for _, op := range ops {
		op(&mq)
	}

	if err := channel.Qos(mq.prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("can't set channel prefetch: %w", err)
	}

	return &mq, nil
}

// DeclareQueue declares durable direct exchange and queue bound to it with routing key.
// Rejected messages are dead-lettered into "<queue>.dead" queue.
func (mq *RabbitMQ) DeclareQueue(queue, routingKey string) error {
	deadLetterExchange := mq.exchange + deadLetterSuffix
	deadLetterQueue := queue + deadLetterSuffix

	for _, exchange := range []string{mq.exchange, deadLetterExchange} {
		if err := mq.channel.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
			return fmt.Errorf("can't declare exchange %s: %w", exchange, err)
		}
	}

	if _, err := mq.channel.QueueDeclare(deadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("can't declare queue %s: %w", deadLetterQueue, err)
	}
	if err := mq.channel.QueueBind(deadLetterQueue, routingKey, deadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("can't bind queue %s: %w", deadLetterQueue, err)
	}

	_, err := mq.channel.QueueDeclare(queue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": deadLetterExchange,
	})
	if err != nil {
		return fmt.Errorf("can't declare queue %s: %w", queue, err)
	}
	if err := mq.channel.QueueBind(queue, routingKey, mq.exchange, false, nil); err != nil {
		return fmt.Errorf("can't bind queue %s: %w", queue, err)
	}

	return nil
}

// Publish publishes persistent message to routing key.
func (mq *RabbitMQ) Publish(ctx context.Context, routingKey, messageID string, message []byte) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Body:         message,
	}

	return mq.channel.PublishWithContext(
		ctx,
		mq.exchange,
		routingKey,
		false,
		false,
		msg,
	)
}

// Consume consumes messages from queue and passes deliveries to provided handler function
// using concurrency goroutines. It returns channel with errors from handler function and consuming process,
// which is closed when consuming is finished.
// Function works asynchronously, it consumes messages in background as long as context is not closed.
// Handlers which are running when context is closed are allowed to finish.
func (mq *RabbitMQ) Consume(
	ctx context.Context,
	queue string,
	concurrency int,
	handler HandlerFunc,
) (<-chan error, error) {
	consumerID, err := uuid.NewUUID()
	if err != nil {
		return nil, fmt.Errorf("can't create consumer ID: %w", err)
	}

	deliveries, err := mq.channel.Consume(
		queue,
		consumerID.String(),
		false, // auto acknowledge
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("can't start consuming: %w", err)
	}

	consumingErrors := make(chan error)
	mq.isRunning = make(chan struct{})
	go func() {
		defer close(mq.isRunning)
		defer close(consumingErrors)

		consumeMessages(ctx, deliveries, concurrency, consumingErrors, handler)

		// stop deliveries, prefetched messages are requeued by broker.
		_ = mq.channel.Cancel(consumerID.String(), false)
	}()

	return consumingErrors, nil
}

func consumeMessages(
	ctx context.Context,
	deliveries <-chan amqp.Delivery,
	concurrency int,
	consumingErrors chan<- error,
	handler HandlerFunc,
) {
	handlerCtx := context.WithoutCancel(ctx)

	group := errgroup.Group{}
	for range max(concurrency, 1) {
		group.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case delivery, ok := <-deliveries:
					if !ok {
						return nil
					}
					handleDelivery(handlerCtx, &delivery, consumingErrors, handler)
				}
			}
		})
	}

	_ = group.Wait()
}

func handleDelivery(
	ctx context.Context,
	delivery *amqp.Delivery,
	consumingErrors chan<- error,
	handler HandlerFunc,
) {
	if err := handler(ctx, delivery.Body); err != nil {
		consumingErrors <- err
		if err := delivery.Nack(false, false); err != nil {
			consumingErrors <- fmt.Errorf("can't nack message: %w", err)
		}
		return
	}

	if err := delivery.Ack(false); err != nil {
		consumingErrors <- fmt.Errorf("can't ack message: %w", err)
	}
}

// Done returns channel which will be closed when consuming will be finished.
func (mq *RabbitMQ) Done() chan struct{} {
	return mq.isRunning
}

// Close closes RabbitMQ channel.
func (mq *RabbitMQ) Close() error {
	return mq.channel.Close()
}

// WithPrefetch sets maximal number of unacknowledged deliveries of channel.
func WithPrefetch(prefetch int) Option {
	return func(mq *RabbitMQ) {
		if prefetch > 0 {
			mq.prefetch = prefetch
		}
	}
}
