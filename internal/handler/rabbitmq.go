package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MichalMitros/storefront-importer/internal/platform/rabbitmq"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ErrInvalidCommand is returned when message can't be decoded into valid command.
var ErrInvalidCommand = errors.New("invalid command")

//go:generate mockery --name Consumer --filename consumer.go

// Consumer consumes messages from queue.
type Consumer interface {
	Consume(ctx context.Context, queue string, concurrency int, handler rabbitmq.HandlerFunc) (<-chan error, error)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// start starts consuming messages from queue and logs handling errors until consuming is finished.
func start(
	ctx context.Context,
	consumer Consumer,
	queue string,
	concurrency int,
	handler rabbitmq.HandlerFunc,
	logger *zerolog.Logger,
) error {
	errorsChan, err := consumer.Consume(ctx, queue, concurrency, handler)
	if err != nil {
		return err
	}

	go func() {
		for err := range errorsChan {
			logger.Error().
				Err(err).
				Str("queue", queue).
				Msg("can't handle message")
		}
	}()

	return nil
}

func decodeMessage[T any](msg []byte) (*T, error) {
	var cmd T
	if err := json.Unmarshal(msg, &cmd); err != nil {
		return nil, fmt.Errorf("%w: can't decode message: %w", ErrInvalidCommand, err)
	}

	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}

	return &cmd, nil
}
