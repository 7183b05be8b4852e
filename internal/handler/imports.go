package handler

import (
	"context"
	"fmt"

	"github.com/MichalMitros/storefront-importer/pkg/v1/commander"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Importer --filename importer.go

// Importer imports products of import commands.
type Importer interface {
	Process(ctx context.Context, cmd commander.ImportCommand) error
}

// ImportHandler handles import commands from RMQ.
type ImportHandler struct {
	consumer Consumer
	importer Importer
	logger   *zerolog.Logger
}

// NewImportHandler returns new ImportHandler.
func NewImportHandler(consumer Consumer, importer Importer, logger *zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		consumer: consumer,
		importer: importer,
		logger:   logger,
	}
}

// Start starts consuming and handling import commands, at most concurrency at once.
func (h *ImportHandler) Start(ctx context.Context, queue string, concurrency int) error {
	return start(ctx, h.consumer, queue, concurrency, h.Handle, h.logger)
}

// Handle handles single import command message.
func (h *ImportHandler) Handle(ctx context.Context, message []byte) error {
	cmd, err := decodeMessage[commander.ImportCommand](message)
	if err != nil {
		return err
	}

	h.logger.Debug().
		Int64("jobId", cmd.JobID).
		Str("shop", cmd.Shop).
		Msg("import started")

	if err := h.importer.Process(ctx, *cmd); err != nil {
		return fmt.Errorf("import of job %d failed: %w", cmd.JobID, err)
	}

	h.logger.Debug().
		Int64("jobId", cmd.JobID).
		Str("shop", cmd.Shop).
		Msg("import finished")

	return nil
}
