package handler

import (
	"context"
	"fmt"

	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/MichalMitros/storefront-importer/internal/quota"
	"github.com/MichalMitros/storefront-importer/pkg/v1/commander"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Billing --filename billing.go

// Billing changes shops subscriptions.
type Billing interface {
	SetPlan(ctx context.Context, shop string, plan models.Plan) error
	ApplySubscriptionUpdate(ctx context.Context, upd quota.SubscriptionUpdate) error
	Expire(ctx context.Context, shop string) error
	Erase(ctx context.Context, shop string) error
}

// BillingHandler handles billing commands from RMQ.
type BillingHandler struct {
	consumer Consumer
	billing  Billing
	logger   *zerolog.Logger
}

// NewBillingHandler returns new BillingHandler.
func NewBillingHandler(consumer Consumer, billing Billing, logger *zerolog.Logger) *BillingHandler {
	return &BillingHandler{
		consumer: consumer,
		billing:  billing,
		logger:   logger,
	}
}

// Start starts consuming and handling billing commands one by one.
func (h *BillingHandler) Start(ctx context.Context, queue string) error {
	return start(ctx, h.consumer, queue, 1, h.Handle, h.logger)
}

// Handle handles single billing command message.
func (h *BillingHandler) Handle(ctx context.Context, message []byte) error {
	cmd, err := decodeMessage[commander.BillingCommand](message)
	if err != nil {
		return err
	}

	switch cmd.Type {
	case commander.BillingPlanSet:
		err = h.billing.SetPlan(ctx, cmd.Shop, cmd.Plan)
	case commander.BillingSubscriptionUpdate:
		err = h.billing.ApplySubscriptionUpdate(ctx, quota.SubscriptionUpdate{
			Shop:   cmd.Shop,
			Name:   cmd.Name,
			Price:  cmd.Price,
			Status: cmd.Status,
		})
	case commander.BillingPlanExpire:
		err = h.billing.Expire(ctx, cmd.Shop)
	case commander.BillingShopRedact:
		err = h.billing.Erase(ctx, cmd.Shop)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCommand, cmd.Type)
	}

	if err != nil {
		return fmt.Errorf("%s command for shop %s failed: %w", cmd.Type, cmd.Shop, err)
	}

	h.logger.Info().
		Str("shop", cmd.Shop).
		Str("type", string(cmd.Type)).
		Msg("billing command applied")

	return nil
}
