package commander

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MichalMitros/storefront-importer/internal/platform/models"
)

//go:generate mockery --name Sender --filename sender.go

// Sender sends messages.
type Sender interface {
	Send(context.Context, []byte) error
}

// ImportCommand is command to import single scraped product into shop.
type ImportCommand struct {
	JobID       int64                 `json:"jobId" validate:"required"`
	Shop        string                `json:"shop" validate:"required"`
	AccessToken string                `json:"accessToken" validate:"required"`
	Product     models.ScrapedProduct `json:"product"`
}

// BillingCommandType is type of billing command.
type BillingCommandType string

const (
	// BillingPlanSet sets shop's plan directly.
	BillingPlanSet BillingCommandType = "plan.set"
	// BillingSubscriptionUpdate applies subscription status change notification.
	BillingSubscriptionUpdate BillingCommandType = "subscription.update"
	// BillingPlanExpire expires shop's plan.
	BillingPlanExpire BillingCommandType = "plan.expire"
	// BillingShopRedact erases all shop's data.
	BillingShopRedact BillingCommandType = "shop.redact"
)

// BillingCommand is command changing shop's subscription.
type BillingCommand struct {
	Type  BillingCommandType `json:"type" validate:"required"`
	Shop  string             `json:"shop" validate:"required"`
	Plan  models.Plan        `json:"plan,omitempty" validate:"omitempty,oneof=STARTER GROWTH UNLIMITED"`
	Name  string             `json:"name,omitempty"`
	Price string             `json:"price,omitempty"`
	// Status is subscription status, e.g. ACTIVE or CANCELLED.
	Status string `json:"status,omitempty"`
}

// ImportCommander sends import commands.
type ImportCommander struct {
	sender Sender
}

// NewImportCommander returns new ImportCommander using provided sender for sending messages.
func NewImportCommander(sender Sender) ImportCommander {
	return ImportCommander{
		sender: sender,
	}
}

// SendImportCommand sends import command.
func (c ImportCommander) SendImportCommand(ctx context.Context, cmd ImportCommand) error {
	return send(ctx, c.sender, "import", cmd)
}

// BillingCommander sends billing commands.
type BillingCommander struct {
	sender Sender
}

// NewBillingCommander returns new BillingCommander using provided sender for sending messages.
func NewBillingCommander(sender Sender) BillingCommander {
	return BillingCommander{
		sender: sender,
	}
}

// SendBillingCommand sends billing command.
func (c BillingCommander) SendBillingCommand(ctx context.Context, cmd BillingCommand) error {
	return send(ctx, c.sender, "billing", cmd)
}

func send(ctx context.Context, sender Sender, kind string, cmd any) error {
	cmdMsg, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("can't marshal %s command: %w", kind, err)
	}

	return sender.Send(ctx, cmdMsg)
}
