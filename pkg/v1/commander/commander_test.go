package commander_test

import (
	"context"
	"testing"

	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/MichalMitros/storefront-importer/pkg/v1/commander"
	"github.com/MichalMitros/storefront-importer/pkg/v1/commander/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnitSendImportCommand(t *testing.T) {
	cmd := commander.ImportCommand{
		JobID:       42,
		Shop:        "dest.myshopify.com",
		AccessToken: "shpat_1",
		Product: models.ScrapedProduct{
			Title:     "Widget",
			Vendor:    "Acme",
			SourceURL: "https://src.example.com/products/widget",
			Images:    []string{"https://cdn.example.com/1.jpg"},
			Variants: []models.ProductVariant{
				{Title: "S", Price: "10.00", SKU: "IMP-1", InventoryQuantity: 2, Options: [3]string{"S"}},
			},
		},
	}

	tests := map[string]struct {
		senderError error
		wantErr     error
	}{
		"ok": {},
		"sender error": {
			senderError: assert.AnError,
			wantErr:     assert.AnError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sender := mocks.NewSender(t)
			sender.On("Send", mock.Anything, mock.MatchedBy(func(body []byte) bool {
				return assert.JSONEq(t, `{
					"jobId": 42,
					"shop": "dest.myshopify.com",
					"accessToken": "shpat_1",
					"product": {
						"title": "Widget",
						"descriptionHtml": "",
						"vendor": "Acme",
						"sourceUrl": "https://src.example.com/products/widget",
						"images": ["https://cdn.example.com/1.jpg"],
						"options": null,
						"variants": [{"title":"S","price":"10.00","sku":"IMP-1","inventoryQuantity":2,"options":["S","",""]}]
					}
				}`, string(body))
			})).Return(tt.senderError)

			cmndr := commander.NewImportCommander(sender)
			err := cmndr.SendImportCommand(context.TODO(), cmd)

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")
		})
	}
}

func TestUnitSendBillingCommand(t *testing.T) {
	tests := map[string]struct {
		cmd  commander.BillingCommand
		want string
	}{
		"plan set": {
			cmd:  commander.BillingCommand{Type: commander.BillingPlanSet, Shop: "a.myshopify.com", Plan: models.PlanGrowth},
			want: `{"type":"plan.set","shop":"a.myshopify.com","plan":"GROWTH"}`,
		},
		"subscription update": {
			cmd: commander.BillingCommand{
				Type: commander.BillingSubscriptionUpdate, Shop: "a.myshopify.com",
				Name: "Starter", Price: "2.99", Status: "ACTIVE",
			},
			want: `{"type":"subscription.update","shop":"a.myshopify.com","name":"Starter","price":"2.99","status":"ACTIVE"}`,
		},
		"shop redact": {
			cmd:  commander.BillingCommand{Type: commander.BillingShopRedact, Shop: "a.myshopify.com"},
			want: `{"type":"shop.redact","shop":"a.myshopify.com"}`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sender := mocks.NewSender(t)
			sender.On("Send", mock.Anything, []byte(tt.want)).Return(nil)

			cmndr := commander.NewBillingCommander(sender)
			err := cmndr.SendBillingCommand(context.TODO(), tt.cmd)

			require.NoError(t, err, "shouldn't return any error")
		})
	}
}
