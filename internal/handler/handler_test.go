package handler_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/MichalMitros/storefront-importer/internal/handler"
	"github.com/MichalMitros/storefront-importer/internal/handler/mocks"
	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/MichalMitros/storefront-importer/internal/platform/models/modelstesting"
	"github.com/MichalMitros/storefront-importer/internal/quota"
	"github.com/MichalMitros/storefront-importer/pkg/v1/commander"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var nopLogger = zerolog.Nop()

func TestUnitImportHandlerHandle(t *testing.T) {
	cmd := commander.ImportCommand{
		JobID:       12,
		Shop:        "dest.myshopify.com",
		AccessToken: "shpat_1",
		Product:     modelstesting.FakeScrapedProduct(),
	}

	tests := map[string]struct {
		processErr error
		wantErr    error
	}{
		"ok": {},
		"import failed": {
			processErr: assert.AnError,
			wantErr:    assert.AnError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			importer := mocks.NewImporter(t)
			importer.On("Process", mock.Anything, cmd).Return(tt.processErr)

			han := handler.NewImportHandler(mocks.NewConsumer(t), importer, &nopLogger)
			err := han.Handle(context.TODO(), mustMarshal(t, cmd))

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")
		})
	}
}

func TestUnitImportHandlerInvalidMessages(t *testing.T) {
	tests := map[string]string{
		"not json":        `{"jobId":`,
		"missing job id":  `{"shop":"a.myshopify.com","accessToken":"t","product":{"title":"x","sourceUrl":"https://a.com/products/x"}}`,
		"missing token":   `{"jobId":1,"shop":"a.myshopify.com","product":{"title":"x","sourceUrl":"https://a.com/products/x"}}`,
		"invalid product": `{"jobId":1,"shop":"a.myshopify.com","accessToken":"t","product":{"title":"","sourceUrl":"nope"}}`,
	}

	for name, msg := range tests {
		t.Run(name, func(t *testing.T) {
			han := handler.NewImportHandler(mocks.NewConsumer(t), mocks.NewImporter(t), &nopLogger)

			err := han.Handle(context.TODO(), []byte(msg))

			require.ErrorIs(t, err, handler.ErrInvalidCommand, "should reject invalid command")
		})
	}
}

func TestUnitBillingHandlerHandle(t *testing.T) {
	const shop = "a.myshopify.com"

	tests := map[string]struct {
		cmd       commander.BillingCommand
		mockSetup func(billing *mocks.Billing, err error)
	}{
		"plan set": {
			cmd: commander.BillingCommand{Type: commander.BillingPlanSet, Shop: shop, Plan: models.PlanGrowth},
			mockSetup: func(billing *mocks.Billing, err error) {
				billing.On("SetPlan", mock.Anything, shop, models.PlanGrowth).Return(err)
			},
		},
		"subscription update": {
			cmd: commander.BillingCommand{
				Type: commander.BillingSubscriptionUpdate, Shop: shop, Name: "Growth", Price: "4.99", Status: "ACTIVE",
			},
			mockSetup: func(billing *mocks.Billing, err error) {
				billing.On("ApplySubscriptionUpdate", mock.Anything, quota.SubscriptionUpdate{
					Shop: shop, Name: "Growth", Price: "4.99", Status: "ACTIVE",
				}).Return(err)
			},
		},
		"plan expire": {
			cmd: commander.BillingCommand{Type: commander.BillingPlanExpire, Shop: shop},
			mockSetup: func(billing *mocks.Billing, err error) {
				billing.On("Expire", mock.Anything, shop).Return(err)
			},
		},
		"shop redact": {
			cmd: commander.BillingCommand{Type: commander.BillingShopRedact, Shop: shop},
			mockSetup: func(billing *mocks.Billing, err error) {
				billing.On("Erase", mock.Anything, shop).Return(err)
			},
		},
	}

	for name, tt := range tests {
		for _, billingErr := range []error{nil, assert.AnError} {
			t.Run(name, func(t *testing.T) {
				billing := mocks.NewBilling(t)
				tt.mockSetup(billing, billingErr)

				han := handler.NewBillingHandler(mocks.NewConsumer(t), billing, &nopLogger)
				err := han.Handle(context.TODO(), mustMarshal(t, tt.cmd))

				require.ErrorIs(t, err, billingErr, "should return correct error")
			})
		}
	}
}

func TestUnitBillingHandlerInvalidMessages(t *testing.T) {
	tests := map[string]string{
		"not json":     `[]`,
		"missing shop": `{"type":"plan.expire"}`,
		"unknown type": `{"type":"plan.upgrade","shop":"a.myshopify.com"}`,
		"trial plan":   `{"type":"plan.set","shop":"a.myshopify.com","plan":"TRIAL"}`,
		"unknown plan": `{"type":"plan.set","shop":"a.myshopify.com","plan":"PLATINUM"}`,
	}

	for name, msg := range tests {
		t.Run(name, func(t *testing.T) {
			han := handler.NewBillingHandler(mocks.NewConsumer(t), mocks.NewBilling(t), &nopLogger)

			err := han.Handle(context.TODO(), []byte(msg))

			require.ErrorIs(t, err, handler.ErrInvalidCommand, "should reject invalid command")
		})
	}
}

func TestUnitImportHandlerStart(t *testing.T) {
	errs := make(chan error)
	consumer := mocks.NewConsumer(t)
	consumer.On("Consume", mock.Anything, "imports", 2, mock.Anything).Return((<-chan error)(errs), nil)

	han := handler.NewImportHandler(consumer, mocks.NewImporter(t), &nopLogger)
	require.NoError(t, han.Start(context.TODO(), "imports", 2), "shouldn't return any error")

	select {
	case errs <- assert.AnError:
	case <-time.After(time.Second):
		t.Fatal("should drain consuming errors")
	}
	close(errs)
}

func TestUnitBillingHandlerStartError(t *testing.T) {
	consumer := mocks.NewConsumer(t)
	consumer.On("Consume", mock.Anything, "billing", 1, mock.Anything).Return(nil, assert.AnError)

	han := handler.NewBillingHandler(consumer, mocks.NewBilling(t), &nopLogger)

	require.ErrorIs(t, han.Start(context.TODO(), "billing"), assert.AnError, "should return consuming error")
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()

	body, err := json.Marshal(v)
	require.NoError(t, err)

	return body
}
