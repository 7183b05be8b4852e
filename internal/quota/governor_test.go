package quota_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MichalMitros/storefront-importer/internal/platform"
	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/MichalMitros/storefront-importer/internal/platform/models/modelstesting"
	"github.com/MichalMitros/storefront-importer/internal/quota"
	"github.com/MichalMitros/storefront-importer/internal/quota/mocks"
	"github.com/MichalMitros/storefront-importer/internal/quota/quotatesting"
	"github.com/go-faker/faker/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// reusable test data
var (
	shop = faker.Word() + ".myshopify.com"
	now  = time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)
)

func TestUnitGetOrCreateSubscription(t *testing.T) {
	tests := map[string]struct {
		stored  []models.ShopSubscription
		wantSub models.ShopSubscription
	}{
		"first access creates trial": {
			wantSub: models.ShopSubscription{
				Shop:        shop,
				Plan:        models.PlanTrial,
				PeriodStart: now,
				TrialEndsAt: lo.ToPtr(now.Add(quota.TrialDuration)),
			},
		},
		"running trial is kept": {
			stored: []models.ShopSubscription{{
				Shop:        shop,
				Plan:        models.PlanTrial,
				ImportCount: 10,
				PeriodStart: now.Add(-time.Hour),
				TrialEndsAt: lo.ToPtr(now.Add(time.Hour)),
			}},
			wantSub: models.ShopSubscription{
				Shop:        shop,
				Plan:        models.PlanTrial,
				ImportCount: 10,
				PeriodStart: now.Add(-time.Hour),
				TrialEndsAt: lo.ToPtr(now.Add(time.Hour)),
			},
		},
		"trial after deadline expires": {
			stored: []models.ShopSubscription{{
				Shop:        shop,
				Plan:        models.PlanTrial,
				ImportCount: 10,
				PeriodStart: now.Add(-72 * time.Hour),
				TrialEndsAt: lo.ToPtr(now.Add(-24 * time.Hour)),
			}},
			wantSub: models.ShopSubscription{
				Shop:        shop,
				Plan:        models.PlanTrialExpired,
				TrialUsed:   true,
				ImportCount: 10,
				PeriodStart: now.Add(-72 * time.Hour),
				TrialEndsAt: lo.ToPtr(now.Add(-24 * time.Hour)),
			},
		},
		"period rolls over after 30 days": {
			stored: []models.ShopSubscription{{
				Shop:        shop,
				Plan:        models.PlanGrowth,
				TrialUsed:   true,
				ImportCount: 99,
				PeriodStart: now.Add(-quota.PeriodDuration),
			}},
			wantSub: models.ShopSubscription{
				Shop:        shop,
				Plan:        models.PlanGrowth,
				TrialUsed:   true,
				ImportCount: 0,
				PeriodStart: now,
			},
		},
		"dormant trial expires and rolls over": {
			stored: []models.ShopSubscription{{
				Shop:        shop,
				Plan:        models.PlanTrial,
				ImportCount: 49,
				PeriodStart: now.Add(-90 * 24 * time.Hour),
				TrialEndsAt: lo.ToPtr(now.Add(-88 * 24 * time.Hour)),
			}},
			wantSub: models.ShopSubscription{
				Shop:        shop,
				Plan:        models.PlanTrialExpired,
				TrialUsed:   true,
				ImportCount: 0,
				PeriodStart: now,
				TrialEndsAt: lo.ToPtr(now.Add(-88 * 24 * time.Hour)),
			},
		},
		"paid plan within period is kept": {
			stored: []models.ShopSubscription{{
				Shop:        shop,
				Plan:        models.PlanStarter,
				TrialUsed:   true,
				ImportCount: 5,
				PeriodStart: now.Add(-quota.PeriodDuration + time.Second),
			}},
			wantSub: models.ShopSubscription{
				Shop:        shop,
				Plan:        models.PlanStarter,
				TrialUsed:   true,
				ImportCount: 5,
				PeriodStart: now.Add(-quota.PeriodDuration + time.Second),
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			gov := quota.NewGovernor(quotatesting.NewMemory(tt.stored...), quota.WithClock(fakeClock{now: now}))

			sub, err := gov.GetOrCreateSubscription(context.TODO(), shop)
			require.NoError(t, err, "shouldn't return any error")
			assert.Equal(t, tt.wantSub, *sub, "should return subscription after lazy transitions")

			again, err := gov.GetOrCreateSubscription(context.TODO(), shop)
			require.NoError(t, err, "shouldn't return any error")
			assert.Equal(t, *sub, *again, "should be idempotent")
		})
	}
}

func TestUnitGetOrCreateSubscriptionStorageError(t *testing.T) {
	t.Run("get error", func(t *testing.T) {
		storage := mocks.NewStorage(t)
		storage.On("GetSubscription", mock.Anything, shop).Return(nil, assert.AnError)

		_, err := quota.NewGovernor(storage).GetOrCreateSubscription(context.TODO(), shop)

		require.ErrorIs(t, err, assert.AnError, "should return storage error")
		require.ErrorContains(t, err, "can't get subscription", "should describe failed step")
	})

	t.Run("create error", func(t *testing.T) {
		storage := mocks.NewStorage(t)
		storage.On("GetSubscription", mock.Anything, shop).Return(nil, platform.ErrNotFound)
		storage.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub *models.ShopSubscription) bool {
			return sub.Shop == shop && sub.Plan == models.PlanTrial
		})).Return(nil, assert.AnError)

		_, err := quota.NewGovernor(storage, quota.WithClock(fakeClock{now: now})).
			GetOrCreateSubscription(context.TODO(), shop)

		require.ErrorIs(t, err, assert.AnError, "should return storage error")
	})

	t.Run("expire error", func(t *testing.T) {
		storage := mocks.NewStorage(t)
		storage.On("GetSubscription", mock.Anything, shop).Return(&models.ShopSubscription{
			Shop:        shop,
			Plan:        models.PlanTrial,
			PeriodStart: now.Add(-72 * time.Hour),
			TrialEndsAt: lo.ToPtr(now.Add(-time.Hour)),
		}, nil)
		storage.On("ExpireTrial", mock.Anything, shop).Return(assert.AnError)

		_, err := quota.NewGovernor(storage, quota.WithClock(fakeClock{now: now})).
			GetOrCreateSubscription(context.TODO(), shop)

		require.ErrorIs(t, err, assert.AnError, "should return storage error")
		require.ErrorContains(t, err, "can't expire trial", "should describe failed step")
	})
}

func TestUnitReserveImports(t *testing.T) {
	tests := map[string]struct {
		plan      models.Plan
		used      int32
		requested int32
		wantUsed  int32
		wantErr   *quota.ExceededError
	}{
		"fits in limit": {
			plan:      models.PlanStarter,
			used:      18,
			requested: 2,
			wantUsed:  20,
		},
		"exceeds limit": {
			plan:      models.PlanStarter,
			used:      18,
			requested: 5,
			wantUsed:  18,
			wantErr:   &quota.ExceededError{Plan: models.PlanStarter, Limit: 20, Used: 18, Requested: 5},
		},
		"growth limit": {
			plan:      models.PlanGrowth,
			used:      0,
			requested: 100,
			wantUsed:  100,
		},
		"expired trial": {
			plan:      models.PlanTrialExpired,
			used:      3,
			requested: 1,
			wantUsed:  3,
			wantErr:   &quota.ExceededError{Plan: models.PlanTrialExpired, Limit: 0, Used: 3, Requested: 1},
		},
		"unlimited skips check": {
			plan:      models.PlanUnlimited,
			used:      100000,
			requested: 500,
			wantUsed:  100000,
		},
		"nothing requested": {
			plan:      models.PlanTrialExpired,
			requested: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			mem := quotatesting.NewMemory(models.ShopSubscription{
				Shop:        shop,
				Plan:        tt.plan,
				TrialUsed:   true,
				ImportCount: tt.used,
				PeriodStart: now.Add(-time.Hour),
			})
			gov := quota.NewGovernor(mem, quota.WithClock(fakeClock{now: now}))

			err := gov.ReserveImports(context.TODO(), shop, tt.requested)

			if tt.wantErr == nil {
				require.NoError(t, err, "shouldn't return any error")
			} else {
				var exceeded *quota.ExceededError
				require.ErrorAs(t, err, &exceeded, "should return quota exceeded error")
				assert.Equal(t, tt.wantErr, exceeded, "should describe exceeded quota")
				assert.NotEmpty(t, platform.UserMessage(err), "should carry user message")
			}

			sub, err := mem.GetSubscription(context.TODO(), shop)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUsed, sub.ImportCount, "should store correct usage")
		})
	}
}

func TestUnitReserveImportsConcurrently(t *testing.T) {
	const attempts = 64

	limit := quota.Details(models.PlanStarter).Limit
	mem := quotatesting.NewMemory(models.ShopSubscription{
		Shop:        shop,
		Plan:        models.PlanStarter,
		TrialUsed:   true,
		ImportCount: 7,
		PeriodStart: now.Add(-time.Hour),
	})
	gov := quota.NewGovernor(mem, quota.WithClock(fakeClock{now: now}))

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		exceeded  atomic.Int32
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := gov.ReserveImports(context.TODO(), shop, 1)
			if err == nil {
				succeeded.Add(1)
				return
			}
			var exErr *quota.ExceededError
			if assert.ErrorAs(t, err, &exErr) {
				exceeded.Add(1)
			}
		}()
	}
	wg.Wait()

	sub, err := mem.GetSubscription(context.TODO(), shop)
	require.NoError(t, err)
	assert.Equal(t, limit, sub.ImportCount, "should fill quota exactly")
	assert.Equal(t, limit-7, succeeded.Load(), "should allow only remaining reservations")
	assert.Equal(t, int32(attempts)-(limit-7), exceeded.Load(), "should reject the rest")
}

func TestUnitReserveImportsStorageError(t *testing.T) {
	storage := mocks.NewStorage(t)
	storage.On("GetSubscription", mock.Anything, shop).Return(&models.ShopSubscription{
		Shop:        shop,
		Plan:        models.PlanGrowth,
		PeriodStart: now,
	}, nil)
	storage.On("IncrementImportCount", mock.Anything, shop, int32(3), int32(100)).Return(assert.AnError)

	err := quota.NewGovernor(storage, quota.WithClock(fakeClock{now: now})).ReserveImports(context.TODO(), shop, 3)

	require.ErrorIs(t, err, assert.AnError, "should return storage error")
	require.ErrorContains(t, err, "can't reserve imports", "should describe failed step")
}

func TestUnitRemaining(t *testing.T) {
	tests := map[string]struct {
		sub  models.ShopSubscription
		want quota.Quota
	}{
		"trial": {
			sub:  modelstesting.FakeSubscription(func(s *models.ShopSubscription) { s.ImportCount = 12 }),
			want: quota.Quota{Limit: 50, Used: 12, Remaining: 38},
		},
		"starter full": {
			sub: modelstesting.FakeSubscription(func(s *models.ShopSubscription) {
				s.Plan = models.PlanStarter
				s.ImportCount = 20
			}),
			want: quota.Quota{Limit: 20, Used: 20, Remaining: 0},
		},
		"clamped to zero": {
			sub: modelstesting.FakeSubscription(func(s *models.ShopSubscription) {
				s.Plan = models.PlanStarter
				s.ImportCount = 35
			}),
			want: quota.Quota{Limit: 20, Used: 35, Remaining: 0},
		},
		"expired trial": {
			sub:  modelstesting.FakeSubscription(func(s *models.ShopSubscription) { s.Plan = models.PlanTrialExpired }),
			want: quota.Quota{Limit: 0, Used: 0, Remaining: 0},
		},
		"unlimited": {
			sub: modelstesting.FakeSubscription(func(s *models.ShopSubscription) {
				s.Plan = models.PlanUnlimited
				s.ImportCount = 1234
			}),
			want: quota.Quota{Used: 1234, Unlimited: true},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, quota.Remaining(&tt.sub), "should return correct quota")
		})
	}
}

func TestUnitSetPlan(t *testing.T) {
	mem := quotatesting.NewMemory(models.ShopSubscription{
		Shop:        shop,
		Plan:        models.PlanTrial,
		ImportCount: 45,
		PeriodStart: now.Add(-10 * 24 * time.Hour),
		TrialEndsAt: lo.ToPtr(now.Add(time.Hour)),
	})
	gov := quota.NewGovernor(mem, quota.WithClock(fakeClock{now: now}))

	require.NoError(t, gov.SetPlan(context.TODO(), shop, models.PlanStarter), "shouldn't return any error")

	sub, err := mem.GetSubscription(context.TODO(), shop)
	require.NoError(t, err)
	assert.Equal(t, models.ShopSubscription{
		Shop:        shop,
		Plan:        models.PlanStarter,
		TrialUsed:   true,
		ImportCount: 0,
		PeriodStart: now,
	}, *sub, "should switch plan and reset usage")

	require.ErrorIs(t, gov.SetPlan(context.TODO(), shop, "PLATINUM"), quota.ErrUnknownSubscription,
		"should reject unknown plan")
}

func TestUnitExpire(t *testing.T) {
	mem := quotatesting.NewMemory(models.ShopSubscription{Shop: shop, Plan: models.PlanGrowth, PeriodStart: now})
	gov := quota.NewGovernor(mem, quota.WithClock(fakeClock{now: now}))

	require.NoError(t, gov.Expire(context.TODO(), shop), "shouldn't return any error")

	err := gov.ReserveImports(context.TODO(), shop, 1)
	var exceeded *quota.ExceededError
	require.ErrorAs(t, err, &exceeded, "should block imports after expiry")
	assert.Equal(t, models.PlanTrialExpired, exceeded.Plan, "should report expired plan")
}

func TestUnitSetPlanRejectsTrial(t *testing.T) {
	mem := quotatesting.NewMemory(models.ShopSubscription{
		Shop:        shop,
		Plan:        models.PlanTrialExpired,
		TrialUsed:   true,
		PeriodStart: now,
	})
	gov := quota.NewGovernor(mem, quota.WithClock(fakeClock{now: now}))

	require.ErrorIs(t, gov.SetPlan(context.TODO(), shop, models.PlanTrial), quota.ErrPlanNotAssignable,
		"shouldn't restart trial")

	// trial must stay expired even long after
	gov = quota.NewGovernor(mem, quota.WithClock(fakeClock{now: now.Add(10 * 24 * time.Hour)}))
	sub, err := gov.GetOrCreateSubscription(context.TODO(), shop)
	require.NoError(t, err)
	assert.Equal(t, models.PlanTrialExpired, sub.Plan, "should keep expired trial")

	var exceeded *quota.ExceededError
	require.ErrorAs(t, gov.ReserveImports(context.TODO(), shop, 50), &exceeded, "should block imports")
}

func TestUnitErase(t *testing.T) {
	storage := mocks.NewStorage(t)
	storage.On("DeleteShopData", mock.Anything, shop).Return(nil).Once()
	storage.On("DeleteShopData", mock.Anything, shop).Return(assert.AnError).Once()

	gov := quota.NewGovernor(storage)

	require.NoError(t, gov.Erase(context.TODO(), shop), "shouldn't return any error")
	require.ErrorIs(t, gov.Erase(context.TODO(), shop), assert.AnError, "should return storage error")
}

func TestUnitApplySubscriptionUpdate(t *testing.T) {
	tests := map[string]struct {
		update   quota.SubscriptionUpdate
		wantPlan models.Plan
		wantErr  error
	}{
		"active starter by name": {
			update:   quota.SubscriptionUpdate{Name: "Starter plan", Price: "4.99", Status: "ACTIVE"},
			wantPlan: models.PlanStarter,
		},
		"active growth by price": {
			update:   quota.SubscriptionUpdate{Name: "Monthly", Price: "4.99", Status: "active"},
			wantPlan: models.PlanGrowth,
		},
		"active unlimited by price with trailing zero": {
			update:   quota.SubscriptionUpdate{Name: "", Price: "9.990", Status: "ACTIVE"},
			wantPlan: models.PlanUnlimited,
		},
		"active unknown subscription": {
			update:   quota.SubscriptionUpdate{Name: "Enterprise", Price: "99.00", Status: "ACTIVE"},
			wantPlan: models.PlanTrial,
			wantErr:  quota.ErrUnknownSubscription,
		},
		"cancelled": {
			update:   quota.SubscriptionUpdate{Name: "Growth", Price: "4.99", Status: "CANCELLED"},
			wantPlan: models.PlanTrialExpired,
		},
		"frozen": {
			update:   quota.SubscriptionUpdate{Name: "Growth", Price: "4.99", Status: "FROZEN"},
			wantPlan: models.PlanTrialExpired,
		},
		"pending is ignored": {
			update:   quota.SubscriptionUpdate{Name: "Growth", Price: "4.99", Status: "PENDING"},
			wantPlan: models.PlanTrial,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			mem := quotatesting.NewMemory(models.ShopSubscription{
				Shop:        shop,
				Plan:        models.PlanTrial,
				PeriodStart: now,
				TrialEndsAt: lo.ToPtr(now.Add(time.Hour)),
			})
			gov := quota.NewGovernor(mem, quota.WithClock(fakeClock{now: now}))

			update := tt.update
			update.Shop = shop
			err := gov.ApplySubscriptionUpdate(context.TODO(), update)

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")

			sub, err := mem.GetSubscription(context.TODO(), shop)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPlan, sub.Plan, "should set correct plan")
		})
	}
}

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time {
	return c.now
}
