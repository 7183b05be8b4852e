package quota

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MichalMitros/storefront-importer/internal/platform"
	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name Storage --filename storage.go

// Storage is shop subscriptions storage.
type Storage interface {
	// GetSubscription returns shop's subscription or platform.ErrNotFound.
	GetSubscription(ctx context.Context, shop string) (*models.ShopSubscription, error)
	// CreateSubscription inserts subscription if shop has none and returns the stored one.
	CreateSubscription(ctx context.Context, sub *models.ShopSubscription) (*models.ShopSubscription, error)
	// SaveSubscription upserts subscription's plan, usage and period.
	SaveSubscription(ctx context.Context, sub *models.ShopSubscription) error
	// ExpireTrial moves shop on trial plan into expired trial.
	ExpireTrial(ctx context.Context, shop string) error
	// ResetPeriod resets usage and moves period start from from to to.
	ResetPeriod(ctx context.Context, shop string, from, to time.Time) error
	// IncrementImportCount adds n to usage if it doesn't exceed limit, returns platform.ErrLimitReached otherwise.
	IncrementImportCount(ctx context.Context, shop string, n, limit int32) error
	// DeleteShopData deletes shop's subscription and jobs.
	DeleteShopData(ctx context.Context, shop string) error
}

// Clock provides times.
type Clock interface {
	// Now returns current UTC time.
	Now() time.Time
}

// Quota is shop's usage in current billing period.
type Quota struct {
	Limit     int32
	Used      int32
	Remaining int32
	Unlimited bool
}

// SubscriptionUpdate is subscription change reported by billing.
type SubscriptionUpdate struct {
	Shop   string `json:"shop"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Status string `json:"status"`
}

// Option is custom configuration of Governor.
type Option func(g *Governor)

// Governor enforces plans, trial window and monthly import limits of shops.
type Governor struct {
	storage Storage
	clock   Clock
	logger  *zerolog.Logger
}

// NewGovernor returns new Governor.
func NewGovernor(storage Storage, ops ...Option) *Governor {
	nop := zerolog.Nop()
	gov := &Governor{
		storage: storage,
		clock:   systemClock{},
		logger:  &nop,
	}

	for _, op := range ops {
		op(gov)
	}

	return gov
}

// GetOrCreateSubscription returns shop's subscription, creating trial on first access.
// Trial expiry and billing period rollover are applied before returning.
func (g *Governor) GetOrCreateSubscription(ctx context.Context, shop string) (*models.ShopSubscription, error) {
	now := g.clock.Now()

	sub, err := g.storage.GetSubscription(ctx, shop)
	if errors.Is(err, platform.ErrNotFound) {
		sub, err = g.storage.CreateSubscription(ctx, &models.ShopSubscription{
			Shop:        shop,
			Plan:        models.PlanTrial,
			PeriodStart: now,
			TrialEndsAt: lo.ToPtr(now.Add(TrialDuration)),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("can't get subscription: %w", err)
	}

	changed := false

	if sub.Plan == models.PlanTrial && sub.TrialEndsAt != nil && now.After(*sub.TrialEndsAt) {
		if err := g.storage.ExpireTrial(ctx, shop); err != nil {
			return nil, fmt.Errorf("can't expire trial: %w", err)
		}
		g.logger.Info().Str("shop", shop).Msg("trial expired")
		changed = true
	}

	if now.Sub(sub.PeriodStart) >= PeriodDuration {
		if err := g.storage.ResetPeriod(ctx, shop, sub.PeriodStart, now); err != nil {
			return nil, fmt.Errorf("can't roll over billing period: %w", err)
		}
		changed = true
	}

	if !changed {
		return sub, nil
	}

	if sub, err = g.storage.GetSubscription(ctx, shop); err != nil {
		return nil, fmt.Errorf("can't get updated subscription: %w", err)
	}

	return sub, nil
}

// ReserveImports reserves n imports from shop's quota. It returns ExceededError when they don't fit.
// Reservation is a single conditional update, so concurrent reservations never exceed the limit.
func (g *Governor) ReserveImports(ctx context.Context, shop string, n int32) error {
	if n <= 0 {
		return nil
	}

	sub, err := g.GetOrCreateSubscription(ctx, shop)
	if err != nil {
		return fmt.Errorf("can't reserve imports: %w", err)
	}

	details := Details(sub.Plan)
	if details.Unlimited {
		return nil
	}

	if details.Limit == 0 {
		return &ExceededError{Plan: sub.Plan, Limit: 0, Used: sub.ImportCount, Requested: n}
	}

	err = g.storage.IncrementImportCount(ctx, shop, n, details.Limit)
	if errors.Is(err, platform.ErrLimitReached) {
		used := sub.ImportCount
		if current, err := g.storage.GetSubscription(ctx, shop); err == nil {
			used = current.ImportCount
		}
		return &ExceededError{Plan: sub.Plan, Limit: details.Limit, Used: used, Requested: n}
	}
	if err != nil {
		return fmt.Errorf("can't reserve imports: %w", err)
	}

	return nil
}

// Remaining returns subscription's quota in current period.
func Remaining(sub *models.ShopSubscription) Quota {
	details := Details(sub.Plan)
	if details.Unlimited {
		return Quota{Used: sub.ImportCount, Unlimited: true}
	}

	return Quota{
		Limit:     details.Limit,
		Used:      sub.ImportCount,
		Remaining: max(details.Limit-sub.ImportCount, 0),
	}
}

// Remaining returns shop's quota in current period.
func (g *Governor) Remaining(ctx context.Context, shop string) (Quota, error) {
	sub, err := g.GetOrCreateSubscription(ctx, shop)
	if err != nil {
		return Quota{}, fmt.Errorf("can't get remaining quota: %w", err)
	}

	return Remaining(sub), nil
}

// SetPlan switches shop to plan, resetting usage and starting new billing period.
// Trial is only granted on first access, so it can't be set.
func (g *Governor) SetPlan(ctx context.Context, shop string, plan models.Plan) error {
	if _, ok := plans[plan]; !ok {
		return fmt.Errorf("can't set plan %q: %w", plan, ErrUnknownSubscription)
	}
	if plan == models.PlanTrial {
		return fmt.Errorf("can't set plan %q: %w", plan, ErrPlanNotAssignable)
	}

	err := g.storage.SaveSubscription(ctx, &models.ShopSubscription{
		Shop:        shop,
		Plan:        plan,
		TrialUsed:   true,
		PeriodStart: g.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("can't set plan: %w", err)
	}

	g.logger.Info().Str("shop", shop).Str("plan", string(plan)).Msg("plan changed")

	return nil
}

// Expire blocks further imports of shop by moving it into expired trial.
func (g *Governor) Expire(ctx context.Context, shop string) error {
	return g.SetPlan(ctx, shop, models.PlanTrialExpired)
}

// Erase deletes all shop's data.
func (g *Governor) Erase(ctx context.Context, shop string) error {
	if err := g.storage.DeleteShopData(ctx, shop); err != nil {
		return fmt.Errorf("can't erase shop data: %w", err)
	}

	g.logger.Info().Str("shop", shop).Msg("shop data erased")

	return nil
}

// ApplySubscriptionUpdate applies billing subscription change. Active subscriptions set the matching plan,
// cancelled, declined, frozen and expired ones expire the shop. Other statuses are ignored.
func (g *Governor) ApplySubscriptionUpdate(ctx context.Context, upd SubscriptionUpdate) error {
	switch strings.ToUpper(upd.Status) {
	case "ACTIVE":
		plan, ok := PlanForSubscription(upd.Name, upd.Price)
		if !ok {
			return fmt.Errorf("can't map subscription %q (price %q): %w", upd.Name, upd.Price, ErrUnknownSubscription)
		}
		return g.SetPlan(ctx, upd.Shop, plan)
	case "CANCELLED", "DECLINED", "FROZEN", "EXPIRED":
		return g.Expire(ctx, upd.Shop)
	default:
		g.logger.Debug().
			Str("shop", upd.Shop).
			Str("status", upd.Status).
			Msg("subscription update ignored")
		return nil
	}
}

// WithClock sets Governor's custom Clock.
func WithClock(c Clock) Option {
	return func(g *Governor) {
		g.clock = c
	}
}

// WithLogger sets Governor's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(g *Governor) {
		g.logger = logger
	}
}
