package quotatesting

import (
	"context"
	"sync"
	"time"

	"github.com/MichalMitros/storefront-importer/internal/platform"
	"github.com/MichalMitros/storefront-importer/internal/platform/models"
)

// Memory is in-memory subscriptions storage. Every operation is atomic like single row update in database.
type Memory struct {
	mu   sync.Mutex
	subs map[string]models.ShopSubscription
}

// NewMemory returns Memory with provided subscriptions stored.
func NewMemory(subs ...models.ShopSubscription) *Memory {
	mem := &Memory{subs: make(map[string]models.ShopSubscription, len(subs))}
	for _, sub := range subs {
		mem.subs[sub.Shop] = sub
	}
	return mem
}

// GetSubscription returns copy of stored subscription or platform.ErrNotFound.
func (m *Memory) GetSubscription(_ context.Context, shop string) (*models.ShopSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subs[shop]
	if !ok {
		return nil, platform.ErrNotFound
	}

	return &sub, nil
}

// CreateSubscription stores sub unless shop already has subscription.
func (m *Memory) CreateSubscription(_ context.Context, sub *models.ShopSubscription) (*models.ShopSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if stored, ok := m.subs[sub.Shop]; ok {
		return &stored, nil
	}

	stored := *sub
	m.subs[sub.Shop] = stored

	return &stored, nil
}

// SaveSubscription stores sub.
func (m *Memory) SaveSubscription(_ context.Context, sub *models.ShopSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs[sub.Shop] = *sub

	return nil
}

// ExpireTrial moves shop on trial into expired trial.
func (m *Memory) ExpireTrial(_ context.Context, shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subs[shop]
	if ok && sub.Plan == models.PlanTrial {
		sub.Plan = models.PlanTrialExpired
		sub.TrialUsed = true
		m.subs[shop] = sub
	}

	return nil
}

// ResetPeriod resets usage if period started at from.
func (m *Memory) ResetPeriod(_ context.Context, shop string, from, to time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subs[shop]
	if ok && sub.PeriodStart.Equal(from) {
		sub.ImportCount = 0
		sub.PeriodStart = to
		m.subs[shop] = sub
	}

	return nil
}

// IncrementImportCount adds n to usage if it doesn't exceed limit.
func (m *Memory) IncrementImportCount(_ context.Context, shop string, n, limit int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subs[shop]
	if !ok || sub.ImportCount+n > limit {
		return platform.ErrLimitReached
	}

	sub.ImportCount += n
	m.subs[shop] = sub

	return nil
}

// DeleteShopData deletes shop's subscription.
func (m *Memory) DeleteShopData(_ context.Context, shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.subs, shop)

	return nil
}
