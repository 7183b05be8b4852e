package quota

import (
	"errors"
	"fmt"

	"github.com/MichalMitros/storefront-importer/internal/platform/models"
)

// ErrUnknownSubscription is returned when active subscription can't be mapped into any plan.
var ErrUnknownSubscription = errors.New("unknown subscription")

// ErrPlanNotAssignable is returned when plan can't be set by billing.
var ErrPlanNotAssignable = errors.New("plan can't be assigned")

// ExceededError is returned when reservation doesn't fit into shop's remaining quota.
type ExceededError struct {
	Plan      models.Plan
	Limit     int32
	Used      int32
	Requested int32
}

// Error returns error message.
func (e *ExceededError) Error() string {
	return fmt.Sprintf(
		"import quota exceeded (plan: %s, limit: %d, used: %d, requested: %d)",
		e.Plan, e.Limit, e.Used, e.Requested,
	)
}

// UserMessage returns plain-language message asking user to upgrade.
func (e *ExceededError) UserMessage() string {
	if e.Plan == models.PlanTrialExpired {
		return "Your free trial has ended. Please upgrade your plan to continue importing."
	}

	return fmt.Sprintf(
		"Import limit reached. Your %s plan allows %d imports per month. "+
			"You have used %d and are trying to import %d more.",
		Details(e.Plan).Label, e.Limit, e.Used, e.Requested,
	)
}
