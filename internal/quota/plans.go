package quota

import (
	"strings"
	"time"

	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/shopspring/decimal"
)

const (
	// TrialDuration is length of free trial counted from subscription creation.
	TrialDuration = 48 * time.Hour
	// PeriodDuration is length of billing period after which usage is reset.
	PeriodDuration = 30 * 24 * time.Hour
)

// PlanDetails describes limits and price of a plan.
type PlanDetails struct {
	Plan      models.Plan
	Label     string
	Limit     int32
	Unlimited bool
	Price     decimal.Decimal
	// BillingKey is matched against subscription names reported by billing.
	BillingKey string
}

var plans = map[models.Plan]PlanDetails{
	models.PlanTrial: {
		Plan:  models.PlanTrial,
		Label: "Free Trial",
		Limit: 50,
		Price: decimal.Zero,
	},
	models.PlanStarter: {
		Plan:       models.PlanStarter,
		Label:      "Starter",
		Limit:      20,
		Price:      decimal.RequireFromString("2.99"),
		BillingKey: "starter",
	},
	models.PlanGrowth: {
		Plan:       models.PlanGrowth,
		Label:      "Growth",
		Limit:      100,
		Price:      decimal.RequireFromString("4.99"),
		BillingKey: "growth",
	},
	models.PlanTrialExpired: {
		Plan:  models.PlanTrialExpired,
		Label: "Trial Expired",
		Limit: 0,
		Price: decimal.Zero,
	},
	models.PlanUnlimited: {
		Plan:       models.PlanUnlimited,
		Label:      "Unlimited",
		Unlimited:  true,
		Price:      decimal.RequireFromString("9.99"),
		BillingKey: "unlimited",
	},
}

// paidPlans are plans which can be bought, ordered from the most specific billing key.
var paidPlans = []models.Plan{models.PlanUnlimited, models.PlanGrowth, models.PlanStarter}

// Details returns details of plan. Unknown plans have zero limit.
func Details(plan models.Plan) PlanDetails {
	if details, ok := plans[plan]; ok {
		return details
	}
	return PlanDetails{Plan: plan, Label: string(plan)}
}

// PlanForSubscription maps billing subscription into plan. Subscription name is matched first,
// price is used when name doesn't contain any billing key.
func PlanForSubscription(name, price string) (models.Plan, bool) {
	lowerName := strings.ToLower(name)
	for _, plan := range paidPlans {
		if strings.Contains(lowerName, plans[plan].BillingKey) {
			return plan, true
		}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return "", false
	}

	for _, plan := range paidPlans {
		if plans[plan].Price.Equal(amount) {
			return plan, true
		}
	}

	return "", false
}
