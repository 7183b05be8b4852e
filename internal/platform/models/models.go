package models

import "time"

// MaxVariantOptions is number of positional option slots supported by destination platform.
const MaxVariantOptions = 3

// ScrapedProduct is normalized product scraped from storefront catalog.
type ScrapedProduct struct {
	Title           string           `json:"title" validate:"required"`
	DescriptionHTML string           `json:"descriptionHtml"`
	Vendor          string           `json:"vendor"`
	SourceURL       string           `json:"sourceUrl" validate:"required,url"`
	Images          []string         `json:"images"`
	Options         []ProductOption  `json:"options" validate:"dive"`
	Variants        []ProductVariant `json:"variants" validate:"dive"`
}

// HasRealOptions reports whether product has options other than the single default "Title" option.
func (p ScrapedProduct) HasRealOptions() bool {
	if len(p.Options) == 0 {
		return false
	}
	return !(len(p.Options) == 1 && p.Options[0].Name == "Title")
}

// ProductOption is product option definition, e.g. Size with its values.
type ProductOption struct {
	Name   string   `json:"name" validate:"required"`
	Values []string `json:"values"`
}

// ProductVariant is single purchasable variant of product.
type ProductVariant struct {
	Title             string                    `json:"title"`
	Price             string                    `json:"price"`
	SKU               string                    `json:"sku"`
	InventoryQuantity int                       `json:"inventoryQuantity" validate:"gte=0"`
	Options           [MaxVariantOptions]string `json:"options"`
}

// SelectedOptions returns non-empty positional option selections.
func (v ProductVariant) SelectedOptions() []string {
	selected := make([]string, 0, MaxVariantOptions)
	for _, opt := range v.Options {
		if opt != "" {
			selected = append(selected, opt)
		}
	}
	return selected
}

// Plan is subscription plan of shop.
type Plan string

const (
	PlanTrial        Plan = "TRIAL"
	PlanTrialExpired Plan = "TRIAL_EXPIRED"
	PlanStarter      Plan = "STARTER"
	PlanGrowth       Plan = "GROWTH"
	PlanUnlimited    Plan = "UNLIMITED"
)

// ShopSubscription is shop's plan and usage in current billing period.
type ShopSubscription struct {
	Shop        string
	Plan        Plan
	TrialUsed   bool
	ImportCount int32
	PeriodStart time.Time
	TrialEndsAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JobStatus is import job status.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// ImportJob is single product import attempt.
type ImportJob struct {
	ID            int64
	Shop          string
	ProductTitle  string
	Status        JobStatus
	SourceURL     string
	ProductID     *string
	StatusMessage *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
