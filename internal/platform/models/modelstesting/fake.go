package modelstesting

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/go-faker/faker/v4"
	"github.com/samber/lo"
)

// FakeScrapedProduct returns models.ScrapedProduct with fake data, random images and variants with real options.
func FakeScrapedProduct(ops ...func(p *models.ScrapedProduct)) models.ScrapedProduct {
	product := models.ScrapedProduct{
		Title:           faker.Word(),
		DescriptionHTML: fmt.Sprintf("<p>%s</p>", faker.Sentence()),
		Vendor:          faker.Word(),
		SourceURL:       fmt.Sprintf("https://%s.myshopify.com/products/%s", faker.Word(), faker.Word()),
		Images:          fakeImages(),
		Options: []models.ProductOption{
			{Name: "Size", Values: []string{"S", "M", "L"}},
		},
		Variants: []models.ProductVariant{
			FakeVariant(func(v *models.ProductVariant) { v.Options = [models.MaxVariantOptions]string{"S"} }),
			FakeVariant(func(v *models.ProductVariant) { v.Options = [models.MaxVariantOptions]string{"M"} }),
			FakeVariant(func(v *models.ProductVariant) { v.Options = [models.MaxVariantOptions]string{"L"} }),
		},
	}

	for _, op := range ops {
		op(&product)
	}

	return product
}

// FakeVariant returns models.ProductVariant with fake data.
func FakeVariant(ops ...func(v *models.ProductVariant)) models.ProductVariant {
	variant := models.ProductVariant{
		Title:             faker.Word(),
		Price:             fmt.Sprintf("%d.%02d", rand.Intn(500), rand.Intn(100)),
		SKU:               faker.Word(),
		InventoryQuantity: rand.Intn(100),
	}

	for _, op := range ops {
		op(&variant)
	}

	return variant
}

// FakeSubscription returns models.ShopSubscription on trial plan with fake shop.
func FakeSubscription(ops ...func(s *models.ShopSubscription)) models.ShopSubscription {
	now := time.Now().UTC()
	sub := models.ShopSubscription{
		Shop:        fmt.Sprintf("%s.myshopify.com", faker.Word()),
		Plan:        models.PlanTrial,
		PeriodStart: now,
		TrialEndsAt: lo.ToPtr(now.Add(48 * time.Hour)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, op := range ops {
		op(&sub)
	}

	return sub
}

// FakeImportJob returns pending models.ImportJob with fake data.
func FakeImportJob(ops ...func(j *models.ImportJob)) models.ImportJob {
	now := time.Now().UTC()
	job := models.ImportJob{
		ID:           rand.Int63(),
		Shop:         fmt.Sprintf("%s.myshopify.com", faker.Word()),
		ProductTitle: faker.Word(),
		Status:       models.JobStatusPending,
		SourceURL:    fmt.Sprintf("https://%s.myshopify.com/products/%s", faker.Word(), faker.Word()),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for _, op := range ops {
		op(&job)
	}

	return job
}

func fakeImages() []string {
	imagesLen := rand.Intn(4) + 1
	images := make([]string, 0, imagesLen)
	for range imagesLen {
		images = append(images, fmt.Sprintf("https://cdn.example.com/%s.jpg", faker.Word()))
	}

	return images
}
