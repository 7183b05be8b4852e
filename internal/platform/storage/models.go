package storage

import (
	"github.com/MichalMitros/storefront-importer/internal/platform/models"

	pgmodels "github.com/MichalMitros/storefront-importer/internal/platform/storage/gen/postgres/public/model"
)

//go:generate make -C ../../../ generate-db

func toDBSubscription(sub *models.ShopSubscription) *pgmodels.ShopSubscription {
	return &pgmodels.ShopSubscription{
		Shop:        sub.Shop,
		Plan:        string(sub.Plan),
		TrialUsed:   sub.TrialUsed,
		ImportCount: sub.ImportCount,
		PeriodStart: sub.PeriodStart,
		TrialEndsAt: sub.TrialEndsAt,
		CreatedAt:   sub.CreatedAt,
		UpdatedAt:   sub.UpdatedAt,
	}
}

// ToAppSubscription converts postgres subscription model into models.ShopSubscription.
func ToAppSubscription(sub *pgmodels.ShopSubscription) *models.ShopSubscription {
	return &models.ShopSubscription{
		Shop:        sub.Shop,
		Plan:        models.Plan(sub.Plan),
		TrialUsed:   sub.TrialUsed,
		ImportCount: sub.ImportCount,
		PeriodStart: sub.PeriodStart,
		TrialEndsAt: sub.TrialEndsAt,
		CreatedAt:   sub.CreatedAt,
		UpdatedAt:   sub.UpdatedAt,
	}
}

// ToDBJob converts models.ImportJob into postgres import job model.
func ToDBJob(job *models.ImportJob) *pgmodels.ImportJob {
	return &pgmodels.ImportJob{
		ID:            job.ID,
		Shop:          job.Shop,
		ProductTitle:  job.ProductTitle,
		Status:        string(job.Status),
		SourceURL:     job.SourceURL,
		ProductID:     job.ProductID,
		StatusMessage: job.StatusMessage,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
}

// ToAppJob converts postgres import job model into models.ImportJob.
func ToAppJob(job *pgmodels.ImportJob) models.ImportJob {
	return models.ImportJob{
		ID:            job.ID,
		Shop:          job.Shop,
		ProductTitle:  job.ProductTitle,
		Status:        models.JobStatus(job.Status),
		SourceURL:     job.SourceURL,
		ProductID:     job.ProductID,
		StatusMessage: job.StatusMessage,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
}
