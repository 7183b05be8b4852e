package importer

import (
	"context"
	"fmt"

	"github.com/MichalMitros/storefront-importer/internal/platform"
	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/MichalMitros/storefront-importer/internal/quota"
	"github.com/MichalMitros/storefront-importer/pkg/v1/commander"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name Scraper --filename scraper.go
//go:generate mockery --name Quota --filename quota.go
//go:generate mockery --name Jobs --filename jobs.go
//go:generate mockery --name Commander --filename commander.go
//go:generate mockery --name Progress --filename progress.go
//go:generate mockery --name Metrics --filename metrics.go

// MaxListedJobs is maximal number of jobs returned by ListJobs.
const MaxListedJobs = 100

// Scraper scrapes storefronts.
type Scraper interface {
	Preview(ctx context.Context, rawURL string) ([]models.ScrapedProduct, error)
}

// Quota is shops import quota.
type Quota interface {
	Remaining(ctx context.Context, shop string) (quota.Quota, error)
	ReserveImports(ctx context.Context, shop string, n int32) error
}

// Jobs is import jobs storage.
type Jobs interface {
	CreateJobs(ctx context.Context, jobs []models.ImportJob) ([]models.ImportJob, error)
	FailJob(ctx context.Context, id int64, message string) error
	ListJobs(ctx context.Context, shop string, limit int64) ([]models.ImportJob, error)
}

// Commander sends import commands to workers.
type Commander interface {
	SendImportCommand(ctx context.Context, cmd commander.ImportCommand) error
}

// Progress returns progress of pending jobs.
type Progress interface {
	Get(ctx context.Context, jobID int64) (int, error)
}

// Metrics counts quota reservations.
type Metrics interface {
	Reserved(result string)
}

// Reservation results.
const (
	ReservationFull      = "reserved"
	ReservationTruncated = "truncated"
	ReservationExhausted = "exhausted"
	ReservationFailed    = "failed"
)

// StartImportRequest is request to import products into shop.
type StartImportRequest struct {
	Shop        string                  `validate:"required"`
	AccessToken string                  `validate:"required"`
	Products    []models.ScrapedProduct `validate:"required,min=1,dive"`
}

// StartImportResult is result of queueing import.
type StartImportResult struct {
	// Jobs are created import jobs, one per queued product.
	Jobs []models.ImportJob
	// Queued is number of jobs sent to workers.
	Queued int
	// Truncated reports whether products were cut to remaining quota.
	Truncated bool
}

// JobView is import job with its progress.
type JobView struct {
	models.ImportJob
	Progress int
}

// Option is custom configuration of Service.
type Option func(s *Service)

// Service handles inbound import operations.
type Service struct {
	scraper   Scraper
	quota     Quota
	jobs      Jobs
	commander Commander
	progress  Progress
	metrics   Metrics
	validate  *validator.Validate
	logger    *zerolog.Logger
}

// NewService returns new Service.
func NewService(
	scraper Scraper,
	quotas Quota,
	jobs Jobs,
	cmdr Commander,
	logger *zerolog.Logger,
	ops ...Option,
) *Service {
	s := &Service{
		scraper:   scraper,
		quota:     quotas,
		jobs:      jobs,
		commander: cmdr,
		metrics:   nopMetrics{},
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}

	for _, op := range ops {
		op(s)
	}

	return s
}

// Preview scrapes products from storefront URL. Returned errors carry user-facing messages.
func (s *Service) Preview(ctx context.Context, rawURL string) ([]models.ScrapedProduct, error) {
	return s.scraper.Preview(ctx, rawURL)
}

// StartImport reserves quota and queues one import job per product.
// Batch exceeding remaining quota is truncated, batch is rejected when no quota is left.
func (s *Service) StartImport(ctx context.Context, req StartImportRequest) (*StartImportResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	q, err := s.quota.Remaining(ctx, req.Shop)
	if err != nil {
		return nil, fmt.Errorf("can't get remaining quota: %w", err)
	}

	products := req.Products
	if !q.Unlimited {
		if q.Remaining <= 0 {
			s.metrics.Reserved(ReservationExhausted)
			return nil, ErrQuotaExhausted
		}
		if int32(len(products)) > q.Remaining {
			products = products[:q.Remaining]
		}
	}

	if err := s.quota.ReserveImports(ctx, req.Shop, int32(len(products))); err != nil {
		s.metrics.Reserved(ReservationFailed)
		return nil, fmt.Errorf("can't reserve imports: %w", err)
	}
	if len(products) < len(req.Products) {
		s.metrics.Reserved(ReservationTruncated)
	} else {
		s.metrics.Reserved(ReservationFull)
	}

	jobs, err := s.jobs.CreateJobs(ctx, lo.Map(products, func(p models.ScrapedProduct, _ int) models.ImportJob {
		return models.ImportJob{
			Shop:         req.Shop,
			ProductTitle: p.Title,
			SourceURL:    p.SourceURL,
			Status:       models.JobStatusPending,
		}
	}))
	if err != nil {
		return nil, fmt.Errorf("can't create import jobs: %w", err)
	}

	result := &StartImportResult{
		Jobs:      jobs,
		Truncated: len(products) < len(req.Products),
	}

	for ix, job := range jobs {
		err := s.commander.SendImportCommand(ctx, commander.ImportCommand{
			JobID:       job.ID,
			Shop:        req.Shop,
			AccessToken: req.AccessToken,
			Product:     products[ix],
		})
		if err != nil {
			s.failUnsent(ctx, job.ID, err)
			continue
		}
		result.Queued++
	}

	return result, nil
}

func (s *Service) failUnsent(ctx context.Context, jobID int64, sendErr error) {
	s.logger.Error().
		Err(sendErr).
		Int64("jobId", jobID).
		Msg("can't queue import job")

	if err := s.jobs.FailJob(ctx, jobID, platform.DefaultUserMessage); err != nil {
		s.logger.Error().
			Err(err).
			Int64("jobId", jobID).
			Msg("can't fail unqueued import job")
	}
}

// ListJobs returns shop's newest jobs, at most MaxListedJobs.
func (s *Service) ListJobs(ctx context.Context, shop string, limit int) ([]JobView, error) {
	if limit <= 0 || limit > MaxListedJobs {
		limit = MaxListedJobs
	}

	jobs, err := s.jobs.ListJobs(ctx, shop, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("can't list import jobs: %w", err)
	}

	return lo.Map(jobs, func(job models.ImportJob, _ int) JobView {
		return JobView{ImportJob: job, Progress: s.jobProgress(ctx, job)}
	}), nil
}

func (s *Service) jobProgress(ctx context.Context, job models.ImportJob) int {
	if job.Status != models.JobStatusPending {
		return 100
	}

	if s.progress == nil {
		return 0
	}

	progress, err := s.progress.Get(ctx, job.ID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("jobId", job.ID).
			Msg("can't get job progress")
		return 0
	}

	return progress
}

// WithProgress sets Progress used to report progress of pending jobs.
func WithProgress(p Progress) Option {
	return func(s *Service) {
		s.progress = p
	}
}

// WithMetrics sets Metrics counting quota reservations.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

type nopMetrics struct{}

func (nopMetrics) Reserved(string) {}
