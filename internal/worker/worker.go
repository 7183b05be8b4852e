package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/storefront-importer/internal/platform"
	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/MichalMitros/storefront-importer/pkg/v1/commander"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Publisher --filename publisher.go
//go:generate mockery --name Jobs --filename jobs.go
//go:generate mockery --name Rewriter --filename rewriter.go
//go:generate mockery --name ProgressReporter --filename progressreporter.go

// Progress of import job after each stage.
const (
	ProgressRewritten = 10
	ProgressLocated   = 30
	ProgressUploaded  = 70
	ProgressCreated   = 100
)

// Publisher publishes products into single destination shop.
type Publisher interface {
	// PrimaryLocation returns ID of shop's inventory location.
	PrimaryLocation(ctx context.Context) (string, error)
	// UploadMedia uploads image from imageURL and returns handle which can be attached to product.
	UploadMedia(ctx context.Context, imageURL string) (string, error)
	// CreateProduct creates product with media and its variants and returns product ID.
	CreateProduct(
		ctx context.Context,
		product models.ScrapedProduct,
		mediaHandles []string,
		locationID string,
	) (string, error)
}

// PublisherFactory returns Publisher authorized to shop with accessToken.
type PublisherFactory func(shop, accessToken string) Publisher

// Jobs is import jobs storage.
type Jobs interface {
	// GetJob returns import job or platform.ErrNotFound.
	GetJob(ctx context.Context, id int64) (*models.ImportJob, error)
	// CompleteJob marks pending job as completed, returns platform.ErrJobNotPending otherwise.
	CompleteJob(ctx context.Context, id int64, productID string) error
	// FailJob marks pending job as failed, returns platform.ErrJobNotPending otherwise.
	FailJob(ctx context.Context, id int64, message string) error
}

// Rewriter rewrites product description, returning the original one on failure.
type Rewriter interface {
	Rewrite(ctx context.Context, title, html string) string
}

// ProgressReporter reports job progress in percent.
type ProgressReporter interface {
	Report(ctx context.Context, jobID int64, percent int) error
}

// Metrics records pipeline metrics.
type Metrics interface {
	JobFinished(status string)
	ObserveStage(stage string, start time.Time)
	ImagesProcessed(uploaded, failed int)
}

// Option is custom configuration of Worker.
type Option func(w *Worker)

// Worker imports single products into destination shops.
type Worker struct {
	jobs        Jobs
	publishers  PublisherFactory
	rewriter    Rewriter
	progress    ProgressReporter
	metrics     Metrics
	uploadLimit int
	logger      *zerolog.Logger
}

// NewWorker returns new Worker.
func NewWorker(
	jobs Jobs,
	publishers PublisherFactory,
	rewriter Rewriter,
	logger *zerolog.Logger,
	ops ...Option,
) *Worker {
	w := &Worker{
		jobs:        jobs,
		publishers:  publishers,
		rewriter:    rewriter,
		progress:    nopProgress{},
		metrics:     nopMetrics{},
		uploadLimit: DefaultUploadLimit,
		logger:      logger,
	}

	for _, op := range ops {
		op(w)
	}

	return w
}

// Process imports product of cmd and records job's terminal status.
// Jobs which are not pending anymore or don't exist are skipped, so redelivered commands are harmless.
// Error is returned when job failed.
func (w *Worker) Process(ctx context.Context, cmd commander.ImportCommand) error {
	job, err := w.jobs.GetJob(ctx, cmd.JobID)
	if errors.Is(err, platform.ErrNotFound) {
		w.logger.Warn().
			Int64("jobId", cmd.JobID).
			Str("shop", cmd.Shop).
			Msg("import job doesn't exist, skipping")
		return nil
	}
	if err != nil {
		return w.failJob(ctx, cmd.JobID, platform.DefaultUserMessage, fmt.Errorf("can't get import job: %w", err))
	}

	if job.Status != models.JobStatusPending {
		w.logger.Debug().
			Int64("jobId", cmd.JobID).
			Str("status", string(job.Status)).
			Msg("import job already finished, skipping")
		return nil
	}

	w.logger.Info().
		Int64("jobId", cmd.JobID).
		Str("shop", cmd.Shop).
		Str("sourceUrl", cmd.Product.SourceURL).
		Msg("import job started")

	productID, err := w.publish(ctx, cmd)
	if err == nil {
		w.logger.Info().
			Int64("jobId", cmd.JobID).
			Str("shop", cmd.Shop).
			Str("productId", productID).
			Msg("import job completed")
	}

	return w.finishJob(ctx, cmd.JobID, productID, err)
}

func (w *Worker) publish(ctx context.Context, cmd commander.ImportCommand) (string, error) {
	product := cmd.Product
	pub := w.publishers(cmd.Shop, cmd.AccessToken)

	// rewrite description.
	start := time.Now()
	product.DescriptionHTML = w.rewriter.Rewrite(ctx, product.Title, product.DescriptionHTML)
	w.metrics.ObserveStage("rewrite", start)
	w.reportProgress(ctx, cmd.JobID, ProgressRewritten)

	// resolve inventory location.
	start = time.Now()
	locationID, err := pub.PrimaryLocation(ctx)
	w.metrics.ObserveStage("location", start)
	if err != nil {
		return "", fmt.Errorf("can't resolve inventory location: %w", err)
	}
	w.reportProgress(ctx, cmd.JobID, ProgressLocated)

	// upload images, failed ones are skipped.
	start = time.Now()
	uploaded := UploadAll(ctx, pub, product.Images, w.uploadLimit)
	w.metrics.ObserveStage("upload", start)
	w.metrics.ImagesProcessed(len(uploaded.Handles), len(uploaded.Failures))
	for _, failure := range uploaded.Failures {
		w.logger.Warn().
			Err(failure.Err).
			Int64("jobId", cmd.JobID).
			Str("shop", cmd.Shop).
			Str("imageUrl", failure.URL).
			Msg("image skipped")
	}
	w.reportProgress(ctx, cmd.JobID, ProgressUploaded)

	// create product with variants.
	start = time.Now()
	productID, err := pub.CreateProduct(ctx, product, uploaded.Handles, locationID)
	w.metrics.ObserveStage("create", start)
	if err != nil {
		return "", fmt.Errorf("can't create product: %w", err)
	}
	w.reportProgress(ctx, cmd.JobID, ProgressCreated)

	return productID, nil
}

// finishJob records job's terminal status. Job which can't be completed is failed, so it isn't left pending.
func (w *Worker) finishJob(ctx context.Context, jobID int64, productID string, status error) error {
	if status != nil {
		return w.failJob(ctx, jobID, platform.UserMessage(status), status)
	}

	err := w.jobs.CompleteJob(ctx, jobID, productID)
	if errors.Is(err, platform.ErrJobNotPending) {
		w.logger.Warn().
			Int64("jobId", jobID).
			Msg("import job finished concurrently")
		return nil
	}
	if err != nil {
		return w.failJob(ctx, jobID, platform.DefaultUserMessage, fmt.Errorf("can't finish import: %w", err))
	}

	w.metrics.JobFinished(string(models.JobStatusCompleted))

	return nil
}

// failJob marks job failed with message and returns reason.
func (w *Worker) failJob(ctx context.Context, jobID int64, message string, reason error) error {
	err := w.jobs.FailJob(ctx, jobID, message)
	if errors.Is(err, platform.ErrJobNotPending) {
		w.logger.Warn().
			Int64("jobId", jobID).
			Msg("import job finished concurrently")
		return reason
	}
	if err != nil {
		return fmt.Errorf("can't finish failed import: %w (fail reason: %w)", err, reason)
	}

	w.metrics.JobFinished(string(models.JobStatusFailed))

	return reason
}

func (w *Worker) reportProgress(ctx context.Context, jobID int64, percent int) {
	if err := w.progress.Report(ctx, jobID, percent); err != nil {
		w.logger.Warn().
			Err(err).
			Int64("jobId", jobID).
			Int("progress", percent).
			Msg("can't report progress")
	}
}

type nopProgress struct{}

func (nopProgress) Report(context.Context, int64, int) error { return nil }

type nopMetrics struct{}

func (nopMetrics) JobFinished(string)             {}
func (nopMetrics) ObserveStage(string, time.Time) {}
func (nopMetrics) ImagesProcessed(int, int)       {}

// WithProgress sets ProgressReporter.
func WithProgress(p ProgressReporter) Option {
	return func(w *Worker) {
		w.progress = p
	}
}

// WithMetrics sets Metrics.
func WithMetrics(m Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// WithUploadLimit sets maximal number of images uploaded at once.
func WithUploadLimit(limit int) Option {
	return func(w *Worker) {
		if limit > 0 {
			w.uploadLimit = limit
		}
	}
}
