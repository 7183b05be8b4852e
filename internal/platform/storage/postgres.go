package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/storefront-importer/internal/platform"
	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/MichalMitros/storefront-importer/internal/platform/storage/gen/postgres/public/table"
	"github.com/samber/lo"

	pgmodels "github.com/MichalMitros/storefront-importer/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

// Postgres is storage for shop subscriptions and import jobs.
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns new Postgres.
func NewPostgres(db *sql.DB) Postgres {
	return Postgres{
		db: db,
	}
}

// GetSubscription returns shop's subscription or platform.ErrNotFound.
func (p Postgres) GetSubscription(ctx context.Context, shop string) (*models.ShopSubscription, error) {
	sub, err := getSubscription(ctx, p.db, shop)
	if err != nil {
		return nil, err
	}

	return ToAppSubscription(sub), nil
}

// CreateSubscription inserts subscription unless shop already has one and returns the stored subscription.
// Concurrent first accesses converge on a single row.
func (p Postgres) CreateSubscription(
	ctx context.Context,
	sub *models.ShopSubscription,
) (*models.ShopSubscription, error) {
	var stored *pgmodels.ShopSubscription

	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		_, err := table.ShopSubscription.INSERT(
			table.ShopSubscription.Shop,
			table.ShopSubscription.Plan,
			table.ShopSubscription.TrialUsed,
			table.ShopSubscription.ImportCount,
			table.ShopSubscription.PeriodStart,
			table.ShopSubscription.TrialEndsAt,
		).
			MODEL(toDBSubscription(sub)).
			ON_CONFLICT(table.ShopSubscription.Shop).
			DO_NOTHING().
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't insert subscription into database: %w", err)
		}

		if stored, err = getSubscription(ctx, tx, sub.Shop); err != nil {
			return fmt.Errorf("can't get inserted subscription: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't create subscription: %w", err)
	}

	return ToAppSubscription(stored), nil
}

// SaveSubscription upserts plan, usage and period of subscription.
func (p Postgres) SaveSubscription(ctx context.Context, sub *models.ShopSubscription) error {
	columnList := pg.ColumnList{
		table.ShopSubscription.Shop,
		table.ShopSubscription.Plan,
		table.ShopSubscription.TrialUsed,
		table.ShopSubscription.ImportCount,
		table.ShopSubscription.PeriodStart,
		table.ShopSubscription.TrialEndsAt,
	}

	_, err := table.ShopSubscription.INSERT(columnList).
		MODEL(toDBSubscription(sub)).
		ON_CONFLICT(table.ShopSubscription.Shop).
		DO_UPDATE(
			pg.SET(
				table.ShopSubscription.Plan.SET(table.ShopSubscription.EXCLUDED.Plan),
				table.ShopSubscription.TrialUsed.SET(table.ShopSubscription.EXCLUDED.TrialUsed),
				table.ShopSubscription.ImportCount.SET(table.ShopSubscription.EXCLUDED.ImportCount),
				table.ShopSubscription.PeriodStart.SET(table.ShopSubscription.EXCLUDED.PeriodStart),
				table.ShopSubscription.TrialEndsAt.SET(table.ShopSubscription.EXCLUDED.TrialEndsAt),
				table.ShopSubscription.UpdatedAt.SET(pg.NOW()),
			),
		).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't save subscription: %w", err)
	}

	return nil
}

// ExpireTrial moves shop from trial to expired trial. Shops on other plans are not changed.
func (p Postgres) ExpireTrial(ctx context.Context, shop string) error {
	_, err := table.ShopSubscription.UPDATE().
		SET(
			table.ShopSubscription.Plan.SET(pg.String(string(models.PlanTrialExpired))),
			table.ShopSubscription.TrialUsed.SET(pg.Bool(true)),
			table.ShopSubscription.UpdatedAt.SET(pg.NOW()),
		).
		WHERE(pg.AND(
			table.ShopSubscription.Shop.EQ(pg.String(shop)),
			table.ShopSubscription.Plan.EQ(pg.String(string(models.PlanTrial))),
		)).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't expire trial: %w", err)
	}

	return nil
}

// ResetPeriod starts new billing period at to and resets usage, only if current period started at from.
// Period already reset by concurrent access is not an error.
func (p Postgres) ResetPeriod(ctx context.Context, shop string, from, to time.Time) error {
	_, err := table.ShopSubscription.UPDATE().
		SET(
			table.ShopSubscription.ImportCount.SET(pg.Int32(0)),
			table.ShopSubscription.PeriodStart.SET(pg.TimestampzT(to)),
			table.ShopSubscription.UpdatedAt.SET(pg.NOW()),
		).
		WHERE(pg.AND(
			table.ShopSubscription.Shop.EQ(pg.String(shop)),
			table.ShopSubscription.PeriodStart.EQ(pg.TimestampzT(from)),
		)).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't reset billing period: %w", err)
	}

	return nil
}

// IncrementImportCount adds n to shop's usage only if the result doesn't exceed limit.
// It returns platform.ErrLimitReached when nothing was updated.
func (p Postgres) IncrementImportCount(ctx context.Context, shop string, n, limit int32) error {
	result, err := table.ShopSubscription.UPDATE().
		SET(
			table.ShopSubscription.ImportCount.SET(table.ShopSubscription.ImportCount.ADD(pg.Int32(n))),
			table.ShopSubscription.UpdatedAt.SET(pg.NOW()),
		).
		WHERE(pg.AND(
			table.ShopSubscription.Shop.EQ(pg.String(shop)),
			table.ShopSubscription.ImportCount.ADD(pg.Int32(n)).LT_EQ(pg.Int32(limit)),
		)).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't increment import count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't increment import count: %w", err)
	}

	if rowsAffected == 0 {
		return platform.ErrLimitReached
	}

	return nil
}

// DeleteShopData deletes all shop's jobs and its subscription.
func (p Postgres) DeleteShopData(ctx context.Context, shop string) error {
	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		_, err := table.ImportJob.DELETE().
			WHERE(table.ImportJob.Shop.EQ(pg.String(shop))).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't delete import jobs: %w", err)
		}

		_, err = table.ShopSubscription.DELETE().
			WHERE(table.ShopSubscription.Shop.EQ(pg.String(shop))).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't delete subscription: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("can't delete shop data: %w", err)
	}

	return nil
}

// CreateJobs inserts pending jobs and returns them with IDs assigned.
func (p Postgres) CreateJobs(ctx context.Context, jobs []models.ImportJob) ([]models.ImportJob, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	dbJobs := lo.Map(jobs, func(_ models.ImportJob, ix int) pgmodels.ImportJob {
		job := jobs[ix]
		job.Status = models.JobStatusPending
		return *ToDBJob(&job)
	})

	inserted := make([]pgmodels.ImportJob, 0, len(jobs))
	err := table.ImportJob.INSERT(
		table.ImportJob.Shop,
		table.ImportJob.ProductTitle,
		table.ImportJob.Status,
		table.ImportJob.SourceURL,
	).
		MODELS(dbJobs).
		RETURNING(table.ImportJob.AllColumns).
		QueryContext(ctx, p.db, &inserted)
	if err != nil {
		return nil, fmt.Errorf("can't insert import jobs: %w", err)
	}

	return lo.Map(inserted, func(_ pgmodels.ImportJob, ix int) models.ImportJob {
		return ToAppJob(&inserted[ix])
	}), nil
}

// GetJob returns import job or platform.ErrNotFound.
func (p Postgres) GetJob(ctx context.Context, id int64) (*models.ImportJob, error) {
	var job pgmodels.ImportJob
	err := table.ImportJob.SELECT(table.ImportJob.AllColumns).
		WHERE(table.ImportJob.ID.EQ(pg.Int64(id))).
		QueryContext(ctx, p.db, &job)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, platform.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't get import job: %w", err)
	}

	return lo.ToPtr(ToAppJob(&job)), nil
}

// CompleteJob marks pending job as completed with remote product ID.
// It returns platform.ErrJobNotPending when job is missing or already finished.
func (p Postgres) CompleteJob(ctx context.Context, id int64, productID string) error {
	return finishJob(ctx, p.db, id,
		table.ImportJob.Status.SET(pg.String(string(models.JobStatusCompleted))),
		table.ImportJob.ProductID.SET(pg.String(productID)),
		table.ImportJob.UpdatedAt.SET(pg.NOW()),
	)
}

// FailJob marks pending job as failed with plain-language message.
// It returns platform.ErrJobNotPending when job is missing or already finished.
func (p Postgres) FailJob(ctx context.Context, id int64, message string) error {
	return finishJob(ctx, p.db, id,
		table.ImportJob.Status.SET(pg.String(string(models.JobStatusFailed))),
		table.ImportJob.StatusMessage.SET(pg.String(message)),
		table.ImportJob.UpdatedAt.SET(pg.NOW()),
	)
}

// ListJobs returns shop's newest jobs first.
func (p Postgres) ListJobs(ctx context.Context, shop string, limit int64) ([]models.ImportJob, error) {
	jobs := []pgmodels.ImportJob{}
	err := table.ImportJob.SELECT(table.ImportJob.AllColumns).
		WHERE(table.ImportJob.Shop.EQ(pg.String(shop))).
		ORDER_BY(table.ImportJob.CreatedAt.DESC(), table.ImportJob.ID.DESC()).
		LIMIT(limit).
		QueryContext(ctx, p.db, &jobs)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("can't list import jobs: %w", err)
	}

	return lo.Map(jobs, func(_ pgmodels.ImportJob, ix int) models.ImportJob {
		return ToAppJob(&jobs[ix])
	}), nil
}

func finishJob(ctx context.Context, db qrm.DB, id int64, assignments ...any) error {
	result, err := table.ImportJob.UPDATE().
		SET(assignments[0], assignments[1:]...).
		WHERE(pg.AND(
			table.ImportJob.ID.EQ(pg.Int64(id)),
			table.ImportJob.Status.EQ(pg.String(string(models.JobStatusPending))),
		)).
		ExecContext(ctx, db)
	if err != nil {
		return fmt.Errorf("can't update import job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't update import job: %w", err)
	}

	if rowsAffected == 0 {
		return platform.ErrJobNotPending
	}

	return nil
}

func getSubscription(ctx context.Context, db qrm.DB, shop string) (*pgmodels.ShopSubscription, error) {
	var sub pgmodels.ShopSubscription
	err := table.ShopSubscription.SELECT(table.ShopSubscription.AllColumns).
		WHERE(table.ShopSubscription.Shop.EQ(pg.String(shop))).
		QueryContext(ctx, db, &sub)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, platform.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't get subscription: %w", err)
	}

	return &sub, nil
}

func runInTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var (
		tx  *sql.Tx
		err error
	)

	if tx, err = db.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("can't rollback transaction: %w (rollback reason: %w)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}
