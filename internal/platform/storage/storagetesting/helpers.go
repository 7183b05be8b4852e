package storagetesting

import (
	"database/sql"
	"errors"
	"os"
	"testing"

	pgmodels "github.com/MichalMitros/storefront-importer/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/storefront-importer/internal/platform/storage/gen/postgres/public/table"
	"github.com/MichalMitros/storefront-importer/migrations"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"

	_ "github.com/lib/pq"
)

// Open opens connection to DB and applies pending migrations.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	if err := migrations.Up(db); err != nil {
		t.Fatalf("can't migrate database: %s", err)
	}

	return db
}

// InsertSubscriptions is a helper test function to insert subscriptions.
func InsertSubscriptions(t *testing.T, exc qrm.Executable, subs ...pgmodels.ShopSubscription) {
	t.Helper()

	if len(subs) == 0 {
		return
	}

	_, err := table.ShopSubscription.INSERT(table.ShopSubscription.AllColumns).MODELS(subs).Exec(exc)
	if err != nil {
		t.Fatal("can't insert subscriptions", err)
	}
}

// InsertJobs is a helper test function to insert import jobs. Returns jobs with IDs assigned.
func InsertJobs(t *testing.T, db qrm.DB, jobs ...pgmodels.ImportJob) []pgmodels.ImportJob {
	t.Helper()

	if len(jobs) == 0 {
		return nil
	}

	inserted := []pgmodels.ImportJob{}
	err := table.ImportJob.INSERT(table.ImportJob.AllColumns.Except(table.ImportJob.ID)).
		MODELS(jobs).
		RETURNING(table.ImportJob.AllColumns).
		Query(db, &inserted)
	if err != nil {
		t.Fatal("can't insert import jobs", err)
	}

	return inserted
}

// GetSubscription is a helper test function to get subscription by shop. Returns nil when it doesn't exist.
func GetSubscription(t *testing.T, queryable qrm.Queryable, shop string) *pgmodels.ShopSubscription {
	t.Helper()

	var sub pgmodels.ShopSubscription
	err := table.ShopSubscription.SELECT(table.ShopSubscription.AllColumns).
		WHERE(table.ShopSubscription.Shop.EQ(pg.String(shop))).
		Query(queryable, &sub)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil
	}
	if err != nil {
		t.Fatal("can't get subscription", err)
	}

	return &sub
}

// GetJobs is a helper test function to get all shop's jobs ordered by ID.
func GetJobs(t *testing.T, queryable qrm.Queryable, shop string) []pgmodels.ImportJob {
	t.Helper()

	jobs := []pgmodels.ImportJob{}
	err := table.ImportJob.SELECT(table.ImportJob.AllColumns).
		WHERE(table.ImportJob.Shop.EQ(pg.String(shop))).
		ORDER_BY(table.ImportJob.ID.ASC()).
		Query(queryable, &jobs)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		t.Fatal("can't get import jobs", err)
	}

	return jobs
}

// CleanupData is a helper test function to delete all subscriptions and jobs.
func CleanupData(t *testing.T, exc qrm.Executable) {
	t.Helper()

	_, err := table.ImportJob.DELETE().WHERE(table.ImportJob.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete import jobs data", err)
	}

	_, err = table.ShopSubscription.DELETE().WHERE(table.ShopSubscription.Shop.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete subscriptions data", err)
	}
}
