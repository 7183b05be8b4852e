package storage_test

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MichalMitros/storefront-importer/internal/platform"
	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/MichalMitros/storefront-importer/internal/platform/models/modelstesting"
	"github.com/MichalMitros/storefront-importer/internal/platform/storage"
	pgmodels "github.com/MichalMitros/storefront-importer/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/storefront-importer/internal/platform/storage/storagetesting"
	"github.com/go-faker/faker/v4"
	_ "github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

var loc = func() *time.Location {
	loc, err := time.LoadLocation("Etc/UTC")
	if err != nil {
		panic(err)
	}
	return loc
}()

func TestPostgresIntegration(t *testing.T) {
	suite.Run(t, new(PostgresTestSuite))
}

type PostgresTestSuite struct {
	suite.Suite
	DB *sql.DB
}

func (s *PostgresTestSuite) SetupSuite() {
	s.DB = storagetesting.Open(s.T())
	storagetesting.CleanupData(s.T(), s.DB)
}

func (s *PostgresTestSuite) TearDownSuite() {
	storagetesting.CleanupData(s.T(), s.DB)
	if err := s.DB.Close(); err != nil {
		s.FailNow("close DB", err)
	}
}

func (s *PostgresTestSuite) TestIntegrationCreateSubscription() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	periodStart := time.Date(2026, time.January, 10, 12, 0, 0, 0, loc)
	sub := modelstesting.FakeSubscription(func(sub *models.ShopSubscription) {
		sub.PeriodStart = periodStart
		sub.TrialEndsAt = lo.ToPtr(periodStart.Add(48 * time.Hour))
	})

	post := storage.NewPostgres(s.DB)

	created, err := post.CreateSubscription(context.TODO(), &sub)
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(models.PlanTrial, created.Plan, "should create trial subscription")
	s.True(periodStart.Equal(created.PeriodStart), "should store period start")

	// second create must not overwrite existing row
	again := sub
	again.Plan = models.PlanGrowth
	again.ImportCount = 7
	existing, err := post.CreateSubscription(context.TODO(), &again)
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(models.PlanTrial, existing.Plan, "should return already existing subscription")
	s.Equal(int32(0), existing.ImportCount, "should keep existing usage")
}

func (s *PostgresTestSuite) TestIntegrationGetSubscriptionNotFound() {
	post := storage.NewPostgres(s.DB)

	_, err := post.GetSubscription(context.TODO(), faker.Word())

	s.Require().ErrorIs(err, platform.ErrNotFound, "should return not found error")
}

func (s *PostgresTestSuite) TestIntegrationIncrementImportCount() {
	tests := map[string]struct {
		used      int32
		n         int32
		limit     int32
		wantUsed  int32
		wantError error
	}{
		"fits in limit": {
			used:     18,
			n:        2,
			limit:    20,
			wantUsed: 20,
		},
		"exceeds limit": {
			used:      18,
			n:         3,
			limit:     20,
			wantUsed:  18,
			wantError: platform.ErrLimitReached,
		},
		"zero limit": {
			n:         1,
			limit:     0,
			wantUsed:  0,
			wantError: platform.ErrLimitReached,
		},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			defer storagetesting.CleanupData(s.T(), s.DB)

			shop := faker.Word()
			storagetesting.InsertSubscriptions(s.T(), s.DB, fakeDBSubscription(shop, models.PlanStarter, tt.used))

			post := storage.NewPostgres(s.DB)
			err := post.IncrementImportCount(context.TODO(), shop, tt.n, tt.limit)

			s.Require().ErrorIs(err, tt.wantError, "should return correct error")
			s.Equal(tt.wantUsed, storagetesting.GetSubscription(s.T(), s.DB, shop).ImportCount,
				"should store correct usage")
		})
	}
}

func (s *PostgresTestSuite) TestIntegrationIncrementImportCountConcurrently() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	const (
		limit    = int32(20)
		used     = int32(15)
		attempts = 30
	)

	shop := faker.Word()
	storagetesting.InsertSubscriptions(s.T(), s.DB, fakeDBSubscription(shop, models.PlanStarter, used))

	post := storage.NewPostgres(s.DB)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := post.IncrementImportCount(context.TODO(), shop, 1, limit); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(limit-used, succeeded.Load(), "should allow exactly remaining reservations")
	s.Equal(limit, storagetesting.GetSubscription(s.T(), s.DB, shop).ImportCount, "should never exceed limit")
}

func (s *PostgresTestSuite) TestIntegrationExpireTrialAndResetPeriod() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	shop := faker.Word()
	stored := fakeDBSubscription(shop, models.PlanTrial, 12)
	storagetesting.InsertSubscriptions(s.T(), s.DB, stored)

	post := storage.NewPostgres(s.DB)
	newStart := stored.PeriodStart.Add(31 * 24 * time.Hour)

	s.Require().NoError(post.ExpireTrial(context.TODO(), shop), "shouldn't return any error")
	s.Require().NoError(post.ResetPeriod(context.TODO(), shop, stored.PeriodStart, newStart),
		"shouldn't return any error")
	// stale reset is ignored
	s.Require().NoError(post.ResetPeriod(context.TODO(), shop, stored.PeriodStart, newStart.Add(time.Hour)),
		"shouldn't return any error")

	got := storagetesting.GetSubscription(s.T(), s.DB, shop)
	s.Equal(string(models.PlanTrialExpired), got.Plan, "should expire trial")
	s.True(got.TrialUsed, "should mark trial used")
	s.Equal(int32(0), got.ImportCount, "should reset usage")
	s.True(newStart.Equal(got.PeriodStart), "should start new period once")
}

func (s *PostgresTestSuite) TestIntegrationSaveSubscription() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	shop := faker.Word()
	storagetesting.InsertSubscriptions(s.T(), s.DB, fakeDBSubscription(shop, models.PlanTrial, 40))

	post := storage.NewPostgres(s.DB)
	periodStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, loc)

	err := post.SaveSubscription(context.TODO(), &models.ShopSubscription{
		Shop:        shop,
		Plan:        models.PlanGrowth,
		TrialUsed:   true,
		PeriodStart: periodStart,
	})
	s.Require().NoError(err, "shouldn't return any error")

	got := storagetesting.GetSubscription(s.T(), s.DB, shop)
	s.Equal(string(models.PlanGrowth), got.Plan, "should set plan")
	s.Equal(int32(0), got.ImportCount, "should reset usage")
	s.True(periodStart.Equal(got.PeriodStart), "should reset period")
}

func (s *PostgresTestSuite) TestIntegrationJobsLifecycle() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	shop := faker.Word()
	post := storage.NewPostgres(s.DB)

	jobs, err := post.CreateJobs(context.TODO(), []models.ImportJob{
		modelstesting.FakeImportJob(func(j *models.ImportJob) { j.Shop = shop }),
		modelstesting.FakeImportJob(func(j *models.ImportJob) { j.Shop = shop }),
		modelstesting.FakeImportJob(func(j *models.ImportJob) { j.Shop = shop }),
	})
	s.Require().NoError(err, "shouldn't return any error")
	s.Require().Len(jobs, 3, "should create all jobs")
	for ix := range jobs {
		s.NotZero(jobs[ix].ID, "should assign ID")
		s.Equal(models.JobStatusPending, jobs[ix].Status, "should create pending job")
	}

	s.Require().NoError(post.CompleteJob(context.TODO(), jobs[0].ID, "gid://shopify/Product/1"),
		"shouldn't return any error")
	s.Require().NoError(post.FailJob(context.TODO(), jobs[1].ID, platform.DefaultUserMessage),
		"shouldn't return any error")

	s.Require().ErrorIs(post.FailJob(context.TODO(), jobs[0].ID, "late failure"), platform.ErrJobNotPending,
		"shouldn't change finished job")
	s.Require().ErrorIs(post.CompleteJob(context.TODO(), -1, "x"), platform.ErrJobNotPending,
		"should report missing job")

	completed, err := post.GetJob(context.TODO(), jobs[0].ID)
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(models.JobStatusCompleted, completed.Status, "should complete job")
	s.Equal("gid://shopify/Product/1", lo.FromPtr(completed.ProductID), "should store product ID")

	failed, err := post.GetJob(context.TODO(), jobs[1].ID)
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(models.JobStatusFailed, failed.Status, "should fail job")
	s.Equal(platform.DefaultUserMessage, lo.FromPtr(failed.StatusMessage), "should store status message")

	listed, err := post.ListJobs(context.TODO(), shop, 2)
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal([]int64{jobs[2].ID, jobs[1].ID}, lo.Map(listed, func(j models.ImportJob, _ int) int64 { return j.ID }),
		"should list newest jobs first")
}

func (s *PostgresTestSuite) TestIntegrationDeleteShopData() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	shop, otherShop := faker.Word()+"-a", faker.Word()+"-b"
	storagetesting.InsertSubscriptions(s.T(), s.DB,
		fakeDBSubscription(shop, models.PlanGrowth, 3),
		fakeDBSubscription(otherShop, models.PlanGrowth, 3),
	)
	storagetesting.InsertJobs(s.T(), s.DB, fakeDBJob(shop), fakeDBJob(shop), fakeDBJob(otherShop))

	post := storage.NewPostgres(s.DB)

	s.Require().NoError(post.DeleteShopData(context.TODO(), shop), "shouldn't return any error")

	s.Nil(storagetesting.GetSubscription(s.T(), s.DB, shop), "should delete subscription")
	s.Empty(storagetesting.GetJobs(s.T(), s.DB, shop), "should delete jobs")
	s.NotNil(storagetesting.GetSubscription(s.T(), s.DB, otherShop), "shouldn't delete other shop subscription")
	s.Len(storagetesting.GetJobs(s.T(), s.DB, otherShop), 1, "shouldn't delete other shop jobs")
}

func fakeDBSubscription(shop string, plan models.Plan, used int32) pgmodels.ShopSubscription {
	now := time.Now().In(loc).Truncate(time.Microsecond)
	return pgmodels.ShopSubscription{
		Shop:        shop,
		Plan:        string(plan),
		ImportCount: used,
		PeriodStart: now,
		TrialEndsAt: lo.ToPtr(now.Add(48 * time.Hour)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func fakeDBJob(shop string) pgmodels.ImportJob {
	job := modelstesting.FakeImportJob(func(j *models.ImportJob) { j.Shop = shop })
	return *storage.ToDBJob(&job)
}
