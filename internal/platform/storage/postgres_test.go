package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MichalMitros/storefront-importer/internal/platform"
	"github.com/MichalMitros/storefront-importer/internal/platform/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	incrementQuery = `(?s)UPDATE public\.shop_subscription.*SET.*import_count.*WHERE.*import_count.*<=`
	finishJobQuery = `(?s)UPDATE public\.import_job.*SET.*WHERE.*status`
)

func TestUnitIncrementImportCount(t *testing.T) {
	tests := map[string]struct {
		result  func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		"row updated": {
			result: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(incrementQuery).WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		"no row updated": {
			result: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(incrementQuery).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: platform.ErrLimitReached,
		},
		"query error": {
			result: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(incrementQuery).WillReturnError(assert.AnError)
			},
			wantErr: assert.AnError,
		},
		"rows affected error": {
			result: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(incrementQuery).WillReturnResult(sqlmock.NewErrorResult(assert.AnError))
			},
			wantErr: assert.AnError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })

			tt.result(mock)

			err = storage.NewPostgres(db).IncrementImportCount(context.TODO(), "shop.myshopify.com", 5, 20)

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")
			require.NoError(t, mock.ExpectationsWereMet(), "should run conditional update")
		})
	}
}

func TestUnitFinishJobNotPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(finishJobQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(finishJobQuery).WillReturnResult(sqlmock.NewResult(0, 0))

	post := storage.NewPostgres(db)

	require.ErrorIs(t, post.CompleteJob(context.TODO(), 1, "gid://shopify/Product/1"), platform.ErrJobNotPending,
		"should report job which is not pending")
	require.ErrorIs(t, post.FailJob(context.TODO(), 1, "reason"), platform.ErrJobNotPending,
		"should report job which is not pending")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitDeleteShopData(t *testing.T) {
	t.Run("commits both deletes", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM public\.import_job`).WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(`DELETE FROM public\.shop_subscription`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = storage.NewPostgres(db).DeleteShopData(context.TODO(), "shop.myshopify.com")

		require.NoError(t, err, "shouldn't return any error")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM public\.import_job`).WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(`DELETE FROM public\.shop_subscription`).WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err = storage.NewPostgres(db).DeleteShopData(context.TODO(), "shop.myshopify.com")

		require.ErrorIs(t, err, assert.AnError, "should return delete error")
		require.ErrorContains(t, err, "can't delete subscription", "should describe failed step")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUnitResetPeriodIgnoresStaleReset(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(`(?s)UPDATE public\.shop_subscription.*period_start`).WillReturnResult(sqlmock.NewResult(0, 0))

	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	err = storage.NewPostgres(db).ResetPeriod(context.TODO(), "shop.myshopify.com", from, from.AddDate(0, 0, 30))

	require.NoError(t, err, "shouldn't treat already reset period as error")
	require.NoError(t, mock.ExpectationsWereMet())
}
