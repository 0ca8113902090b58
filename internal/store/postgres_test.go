package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
)

func TestPostgres_SaveBoundaryQuery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	st := NewPostgresWithPool(mock)

	mock.ExpectExec("INSERT INTO boundary_queries").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 2, 750000.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(
		pgx.Identifier{"boundary_query_details"},
		[]string{"query_id", "ssl", "address", "assessed_value"},
	).WillReturnResult(2)

	q := &model.BoundaryQuery{
		ParcelCount: 2,
		TotalValue:  750000,
		Details: []model.ParcelDetail{
			{SSL: "0100 0001", Address: "1 FIRST ST NW", AssessedValue: 500000},
			{SSL: "0100 0002", Address: "2 SECOND ST NE", AssessedValue: 250000},
		},
	}
	require.NoError(t, st.SaveBoundaryQuery(context.Background(), q))
	assert.NotEmpty(t, q.ID)
	assert.False(t, q.RequestedAt.IsZero())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveBoundaryQuery_NoDetailsSkipsCopy(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	st := NewPostgresWithPool(mock)

	mock.ExpectExec("INSERT INTO boundary_queries").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 0, 0.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, st.SaveBoundaryQuery(context.Background(), &model.BoundaryQuery{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LatestBoundaryQuery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	st := NewPostgresWithPool(mock)

	requested := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM boundary_queries").
		WillReturnRows(pgxmock.NewRows([]string{"id", "requested_at", "parcel_count", "total_value"}).
			AddRow("q-1", requested, 2, 750000.0))
	mock.ExpectQuery("FROM boundary_query_details").
		WithArgs("q-1").
		WillReturnRows(pgxmock.NewRows([]string{"ssl", "address", "assessed_value"}).
			AddRow("0100 0001", "1 FIRST ST NW", 500000.0).
			AddRow("0100 0002", "2 SECOND ST NE", 250000.0))

	got, err := st.LatestBoundaryQuery(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "q-1", got.ID)
	assert.Equal(t, requested, got.RequestedAt)
	require.Len(t, got.Details, 2)
	assert.Equal(t, "0100 0001", got.Details[0].SSL)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LatestBoundaryQuery_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	st := NewPostgresWithPool(mock)

	mock.ExpectQuery("FROM boundary_queries").WillReturnError(pgx.ErrNoRows)

	got, err := st.LatestBoundaryQuery(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListBoundaryQueries(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	st := NewPostgresWithPool(mock)

	mock.ExpectQuery("FROM boundary_queries").
		WithArgs(20).
		WillReturnRows(pgxmock.NewRows([]string{"id", "requested_at", "parcel_count", "total_value"}).
			AddRow("q-2", time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), 5, 900000.0).
			AddRow("q-1", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), 2, 750000.0))

	queries, err := st.ListBoundaryQueries(context.Background(), QueryFilter{Limit: 20})
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, "q-2", queries[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Migrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	st := NewPostgresWithPool(mock)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS boundary_queries").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
