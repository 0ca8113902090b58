package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(
		pgx.Identifier{"boundary_query_details"},
		[]string{"query_id", "ssl", "address", "assessed_value"},
	).WillReturnResult(2)

	rows := [][]any{
		{"q-1", "0100 0001", "1 FIRST ST NW", 500000.0},
		{"q-1", "0100 0002", "2 SECOND ST NE", 250000.0},
	}
	n, err := CopyFrom(context.Background(), mock, "boundary_query_details",
		[]string{"query_id", "ssl", "address", "assessed_value"}, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_EmptyRowsSkipsCopy(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	n, err := CopyFrom(context.Background(), mock, "boundary_query_details",
		[]string{"query_id"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(
		pgx.Identifier{"boundary_query_details"},
		[]string{"query_id"},
	).WillReturnError(errors.New("connection reset"))

	_, err = CopyFrom(context.Background(), mock, "boundary_query_details",
		[]string{"query_id"}, [][]any{{"q-1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO boundary_query_details")

	require.NoError(t, mock.ExpectationsWereMet())
}
