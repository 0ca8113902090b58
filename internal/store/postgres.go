package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/db"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_boundary_query": `INSERT INTO boundary_queries (id, requested_at, parcel_count, total_value) VALUES ($1, $2, $3, $4)`,
	"latest_boundary_query": `SELECT id, requested_at, parcel_count, total_value FROM boundary_queries ORDER BY requested_at DESC, id DESC LIMIT 1`,
	"boundary_details":      `SELECT ssl, address, assessed_value FROM boundary_query_details WHERE query_id = $1 ORDER BY seq`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Tests inject pgxmock here.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS boundary_queries (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	requested_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	parcel_count INTEGER NOT NULL,
	total_value  DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS boundary_query_details (
	seq            BIGSERIAL PRIMARY KEY,
	query_id       TEXT NOT NULL REFERENCES boundary_queries(id),
	ssl            TEXT NOT NULL,
	address        TEXT NOT NULL,
	assessed_value DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_boundary_queries_requested_at ON boundary_queries(requested_at DESC);
CREATE INDEX IF NOT EXISTS idx_boundary_query_details_query_id ON boundary_query_details(query_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveBoundaryQuery(ctx context.Context, q *model.BoundaryQuery) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.RequestedAt.IsZero() {
		q.RequestedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO boundary_queries (id, requested_at, parcel_count, total_value) VALUES ($1, $2, $3, $4)`,
		q.ID, q.RequestedAt, q.ParcelCount, q.TotalValue,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert boundary query")
	}

	rows := make([][]any, 0, len(q.Details))
	for _, d := range q.Details {
		rows = append(rows, []any{q.ID, d.SSL, d.Address, d.AssessedValue})
	}
	_, err = db.CopyFrom(ctx, s.pool, "boundary_query_details",
		[]string{"query_id", "ssl", "address", "assessed_value"}, rows)
	return eris.Wrapf(err, "postgres: copy details for query %s", q.ID)
}

func (s *PostgresStore) LatestBoundaryQuery(ctx context.Context) (*model.BoundaryQuery, error) {
	var q model.BoundaryQuery
	err := s.pool.QueryRow(ctx,
		`SELECT id, requested_at, parcel_count, total_value FROM boundary_queries
		 ORDER BY requested_at DESC, id DESC LIMIT 1`,
	).Scan(&q.ID, &q.RequestedAt, &q.ParcelCount, &q.TotalValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: latest boundary query")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT ssl, address, assessed_value FROM boundary_query_details WHERE query_id = $1 ORDER BY seq`,
		q.ID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: details for query %s", q.ID)
	}
	defer rows.Close()

	for rows.Next() {
		var d model.ParcelDetail
		if err := rows.Scan(&d.SSL, &d.Address, &d.AssessedValue); err != nil {
			return nil, eris.Wrap(err, "postgres: scan detail")
		}
		q.Details = append(q.Details, d)
	}
	return &q, eris.Wrap(rows.Err(), "postgres: details iterate")
}

func (s *PostgresStore) ListBoundaryQueries(ctx context.Context, filter QueryFilter) ([]model.BoundaryQuery, error) {
	query := `SELECT id, requested_at, parcel_count, total_value FROM boundary_queries
	          ORDER BY requested_at DESC, id DESC`
	args := []any{}
	argIdx := 1

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list boundary queries")
	}
	defer rows.Close()

	var out []model.BoundaryQuery
	for rows.Next() {
		var q model.BoundaryQuery
		if err := rows.Scan(&q.ID, &q.RequestedAt, &q.ParcelCount, &q.TotalValue); err != nil {
			return nil, eris.Wrap(err, "postgres: scan boundary query")
		}
		out = append(out, q)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list iterate")
}
