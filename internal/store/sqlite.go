package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS boundary_queries (
	id           TEXT PRIMARY KEY,
	requested_at DATETIME NOT NULL DEFAULT (datetime('now')),
	parcel_count INTEGER NOT NULL,
	total_value  REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS boundary_query_details (
	query_id       TEXT NOT NULL REFERENCES boundary_queries(id),
	ssl            TEXT NOT NULL,
	address        TEXT NOT NULL,
	assessed_value REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_boundary_queries_requested_at ON boundary_queries(requested_at);
CREATE INDEX IF NOT EXISTS idx_boundary_query_details_query_id ON boundary_query_details(query_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveBoundaryQuery(ctx context.Context, q *model.BoundaryQuery) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.RequestedAt.IsZero() {
		q.RequestedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO boundary_queries (id, requested_at, parcel_count, total_value) VALUES (?, ?, ?, ?)`,
		q.ID, q.RequestedAt, q.ParcelCount, q.TotalValue,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert boundary query")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO boundary_query_details (query_id, ssl, address, assessed_value) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare detail insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, d := range q.Details {
		if _, err := stmt.ExecContext(ctx, q.ID, d.SSL, d.Address, d.AssessedValue); err != nil {
			return eris.Wrapf(err, "sqlite: insert detail for query %s", q.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit boundary query")
}

func (s *SQLiteStore) LatestBoundaryQuery(ctx context.Context) (*model.BoundaryQuery, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, requested_at, parcel_count, total_value FROM boundary_queries
		 ORDER BY requested_at DESC, id DESC LIMIT 1`,
	)

	var q model.BoundaryQuery
	err := row.Scan(&q.ID, &q.RequestedAt, &q.ParcelCount, &q.TotalValue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest boundary query")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT ssl, address, assessed_value FROM boundary_query_details WHERE query_id = ? ORDER BY rowid`,
		q.ID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: details for query %s", q.ID)
	}
	defer rows.Close()

	for rows.Next() {
		var d model.ParcelDetail
		if err := rows.Scan(&d.SSL, &d.Address, &d.AssessedValue); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan detail")
		}
		q.Details = append(q.Details, d)
	}
	return &q, eris.Wrap(rows.Err(), "sqlite: details iterate")
}

func (s *SQLiteStore) ListBoundaryQueries(ctx context.Context, filter QueryFilter) ([]model.BoundaryQuery, error) {
	query := `SELECT id, requested_at, parcel_count, total_value FROM boundary_queries
	          ORDER BY requested_at DESC, id DESC`
	var args []any

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list boundary queries")
	}
	defer rows.Close()

	var out []model.BoundaryQuery
	for rows.Next() {
		var q model.BoundaryQuery
		if err := rows.Scan(&q.ID, &q.RequestedAt, &q.ParcelCount, &q.TotalValue); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan boundary query")
		}
		out = append(out, q)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list iterate")
}
