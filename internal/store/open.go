package store

import (
	"context"

	"github.com/rotisserie/eris"
)

// Open builds the store for the configured driver, "sqlite" or "postgres",
// and runs migrations before returning it.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var s Store
	switch driver {
	case "", "sqlite":
		sq, err := NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		s = sq
	case "postgres":
		pg, err := NewPostgres(ctx, dsn, nil)
		if err != nil {
			return nil, err
		}
		s = pg
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}

	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}
