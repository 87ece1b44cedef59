package infrastructure

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewGenerationsPool connects to the generation history database. An empty
// dsn returns a nil pool and the history is kept nowhere.
func NewGenerationsPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, nil
	}
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
