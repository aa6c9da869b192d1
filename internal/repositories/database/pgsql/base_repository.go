package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository holds the shared connection pool. Every mutation in this
// package is a single guarded statement, so repositories work directly on
// the pool.
type BaseRepository struct {
	Pool *pgxpool.Pool
}
