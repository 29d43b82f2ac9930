// Package store implements engine.Store on PostgreSQL via pgx.
package store

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourorg/foundry/internal/engine"
)

type Store struct {
	pool *pgxpool.Pool
}

var _ engine.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
