package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStorage implements Storage using Postgres as the backend.
type PostgresStorage struct {
	*sqlStore
}

var _ Storage = (*PostgresStorage)(nil)

func NewPostgresStorage(ctx context.Context, dsn string) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	s, err := newPostgresStorage(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func newPostgresStorage(ctx context.Context, db *sql.DB) (*PostgresStorage, error) {
	store, err := newSQLStore(ctx, db, true)
	if err != nil {
		return nil, err
	}
	return &PostgresStorage{sqlStore: store}, nil
}
