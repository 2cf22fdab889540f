package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/roadwise/roadwise/utils"
	_ "modernc.org/sqlite"
)

// SqliteStorage implements Storage using SQLite as the backend.
type SqliteStorage struct {
	*sqlStore
}

var _ Storage = (*SqliteStorage)(nil)

func NewSqliteStorage(ctx context.Context, dsn string) (*SqliteStorage, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	// Only create parent directories if not using in-memory SQLite (":memory:").
	if dsn != ":memory:" {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, utils.Errorf("failed to create db directory %q: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store, err := newSQLStore(ctx, db, false)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SqliteStorage{sqlStore: store}, nil
}
