package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/roadwise/roadwise/model"
	"github.com/roadwise/roadwise/utils"
)

const createPredictionsTable = `
CREATE TABLE IF NOT EXISTS predictions (
	id TEXT PRIMARY KEY,
	created_at BIGINT NOT NULL,
	mode TEXT NOT NULL,
	risk_score INTEGER NOT NULL,
	risk_level TEXT NOT NULL,
	data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS predictions_created_at ON predictions (created_at);
`

// sqlStore implements Storage over database/sql. SQLite and Postgres share
// the schema and statements; only placeholders differ.
type sqlStore struct {
	db       *sql.DB
	numbered bool
}

func newSQLStore(ctx context.Context, db *sql.DB, numbered bool) (*sqlStore, error) {
	if _, err := db.ExecContext(ctx, createPredictionsTable); err != nil {
		return nil, fmt.Errorf("failed to create predictions table: %w", err)
	}
	return &sqlStore{db: db, numbered: numbered}, nil
}

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func (s *sqlStore) rebind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) SavePrediction(ctx context.Context, p *model.Prediction) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction: %w", err)
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`
INSERT INTO predictions (id, created_at, mode, risk_score, risk_level, data)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET created_at=excluded.created_at, mode=excluded.mode, risk_score=excluded.risk_score, risk_level=excluded.risk_level, data=excluded.data
`), p.ID.String(), p.CreatedAt.UnixNano(), p.Mode, p.RiskScore, p.RiskLevel, string(data))
	if err != nil {
		return fmt.Errorf("failed to save prediction %s: %w", p.ID, err)
	}
	return nil
}

func (s *sqlStore) GetPrediction(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	var data string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT data FROM predictions WHERE id=?`), id.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodePrediction(data)
}

func (s *sqlStore) ListPredictions(ctx context.Context, limit int) ([]*model.Prediction, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT data FROM predictions ORDER BY created_at DESC, id LIMIT ?`), ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			utils.Warn("Failed to close prediction rows: %v", err)
		}
	}()

	out := []*model.Prediction{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		p, err := decodePrediction(data)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func decodePrediction(data string) (*model.Prediction, error) {
	var p model.Prediction
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to decode stored prediction: %w", err)
	}
	return &p, nil
}
