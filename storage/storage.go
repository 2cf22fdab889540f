// Package storage persists risk assessments.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/constants"
	"github.com/roadwise/roadwise/model"
)

// ErrNotFound is returned when no prediction has the requested ID.
var ErrNotFound = errors.New("prediction not found")

// List limits.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type Storage interface {
	SavePrediction(ctx context.Context, p *model.Prediction) error
	GetPrediction(ctx context.Context, id uuid.UUID) (*model.Prediction, error)
	// ListPredictions returns the most recent predictions first.
	ListPredictions(ctx context.Context, limit int) ([]*model.Prediction, error)
	Close() error
}

// New opens the storage selected by cfg.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", constants.StorageDriverMemory:
		return NewMemoryStorage(), nil
	case constants.StorageDriverSQLite:
		return NewSqliteStorage(ctx, cfg.DSN)
	case constants.StorageDriverPostgres:
		return NewPostgresStorage(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// ClampLimit applies the default and maximum list sizes.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
