package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/roadwise/roadwise/model"
)

// MemoryStorage implements Storage in-memory (for tests and ephemeral hosts).
type MemoryStorage struct {
	mu          sync.RWMutex
	predictions map[uuid.UUID]*model.Prediction
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{predictions: make(map[uuid.UUID]*model.Prediction)}
}

func (m *MemoryStorage) SavePrediction(ctx context.Context, p *model.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.predictions[p.ID] = &cp
	return nil
}

func (m *MemoryStorage) GetPrediction(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.predictions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStorage) ListPredictions(ctx context.Context, limit int) ([]*model.Prediction, error) {
	m.mu.RLock()
	out := make([]*model.Prediction, 0, len(m.predictions))
	for _, p := range m.predictions {
		cp := *p
		out = append(out, &cp)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if limit = ClampLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStorage) Close() error { return nil }
