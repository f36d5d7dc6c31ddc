package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/romariotrain/athlete-posts/internal/posts/models"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]*models.Post
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		data: make(map[uuid.UUID]*models.Post),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, p *models.Post) error {
	if p == nil || p.ID == uuid.Nil {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[p.ID]; exists {
		return models.ErrConflict
	}

	// store a copy so callers cannot mutate the record
	cp := *p
	r.data[p.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if id == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.data[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
