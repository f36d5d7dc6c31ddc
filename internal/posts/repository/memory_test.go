package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romariotrain/athlete-posts/internal/posts/models"
)

func TestMemoryRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	p, err := models.NewPost(uuid.New(), "a1", "https://cdn/x", "", models.Video, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p))

	// mutating the caller's copy must not leak into the store
	p.Caption = "changed"

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Caption)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryRepository_Errors(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.ErrorIs(t, repo.Create(ctx, nil), models.ErrInvalidArgument)
	require.ErrorIs(t, repo.Create(ctx, &models.Post{}), models.ErrInvalidArgument)

	p := &models.Post{ID: uuid.New(), MediaType: models.Photo}
	require.NoError(t, repo.Create(ctx, p))
	require.ErrorIs(t, repo.Create(ctx, p), models.ErrConflict)

	_, err := repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, models.ErrNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, repo.Create(cancelled, &models.Post{ID: uuid.New()}), context.Canceled)
}
