package repository

import (
	"context"

	"github.com/romariotrain/athlete-posts/internal/posts/models"
)

type PostRepository interface {
	Create(ctx context.Context, p *models.Post) error
}
