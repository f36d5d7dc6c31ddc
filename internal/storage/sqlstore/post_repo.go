package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/romariotrain/athlete-posts/internal/posts/models"
)

type PostRepo struct {
	db     *sqlx.DB
	outbox *OutboxRepo
}

func NewPostRepo(db *sqlx.DB, outbox *OutboxRepo) *PostRepo {
	return &PostRepo{db: db, outbox: outbox}
}

// Create inserts the post and its PostCreated event in one transaction.
func (r *PostRepo) Create(ctx context.Context, p *models.Post) error {
	if p == nil {
		return models.ErrInvalidArgument
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO athlete_posts (id, athlete_id, media_url, caption, media_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, tx.Rebind(q),
		p.ID, p.AthleteID, p.MediaURL, p.Caption, p.MediaType, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("post create: %w", err)
	}

	if r.outbox != nil {
		if err := r.outbox.Add(ctx, tx, models.NewPostCreated(p)); err != nil {
			return fmt.Errorf("add outbox: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	const q = `
		SELECT id, athlete_id, media_url, caption, media_type, created_at
		FROM athlete_posts
		WHERE id = ?
	`

	var p models.Post
	if err := r.db.GetContext(ctx, &p, r.db.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("post get by id: %w", err)
	}
	return &p, nil
}
