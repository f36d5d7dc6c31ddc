package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/romariotrain/athlete-posts/internal/posts/models"
)

type OutboxRepo struct {
	db    *sqlx.DB
	clock func() time.Time
}

type OutboxRecord struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	AggregateID string    `db:"aggregate_id"`
	Payload     string    `db:"payload"`
	OccurredAt  time.Time `db:"occurred_at"`
}

func NewOutboxRepo(db *sqlx.DB) *OutboxRepo {
	return &OutboxRepo{db: db, clock: time.Now}
}

func (r *OutboxRepo) Add(ctx context.Context, tx *sqlx.Tx, event models.DomainEvent) error {
	const q = `
		INSERT INTO outbox (event_id, event_type, aggregate_id, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?)
	`
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(q),
		event.EventID().String(),
		event.EventType(),
		event.AggregateID().String(),
		string(payload),
		event.OccurredAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox: %w", err)
	}
	return nil
}

func (r *OutboxRepo) GetPending(ctx context.Context, limit int) ([]OutboxRecord, error) {
	const q = `
		SELECT event_id, event_type, aggregate_id, payload, occurred_at
		FROM outbox
		WHERE processed_at IS NULL
		ORDER BY occurred_at ASC, event_id ASC
		LIMIT ?
	`

	var records []OutboxRecord
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(q), limit); err != nil {
		return nil, fmt.Errorf("get pending: %w", err)
	}
	return records, nil
}

func (r *OutboxRepo) MarkProcessed(ctx context.Context, eventID string) error {
	const q = `
		UPDATE outbox
		SET processed_at = ?
		WHERE event_id = ?
	`
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(q), r.clock().UTC(), eventID); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}
