package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/romariotrain/athlete-posts/internal/storage/sqlstore"
)

type Store interface {
	GetPending(ctx context.Context, limit int) ([]sqlstore.OutboxRecord, error)
	MarkProcessed(ctx context.Context, eventID string) error
}

type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Publisher relays outbox rows to Kafka with at-least-once delivery.
type Publisher struct {
	store     Store
	producer  Producer
	interval  time.Duration
	batchSize int
	logger    zerolog.Logger
}

type PublisherConfig struct {
	Store     Store
	Producer  Producer
	Interval  time.Duration
	BatchSize int
	Logger    zerolog.Logger
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if cfg.Store == nil {
		return nil, errors.New("outbox store is required")
	}
	if cfg.Producer == nil {
		return nil, errors.New("kafka producer is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got: %v", cfg.Interval)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got: %d", cfg.BatchSize)
	}

	return &Publisher{
		store:     cfg.Store,
		producer:  cfg.Producer,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		logger:    cfg.Logger.With().Str("component", "outbox_publisher").Logger(),
	}, nil
}

// Start polls the outbox until ctx is cancelled. A failed batch is logged and retried
// on the next tick.
func (p *Publisher) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info().
		Dur("interval", p.interval).
		Int("batch_size", p.batchSize).
		Msg("outbox publisher started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("outbox publisher stopped")
			return ctx.Err()

		case <-ticker.C:
			if _, err := p.PublishBatch(ctx); err != nil {
				p.logger.Error().Err(err).Msg("failed to publish batch")
			}
		}
	}
}

// PublishBatch handles one batch of pending records and returns how many were
// published. Records that fail stay pending.
func (p *Publisher) PublishBatch(ctx context.Context) (int, error) {
	records, err := p.store.GetPending(ctx, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("get pending records: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	var published, failed, marked int

	for _, record := range records {
		log := p.logger.With().
			Str("event_id", record.EventID).
			Str("event_type", record.EventType).
			Str("aggregate_id", record.AggregateID).
			Logger()

		if err := p.producer.Publish(ctx, record.EventID, []byte(record.Payload)); err != nil {
			log.Error().Err(err).Msg("failed to publish event to kafka")
			failed++
			continue
		}
		published++

		// an unmarked event is published again on the next tick
		if err := p.store.MarkProcessed(ctx, record.EventID); err != nil {
			log.Warn().Err(err).Msg("failed to mark event as processed")
			continue
		}
		marked++
	}

	p.logger.Info().
		Int("total", len(records)).
		Int("published", published).
		Int("failed", failed).
		Int("marked", marked).
		Msg("batch processed")

	return published, nil
}
