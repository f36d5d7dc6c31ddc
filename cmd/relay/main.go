package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/romariotrain/athlete-posts/internal/app"
	"github.com/romariotrain/athlete-posts/internal/config"
	"github.com/romariotrain/athlete-posts/internal/posts/kafka"
	"github.com/romariotrain/athlete-posts/internal/posts/outbox"
	"github.com/romariotrain/athlete-posts/internal/storage/sqlstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := app.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	log, flush, err := app.InitSentry(log, cfg.SentryDSN, cfg.AppEnv)
	if err != nil {
		log.Warn().Err(err).Msg("sentry disabled")
	}

	code := app.Run("relay", log, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
	flush()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config) error {
	log := zerolog.Ctx(ctx)

	if err := cfg.ValidateRelay(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	db, err := sqlstore.Connect(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	if cfg.DBMigrate {
		if err := sqlstore.Migrate(ctx, db, cfg.DBDriver, *log); err != nil {
			return err
		}
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		Logger:  *log,
	})
	if err != nil {
		return err
	}
	defer func() {
		m := producer.GetMetrics()
		log.Info().
			Int64("published", m.MessagesPublished).
			Int64("failed", m.MessagesFailed).
			Int64("retries", m.RetriesTotal).
			Dur("avg_publish_time", m.AvgPublishTime).
			Msg("kafka producer closing")
		if err := producer.Close(); err != nil {
			log.Warn().Err(err).Msg("close kafka producer")
		}
	}()

	if err := producer.HealthCheck(ctx); err != nil {
		log.Warn().Err(err).Msg("kafka not reachable yet, events stay pending")
	}

	publisher, err := outbox.NewPublisher(outbox.PublisherConfig{
		Store:     sqlstore.NewOutboxRepo(db),
		Producer:  producer,
		Interval:  cfg.OutboxInterval,
		BatchSize: cfg.OutboxBatchSize,
		Logger:    *log,
	})
	if err != nil {
		return err
	}

	if err := publisher.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
