package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

type Runner func(ctx context.Context) error

// Run executes run until it returns or the process receives SIGINT/SIGTERM, and
// returns the exit code.
func Run(serviceName string, log zerolog.Logger, run Runner) int {
	log = log.With().Str("service", serviceName).Logger()
	log.Info().Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = log.WithContext(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx) }()

	return wait(ctx, log, errCh, shutdownTimeout)
}

// shutdownTimeout bounds how long the runner may take to finish after a signal.
const shutdownTimeout = 15 * time.Second

// wait returns the exit code: 0 for a clean stop, 1 when the runner failed or did not
// finish within timeout after ctx was cancelled.
func wait(ctx context.Context, log zerolog.Logger, errCh <-chan error, timeout time.Duration) int {
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		select {
		case err := <-errCh:
			if err != nil {
				log.Error().Err(err).Msg("shutdown failed")
				return 1
			}
			return 0
		case <-time.After(timeout):
			log.Error().Dur("timeout", timeout).Msg("shutdown timed out")
			return 1
		}
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("failed")
			return 1
		}
		log.Info().Msg("stopped")
		return 0
	}
}
