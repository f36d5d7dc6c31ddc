package main

import (
	"context"
	"fmt"
	"os"

	"github.com/romariotrain/athlete-posts/internal/app"
	"github.com/romariotrain/athlete-posts/internal/config"
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

	code := app.Run("posts", log, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
	flush()
	os.Exit(code)
}
