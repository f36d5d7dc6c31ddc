package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn", "json")

	log.Info().Msg("dropped")
	log.Warn().Str("component", "test").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	log := NewLogger(&bytes.Buffer{}, "loud", "json")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestRun_ExitCodes(t *testing.T) {
	log := zerolog.Nop()

	assert.Equal(t, 0, Run("ok", log, func(context.Context) error { return nil }))
	assert.Equal(t, 1, Run("broken", log, func(context.Context) error { return errors.New("boom") }))
}

func TestWait_ShutdownTimeoutIsUnclean(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	never := make(chan error)
	assert.Equal(t, 1, wait(ctx, zerolog.Nop(), never, 10*time.Millisecond))
}

func TestWait_AfterSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	clean := make(chan error, 1)
	clean <- nil
	assert.Equal(t, 0, wait(ctx, zerolog.Nop(), clean, time.Second))

	failed := make(chan error, 1)
	failed <- errors.New("shutdown: context deadline exceeded")
	assert.Equal(t, 1, wait(ctx, zerolog.Nop(), failed, time.Second))
}

func TestRun_PassesLoggerInContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "info", "json")

	Run("posts", log, func(ctx context.Context) error {
		zerolog.Ctx(ctx).Info().Msg("from runner")
		return nil
	})

	assert.Contains(t, buf.String(), `"service":"posts"`)
	assert.Contains(t, buf.String(), "from runner")
}

func TestSentryHook_CapturesErrorsOnly(t *testing.T) {
	var (
		mu   sync.Mutex
		sent []*sentry.Event
	)
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			mu.Lock()
			sent = append(sent, event)
			mu.Unlock()
			return nil
		},
	})
	require.NoError(t, err)

	hub := sentry.NewHub(client, sentry.NewScope())
	log := zerolog.New(&bytes.Buffer{}).Hook(SentryHook{Hub: hub})

	log.Info().Msg("all good")
	log.Warn().Msg("hmm")
	log.Error().Msg("upload failed")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 1)
	assert.Equal(t, "upload failed", sent[0].Message)
	assert.Equal(t, sentry.LevelError, sent[0].Level)
}

func TestInitSentry_EmptyDSN(t *testing.T) {
	base := zerolog.Nop()
	log, flush, err := InitSentry(base, "", "development")

	require.NoError(t, err)
	assert.Equal(t, base, log)
	flush()
}
