package app

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. format is "json" or "console".
func NewLogger(w io.Writer, level, format string) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// InitSentry configures the Sentry client and returns a logger that forwards
// error-level events to it. An empty dsn leaves the logger as is. The returned
// flush func should run before exit.
func InitSentry(log zerolog.Logger, dsn, env string) (zerolog.Logger, func(), error) {
	if dsn == "" {
		return log, func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		return log, func() {}, err
	}

	flush := func() { sentry.Flush(2 * time.Second) }
	return log.Hook(SentryHook{Hub: sentry.CurrentHub()}), flush, nil
}

// SentryHook captures error, fatal and panic events as Sentry messages.
type SentryHook struct {
	Hub *sentry.Hub
}

func (h SentryHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if h.Hub == nil || level < zerolog.ErrorLevel || level == zerolog.NoLevel || level == zerolog.Disabled {
		return
	}

	h.Hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevel(level))
		h.Hub.CaptureMessage(msg)
	})
}

func sentryLevel(level zerolog.Level) sentry.Level {
	switch level {
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return sentry.LevelFatal
	default:
		return sentry.LevelError
	}
}
