package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProducer(t testing.TB) *Producer {
	t.Helper()
	p, err := NewProducer(ProducerConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "athlete-posts",
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return p
}

func TestNewProducer_Defaults(t *testing.T) {
	p := newTestProducer(t)

	assert.Equal(t, "athlete-posts", p.config.Topic)
	assert.Equal(t, 3, p.config.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, p.config.RetryBackoff)
	assert.Equal(t, 10*time.Second, p.config.WriteTimeout)
	assert.Equal(t, 100, p.config.BatchSize)
	assert.False(t, p.config.Async)
}

func TestNewProducer_KeepsCustomValues(t *testing.T) {
	p, err := NewProducer(ProducerConfig{
		Brokers:      []string{"kafka-1:9092", "kafka-2:9092"},
		Topic:        "athlete-posts",
		MaxRetries:   5,
		RetryBackoff: 200 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
		BatchSize:    50,
		Async:        true,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, p.config.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, p.config.RetryBackoff)
	assert.Equal(t, 5*time.Second, p.config.WriteTimeout)
	assert.Equal(t, 50, p.config.BatchSize)
	assert.True(t, p.config.Async)
}

func TestNewProducer_Validation(t *testing.T) {
	brokers := []string{"localhost:9092"}

	tests := []struct {
		name    string
		config  ProducerConfig
		wantErr string
	}{
		{"empty brokers", ProducerConfig{Topic: "athlete-posts"}, "brokers list is empty"},
		{"empty topic", ProducerConfig{Brokers: brokers}, "topic is empty"},
		{"negative max retries", ProducerConfig{Brokers: brokers, Topic: "t", MaxRetries: -1}, "max_retries cannot be negative"},
		{"negative retry backoff", ProducerConfig{Brokers: brokers, Topic: "t", RetryBackoff: -time.Second}, "retry_backoff cannot be negative"},
		{"negative write timeout", ProducerConfig{Brokers: brokers, Topic: "t", WriteTimeout: -time.Second}, "write_timeout cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProducer(tt.config)

			require.Error(t, err)
			assert.Nil(t, p)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsRetriableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retriable bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"connection reset", errors.New("connection reset by peer"), true},
		{"timeout", errors.New("i/o timeout"), true},
		{"leader not available", errors.New("leader not available"), true},
		{"invalid message", errors.New("invalid message format"), false},
		{"message too large", errors.New("message too large"), false},
		{"authorization failed", errors.New("authorization failed"), false},
		{"kafka temporary", kafkago.LeaderNotAvailable, true},
		{"kafka permanent", kafkago.MessageSizeTooLarge, false},
		{"wrapped permanent", fmt.Errorf("write messages: %w", errors.New("Message Too Large")), false},
		{"unknown defaults to retriable", errors.New("something odd"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retriable, isRetriableError(tt.err))
		})
	}
}

func TestProducer_GetMetrics(t *testing.T) {
	p := newTestProducer(t)

	m := p.GetMetrics()
	assert.Zero(t, m.MessagesPublished)
	assert.Zero(t, m.MessagesFailed)
	assert.Zero(t, m.RetriesTotal)
	assert.Zero(t, m.AvgPublishTime)

	p.metrics.MessagesPublished.Add(10)
	p.metrics.MessagesFailed.Add(2)
	p.metrics.RetriesTotal.Add(5)
	p.metrics.PublishDuration.Add(int64(100 * time.Millisecond))

	m = p.GetMetrics()
	assert.Equal(t, int64(10), m.MessagesPublished)
	assert.Equal(t, int64(2), m.MessagesFailed)
	assert.Equal(t, int64(5), m.RetriesTotal)
	assert.Equal(t, 10*time.Millisecond, m.AvgPublishTime)
}

func TestProducer_GetMetrics_NothingPublished(t *testing.T) {
	p := newTestProducer(t)
	p.metrics.PublishDuration.Add(int64(100 * time.Millisecond))

	assert.Equal(t, time.Duration(0), p.GetMetrics().AvgPublishTime)
}

func TestProducer_CloseTwice(t *testing.T) {
	p := newTestProducer(t)

	_ = p.Close()
	assert.True(t, p.closed.Load())

	err := p.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already closed")
}

func TestProducer_ClosedRejectsWork(t *testing.T) {
	p := newTestProducer(t)
	p.closed.Store(true)
	ctx := context.Background()

	err := p.Publish(ctx, "post-1", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "producer is closed")

	err = p.PublishBatch(ctx, []Message{{Key: "a", Value: []byte("1")}, {Key: "b", Value: []byte("2")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "producer is closed")

	err = p.HealthCheck(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "producer is closed")
}

func TestProducer_PublishBatch_Empty(t *testing.T) {
	p := newTestProducer(t)

	assert.NoError(t, p.PublishBatch(context.Background(), nil))
}

func TestSetDefaults_DoesNotOverride(t *testing.T) {
	cfg := ProducerConfig{
		MaxRetries:   5,
		RetryBackoff: 200 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
		BatchSize:    50,
	}
	setDefaults(&cfg)

	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
}

func BenchmarkProducer_GetMetrics(b *testing.B) {
	p := newTestProducer(b)
	p.metrics.MessagesPublished.Add(1000)
	p.metrics.PublishDuration.Add(int64(time.Second))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.GetMetrics()
	}
}
