package mailer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyMailer struct {
	failures int
	err      error
	calls    int
	sent     []Message
}

func (f *flakyMailer) Send(_ context.Context, msg Message) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testConfig() ResilientConfig {
	return ResilientConfig{
		Name:            "test",
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxRequests:     1,
		OpenTimeout:     time.Minute,
		FailureRatio:    0.5,
		MinRequests:     3,
	}
}

func TestResilient_RetriesTransientErrors(t *testing.T) {
	logger := zerolog.Nop()
	next := &flakyMailer{failures: 2, err: errors.New("connection reset")}
	r := NewResilient(next, testConfig(), &logger)

	err := r.Send(context.Background(), Message{To: "a@example.com", Subject: "s", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
	assert.Len(t, next.sent, 1)
}

func TestResilient_PermanentErrorIsNotRetried(t *testing.T) {
	logger := zerolog.Nop()
	next := &flakyMailer{failures: 10, err: fmt.Errorf("%w: mailbox unavailable", ErrPermanent)}
	r := NewResilient(next, testConfig(), &logger)

	err := r.Send(context.Background(), Message{To: "bad@example.com"})
	assert.ErrorIs(t, err, ErrPermanent)
	assert.Equal(t, 1, next.calls)
}

func TestResilient_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	logger := zerolog.Nop()
	cfg := testConfig()
	cfg.MaxRetries = 0
	next := &flakyMailer{failures: 100, err: errors.New("smtp timeout")}
	r := NewResilient(next, cfg, &logger)

	for range 3 {
		assert.Error(t, r.Send(context.Background(), Message{To: "a@example.com"}))
	}

	err := r.Send(context.Background(), Message{To: "a@example.com"})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 3, next.calls, "open breaker must not reach the transport")
}

func TestCheckStatus(t *testing.T) {
	assert.NoError(t, checkStatus("x", 202))
	assert.ErrorIs(t, checkStatus("x", 400), ErrPermanent)
	assert.ErrorIs(t, checkStatus("x", 401), ErrPermanent)

	err := checkStatus("x", 429)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermanent)

	err = checkStatus("x", 503)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermanent)
}

func TestBreakerState(t *testing.T) {
	logger := zerolog.Nop()
	cfg := testConfig()
	cfg.MaxRetries = 0
	next := &flakyMailer{failures: 100, err: errors.New("smtp timeout")}
	r := NewResilient(next, cfg, &logger)

	assert.Equal(t, "closed", BreakerState(r))
	for range 3 {
		_ = r.Send(context.Background(), Message{To: "a@example.com"})
	}
	assert.Equal(t, "open", BreakerState(r))
	assert.Empty(t, BreakerState(next), "plain transports have no breaker")
}
