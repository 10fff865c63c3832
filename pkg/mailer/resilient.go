package mailer

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned while the transport is considered unhealthy.
var ErrCircuitOpen = errors.New("mail circuit breaker is open")

type ResilientConfig struct {
	Name            string
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration

	MaxRequests  uint32
	OpenTimeout  time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// Resilient retries transient failures with exponential backoff and stops
// calling a failing transport through a circuit breaker.
type Resilient struct {
	next    Mailer
	breaker *gobreaker.CircuitBreaker[struct{}]
	cfg     ResilientConfig
}

func NewResilient(next Mailer, cfg ResilientConfig, logger *zerolog.Logger) *Resilient {
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = 5
	}
	if cfg.FailureRatio == 0 {
		cfg.FailureRatio = 0.5
	}

	settings := gobreaker.Settings{
		Name:        "mail-" + cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && ratio >= cfg.FailureRatio
		},
		// a rejected recipient says nothing about transport health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrPermanent)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("mail circuit breaker state changed")
		},
	}

	return &Resilient{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		cfg:     cfg,
	}
}

func (r *Resilient) Send(ctx context.Context, msg Message) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.cfg.InitialInterval
	bo.MaxInterval = r.cfg.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, r.cfg.MaxRetries), ctx)

	operation := func() error {
		_, err := r.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, r.next.Send(ctx, msg)
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return backoff.Permanent(ErrCircuitOpen)
		case errors.Is(err, ErrPermanent):
			return backoff.Permanent(err)
		default:
			return err
		}
	}

	return backoff.Retry(operation, policy)
}

func (r *Resilient) State() gobreaker.State {
	return r.breaker.State()
}

// BreakerState reports the circuit state of m, or "" when m has no breaker.
func BreakerState(m Mailer) string {
	r, ok := m.(*Resilient)
	if !ok {
		return ""
	}
	return r.State().String()
}
