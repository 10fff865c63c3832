// Package mailer delivers plain-text notification mail through one of the
// supported transports.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"statuspulse/config"
)

// Message is one addressed mail.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ErrPermanent marks failures that retrying cannot fix, e.g. a rejected
// recipient or bad credentials.
var ErrPermanent = errors.New("permanent delivery failure")

// New builds the configured transport wrapped with retries and a circuit
// breaker.
func New(cfg *config.MailConfig, logger *zerolog.Logger) (Mailer, error) {
	var (
		transport Mailer
		err       error
	)

	switch cfg.Provider {
	case "smtp":
		transport, err = NewSMTP(cfg.SMTP, cfg.From, cfg.FromName)
	case "sendgrid":
		transport = NewSendGrid(cfg.SendGrid.APIKey, cfg.From, cfg.FromName)
	case "brevo":
		transport = NewBrevo(cfg.Brevo.APIKey, cfg.From, cfg.FromName)
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewResilient(transport, ResilientConfig{
		Name:            cfg.Provider,
		MaxRetries:      cfg.Retry.MaxRetries,
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
		MaxRequests:     cfg.Breaker.MaxRequests,
		OpenTimeout:     cfg.Breaker.Timeout,
		FailureRatio:    cfg.Breaker.FailureRatio,
		MinRequests:     cfg.Breaker.MinRequests,
	}, logger), nil
}
