package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"statuspulse/config"
)

type SMTP struct {
	client   *mail.Client
	from     string
	fromName string
}

// NewSMTP uses implicit TLS on port 465 and opportunistic STARTTLS on any
// other port. Authentication is only configured when a username is set.
func NewSMTP(cfg config.SMTPConfig, from, fromName string) (*SMTP, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}

	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTP{client: client, from: from, fromName: fromName}, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()

	if err := m.FromFormat(s.fromName, s.from); err != nil {
		return fmt.Errorf("%w: sender: %v", ErrPermanent, err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("%w: recipient: %v", ErrPermanent, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
