package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGrid struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendGrid(apiKey, from, fromName string) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, from),
	}
}

func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(s.from, msg.Subject, to, msg.Body, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	return checkStatus("sendgrid", resp.StatusCode)
}

// checkStatus maps an HTTP API answer onto the mailer error contract: 4xx
// are permanent, 5xx are retried.
func checkStatus(provider string, code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 400 && code < 500 && code != 429:
		return fmt.Errorf("%w: %s returned %d", ErrPermanent, provider, code)
	default:
		return fmt.Errorf("%s returned %d", provider, code)
	}
}
