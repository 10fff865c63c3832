package mailer

import (
	"context"
	"fmt"

	brevo "github.com/getbrevo/brevo-go/lib"
)

type Brevo struct {
	client   *brevo.APIClient
	from     string
	fromName string
}

func NewBrevo(apiKey, from, fromName string) *Brevo {
	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", apiKey)

	return &Brevo{
		client:   brevo.NewAPIClient(cfg),
		from:     from,
		fromName: fromName,
	}
}

func (b *Brevo) Send(ctx context.Context, msg Message) error {
	_, resp, err := b.client.TransactionalEmailsApi.SendTransacEmail(ctx, brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  b.fromName,
			Email: b.from,
		},
		To: []brevo.SendSmtpEmailTo{
			{Email: msg.To},
		},
		Subject:     msg.Subject,
		TextContent: msg.Body,
	})
	if resp != nil {
		defer resp.Body.Close()
		if statusErr := checkStatus("brevo", resp.StatusCode); statusErr != nil {
			return statusErr
		}
	}
	if err != nil {
		return fmt.Errorf("brevo send: %w", err)
	}
	return nil
}
