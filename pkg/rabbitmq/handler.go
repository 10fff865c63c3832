package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"statuspulse/pkg/mailer"
)

// ErrUndeliverable marks messages that must not be requeued.
var ErrUndeliverable = errors.New("undeliverable message")

// MailHandler sends queued mail through the real transport.
type MailHandler struct {
	mailer mailer.Mailer
}

func NewMailHandler(m mailer.Mailer) *MailHandler {
	return &MailHandler{mailer: m}
}

func (h *MailHandler) Handle(ctx context.Context, msg amqp091.Delivery) error {
	var event EventPayload
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("%w: decode event: %v", ErrUndeliverable, err)
	}

	if event.Type != EventMailSend {
		return nil // ignore unknown events
	}

	var m mailer.Message
	if err := json.Unmarshal(event.Payload, &m); err != nil {
		return fmt.Errorf("%w: decode mail: %v", ErrUndeliverable, err)
	}

	if err := h.mailer.Send(ctx, m); err != nil {
		if errors.Is(err, mailer.ErrPermanent) {
			return fmt.Errorf("%w: %v", ErrUndeliverable, err)
		}
		return err
	}
	return nil
}
