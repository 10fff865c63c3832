package rabbitmq

import (
	"encoding/json"

	"github.com/google/uuid"
)

// EventMailSend carries one mailer.Message.
const EventMailSend = "mail.send"

type EventPayload struct {
	ID      uuid.UUID       `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
