package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"statuspulse/pkg/mailer"
)

const defaultConfirmTimeout = 5 * time.Second

// confirmation resolves to the broker's ack or nack for one publish.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type publishChannel interface {
	publish(ctx context.Context, exchange, key string, msg amqp091.Publishing) (confirmation, error)
	Close() error
}

type amqpChannel struct {
	ch *amqp091.Channel
}

func (a amqpChannel) publish(ctx context.Context, exchange, key string, msg amqp091.Publishing) (confirmation, error) {
	dc, err := a.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("channel is not in confirm mode")
	}
	return dc, nil
}

func (a amqpChannel) Close() error { return a.ch.Close() }

// Publisher publishes persistent messages and waits for the broker confirm.
// Each publish waits on its own delivery tag, so a confirm that arrives after
// a timeout cannot be mistaken for the next message's.
type Publisher struct {
	mu             sync.Mutex
	ch             publishChannel
	exchange       string
	routingKey     string
	confirmTimeout time.Duration
}

func NewPublisher(conn *amqp091.Connection, exchange, routingKey string) (*Publisher, error) {
	if conn == nil {
		return nil, errors.New("AMQP connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, err
	}

	return newPublisher(amqpChannel{ch: ch}, exchange, routingKey), nil
}

func newPublisher(ch publishChannel, exchange, routingKey string) *Publisher {
	return &Publisher{
		ch:             ch,
		exchange:       exchange,
		routingKey:     routingKey,
		confirmTimeout: defaultConfirmTimeout,
	}
}

func (p *Publisher) Publish(ctx context.Context, body []byte) error {
	// a channel is not safe for concurrent publishes
	p.mu.Lock()
	dc, err := p.ch.publish(ctx, p.exchange, p.routingKey, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	})
	p.mu.Unlock()
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.confirmTimeout)
	defer cancel()

	ack, err := dc.WaitContext(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return errors.New("publish confirm timeout")
		}
		return err
	}
	if !ack {
		return errors.New("broker rejected message")
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		return p.ch.Close()
	}
	return nil
}

// MailQueue is a mailer.Mailer that enqueues mail instead of sending it.
// MailHandler delivers it on the consuming side.
type MailQueue struct {
	publisher *Publisher
}

func NewMailQueue(p *Publisher) *MailQueue {
	return &MailQueue{publisher: p}
}

func (q *MailQueue) Send(ctx context.Context, msg mailer.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	body, err := json.Marshal(EventPayload{
		ID:      uuid.New(),
		Type:    EventMailSend,
		Payload: payload,
	})
	if err != nil {
		return err
	}

	if err := q.publisher.Publish(ctx, body); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}
