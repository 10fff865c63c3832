package rabbitmq

import (
	"context"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pendingConfirm resolves when a value is sent on result.
type pendingConfirm struct {
	result chan bool
}

func (c *pendingConfirm) WaitContext(ctx context.Context) (bool, error) {
	select {
	case ack := <-c.result:
		return ack, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// fakeChannel resolves the nth publish with acks[n]; later publishes stay pending.
type fakeChannel struct {
	acks     []*bool
	confirms []*pendingConfirm
	bodies   [][]byte
}

func ack(v bool) *bool { return &v }

func (f *fakeChannel) publish(_ context.Context, _, _ string, msg amqp091.Publishing) (confirmation, error) {
	c := &pendingConfirm{result: make(chan bool, 1)}
	if n := len(f.confirms); n < len(f.acks) && f.acks[n] != nil {
		c.result <- *f.acks[n]
	}
	f.confirms = append(f.confirms, c)
	f.bodies = append(f.bodies, msg.Body)
	return c, nil
}

func (f *fakeChannel) Close() error { return nil }

func TestPublisher_LateConfirmDoesNotLeakIntoNextPublish(t *testing.T) {
	ch := &fakeChannel{acks: []*bool{nil, ack(false)}}
	p := newPublisher(ch, "ex", "key")
	p.confirmTimeout = 20 * time.Millisecond

	err := p.Publish(context.Background(), []byte("first"))
	require.EqualError(t, err, "publish confirm timeout")

	// the first message's ack arrives after its publisher gave up
	ch.confirms[0].result <- true

	err = p.Publish(context.Background(), []byte("second"))
	assert.EqualError(t, err, "broker rejected message")
}

func TestPublisher_Ack(t *testing.T) {
	ch := &fakeChannel{acks: []*bool{ack(true)}}
	p := newPublisher(ch, "ex", "key")

	require.NoError(t, p.Publish(context.Background(), []byte("hello")))
	assert.Equal(t, [][]byte{[]byte("hello")}, ch.bodies)
}

func TestPublisher_CallerCancellation(t *testing.T) {
	p := newPublisher(&fakeChannel{}, "ex", "key")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
