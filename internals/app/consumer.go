package app

import (
	"context"
)

// StartConsumer delivers queued mail when RabbitMQ is enabled.
func StartConsumer(ctx context.Context, c *Container) {
	if c.Consumer == nil {
		return
	}

	// Consume ranges over the delivery channel, so it gets its own goroutine
	go func() {
		if err := c.Consumer.Consume(ctx, c.MailHandler); err != nil {
			c.Logger.Error().
				Err(err).
				Msg("rabbitmq consumer stopped")
		}
	}()
}
