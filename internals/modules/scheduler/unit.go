package scheduler

import (
	"context"
	"time"

	"statuspulse/internals/modules/executor"
)

type unit struct {
	poller   executor.Poller
	receiver executor.Receiver
	inbox    chan executor.Push
	interval time.Duration
}

func newUnit(p executor.Poller, inboxSize int) *unit {
	u := &unit{
		poller:   p,
		interval: p.Monitor().CheckInterval,
	}
	if r, ok := p.(executor.Receiver); ok {
		u.receiver = r
		u.inbox = make(chan executor.Push, inboxSize)
	}
	return u
}

// run ticks the poller until ctx is done. Ticks execute inline, so a tick
// that outlasts the interval makes the ticker drop the missed ones.
func (u *unit) run(ctx context.Context) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case p := <-u.inbox:
			u.receiver.Receive(p)
		case <-ticker.C:
			u.poller.Tick(ctx)
		}
	}
}
