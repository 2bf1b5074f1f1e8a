package sim

import (
	"context"
	"time"

	"github.com/efreitasn/minimarket/internal/protocol"
)

// Clock drives the simulation: it broadcasts TimeTick to every actor at a
// fixed interval until the horizon is reached or ctx is cancelled. Ticks
// are numbered 0..Horizon-1; actors see both the current tick and the
// horizon so deadline-driven strategies can pace themselves.
type Clock struct {
	interval time.Duration
	horizon  int64
	actors   []chan<- protocol.ActorMsg
}

// NewClock creates a clock over the given actor inboxes.
func NewClock(interval time.Duration, horizon int64, actors []chan<- protocol.ActorMsg) *Clock {
	return &Clock{
		interval: interval,
		horizon:  horizon,
		actors:   actors,
	}
}

// Run ticks until the horizon. It returns early when ctx is cancelled.
// Delivery is best-effort: an actor that cannot keep up misses ticks
// rather than stalling the clock.
func (c *Clock) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for now := int64(0); now < c.horizon; now++ {
		c.broadcast(protocol.TimeTick{Now: now, Horizon: c.horizon})
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (c *Clock) broadcast(msg protocol.ActorMsg) {
	for _, inbox := range c.actors {
		select {
		case inbox <- msg:
		default:
		}
	}
}
