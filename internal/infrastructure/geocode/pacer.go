package geocode

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces outgoing requests by a minimum interval, globally across all
// callers. It is the only shared mutable state between concurrent
// submissions: each Wait reserves the next free slot under the lock, then
// sleeps outside it.
type Pacer struct {
	interval time.Duration

	// now and sleep are injectable so tests can verify spacing without
	// real-time waits.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu   sync.Mutex
	next time.Time
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until this caller's reserved slot arrives or ctx is done. A
// cancelled wait burns the reservation but leaks nothing.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	now := p.now()
	slot := p.next
	if slot.Before(now) {
		slot = now
	}
	p.next = slot.Add(p.interval)
	p.mu.Unlock()

	if d := slot.Sub(now); d > 0 {
		return p.sleep(ctx, d)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
