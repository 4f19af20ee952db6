package util

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces navigations out: a hard rate ceiling plus a human-like random
// delay. One profile view per wait; the site's daily view limit is the real
// constraint, not throughput.
type Pacer struct {
	lim      *rate.Limiter
	min, max time.Duration
}

func NewPacer(navPerMinute int, minDelay, maxDelay time.Duration) *Pacer {
	if navPerMinute <= 0 {
		navPerMinute = 10
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Pacer{
		lim: rate.NewLimiter(rate.Limit(float64(navPerMinute)/60.0), 1),
		min: minDelay,
		max: maxDelay,
	}
}

func (p *Pacer) Wait(ctx context.Context) error {
	if err := p.lim.Wait(ctx); err != nil {
		return err
	}
	d := p.min
	if p.max > p.min {
		d += time.Duration(rand.Int63n(int64(p.max - p.min)))
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
