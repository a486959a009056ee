package pacing

import (
	"context"
	"sync"
	"time"
)

// Pacer decides how long the fetch loop waits between attempts
type Pacer interface {
	// Wait blocks until the next attempt may start or ctx is done
	Wait(ctx context.Context) error
}

// FixedDelay waits the same duration after every attempt
type FixedDelay struct {
	Delay time.Duration
}

// NewFixedDelay creates a fixed-delay pacer. Negative delays are treated as zero.
func NewFixedDelay(delay time.Duration) *FixedDelay {
	if delay < 0 {
		delay = 0
	}
	return &FixedDelay{Delay: delay}
}

// Wait sleeps for the configured delay, returning early with ctx.Err() on cancellation
func (f *FixedDelay) Wait(ctx context.Context) error {
	if f.Delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(f.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Counting wraps a Pacer and records how often and how long it waited
type Counting struct {
	Pacer Pacer

	mu     sync.Mutex
	waits  int
	waited time.Duration
}

// Wait delegates to the wrapped pacer
func (c *Counting) Wait(ctx context.Context) error {
	start := time.Now()
	err := c.Pacer.Wait(ctx)

	c.mu.Lock()
	c.waits++
	c.waited += time.Since(start)
	c.mu.Unlock()
	return err
}

// Waits returns the number of completed or interrupted waits
func (c *Counting) Waits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waits
}

// Waited returns the total time spent waiting
func (c *Counting) Waited() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waited
}
