package ledger

import (
	"sync"
	"time"
)

// Clock supplies block timestamps
type Clock interface {
	Now() time.Time
}

// AdjustableClock can be moved forward, like evm_increaseTime on a dev node
type AdjustableClock interface {
	Clock
	Advance(d time.Duration)
}

type offsetClock struct {
	mu     sync.Mutex
	now    func() time.Time
	offset time.Duration
}

// NewOffsetClock follows wall time plus every Advance applied so far
func NewOffsetClock() AdjustableClock {
	return &offsetClock{now: time.Now}
}

func (c *offsetClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Add(c.offset)
}

func (c *offsetClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += d
}

// ManualClock only moves when told to
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
