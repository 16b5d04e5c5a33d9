package state

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

// Clock hands out strictly increasing millisecond timestamps. Two
// drawings saved within the same millisecond still get distinct ids.
type Clock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewClock returns a Clock reading the wall clock.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Next returns a timestamp greater than every value returned before.
func (c *Clock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	ts := now().UnixMilli()
	if ts <= c.last {
		ts = c.last + 1
	}
	c.last = ts
	return ts
}

// Observe moves the clock past ts, typically an id read back from storage.
func (c *Clock) Observe(ts int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts > c.last {
		c.last = ts
	}
}
