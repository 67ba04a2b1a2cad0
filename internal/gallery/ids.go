package gallery

import (
	"sync"
	"time"
)

// IDSource hands out project ids
type IDSource interface {
	Next() int64
}

// ClockIDs derives ids from the wall clock in Unix milliseconds. Every id is
// strictly greater than all ids it issued or observed before, even when the
// clock stalls or moves backwards.
type ClockIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewClockIDs creates an id source that never returns an id <= floor
func NewClockIDs(floor int64) *ClockIDs {
	return &ClockIDs{last: floor, now: time.Now}
}

// Next returns the next id
func (c *ClockIDs) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// Observe raises the floor so later ids stay above id
func (c *ClockIDs) Observe(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id > c.last {
		c.last = id
	}
}
