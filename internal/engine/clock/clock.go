// Package clock measures frame deltas.
package clock

import "time"

// Clock reports the seconds elapsed between successive Delta calls.
type Clock struct {
	now     func() time.Time
	start   time.Time
	last    time.Time
	started bool
}

// New creates a clock on the wall time.
func New() *Clock {
	return NewWithSource(time.Now)
}

// NewWithSource creates a clock reading time from now.
func NewWithSource(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Delta returns seconds since the previous call. The first call returns 0
// and starts the clock.
func (c *Clock) Delta() float64 {
	t := c.now()
	if !c.started {
		c.start = t
		c.last = t
		c.started = true
		return 0
	}
	d := t.Sub(c.last).Seconds()
	c.last = t
	if d < 0 {
		return 0
	}
	return d
}

// Elapsed returns seconds since the first Delta call.
func (c *Clock) Elapsed() float64 {
	if !c.started {
		return 0
	}
	return c.now().Sub(c.start).Seconds()
}
