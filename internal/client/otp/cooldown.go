package otp

import (
	"sync"
	"time"
)

// Cooldown counts down whole seconds from a fixed length. It holds no timer;
// Remaining is derived from the injected clock on every call, so nothing has
// to be cancelled when the owning screen goes away.
type Cooldown struct {
	mu     sync.Mutex
	length time.Duration
	now    func() time.Time
	until  time.Time
}

// NewCooldown returns an idle cooldown. A nil now uses time.Now.
func NewCooldown(length time.Duration, now func() time.Time) *Cooldown {
	if now == nil {
		now = time.Now
	}
	return &Cooldown{length: length, now: now}
}

// Restart begins a full-length countdown from the current instant.
func (c *Cooldown) Restart() {
	c.mu.Lock()
	c.until = c.now().Add(c.length)
	c.mu.Unlock()
}

// Reset stops the countdown.
func (c *Cooldown) Reset() {
	c.mu.Lock()
	c.until = time.Time{}
	c.mu.Unlock()
}

// Remaining returns the number of seconds left, rounded up. Zero means a
// resend is allowed.
func (c *Cooldown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	left := c.until.Sub(c.now())
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

func (c *Cooldown) Active() bool { return c.Remaining() > 0 }
