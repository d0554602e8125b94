// Package watchdog fires a callback after a period without activity.
package watchdog

import (
	"sync"
	"time"
)

type Countdown struct {
	timeout time.Duration
	onFire  func()

	mu    sync.Mutex
	timer *time.Timer
}

func NewCountdown(timeout time.Duration, onFire func()) *Countdown {
	return &Countdown{timeout: timeout, onFire: onFire}
}

func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		return
	}
	c.timer = time.AfterFunc(c.timeout, c.onFire)
}

// Reset restarts the countdown from its full timeout.
func (c *Countdown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.timeout, c.onFire)
}

func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
