package trivia

import (
	"sync"
	"time"
)

// Timer is the engine's single cancellable clue timer. Reschedule replaces
// any pending firing; Stop guarantees fn from an earlier Reschedule is not
// started afterwards.
type Timer interface {
	Reschedule(d time.Duration, fn func())
	Stop()
}

type clockTimer struct {
	mu sync.Mutex
	t  *time.Timer
}

// NewClockTimer returns a Timer backed by time.AfterFunc.
func NewClockTimer() Timer {
	return &clockTimer{}
}

func (c *clockTimer) Reschedule(d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.t != nil {
		c.t.Stop()
	}
	c.t = time.AfterFunc(d, fn)
}

func (c *clockTimer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.t != nil {
		c.t.Stop()
		c.t = nil
	}
}
