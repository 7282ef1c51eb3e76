package session

import "sync"

// Clock delivers a once-per-second tick to a single subscriber.
// After Unsubscribe returns no further ticks are delivered.
type Clock interface {
	Subscribe(tick func())
	Unsubscribe()
}

// ManualClock is a Clock driven explicitly by Advance.
type ManualClock struct {
	mu            sync.Mutex
	tick          func()
	subscriptions int
}

// NewManualClock returns an unsubscribed ManualClock.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Subscribe implements Clock.
func (c *ManualClock) Subscribe(tick func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick = tick
	c.subscriptions++
}

// Unsubscribe implements Clock.
func (c *ManualClock) Unsubscribe() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick = nil
}

// Subscribed reports whether a subscriber is registered.
func (c *ManualClock) Subscribed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick != nil
}

// Subscriptions returns how many times Subscribe has been called.
func (c *ManualClock) Subscriptions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscriptions
}

// Advance delivers up to n ticks and returns how many were delivered.
// It stops early once the subscriber unsubscribes.
func (c *ManualClock) Advance(n int) int {
	delivered := 0
	for i := 0; i < n; i++ {
		c.mu.Lock()
		tick := c.tick
		c.mu.Unlock()
		if tick == nil {
			break
		}
		tick()
		delivered++
	}
	return delivered
}
