package notify

import (
	"context"
	"sync"
	"time"
)

// DefaultDismissAfter is how long a toast stays visible unless replaced.
const DefaultDismissAfter = 3 * time.Second

// Center is the single-slot toast presenter. It keeps at most one visible
// toast, re-arms the dismiss timer on every show, and fans shown toasts out
// to in-process subscribers.
type Center struct {
	mu           sync.RWMutex
	current      *Toast
	seq          uint64
	dismissAfter time.Duration
	subs         map[int]chan Toast
	next         int
	now          func() time.Time
}

// NewCenter creates a center. Non-positive dismissAfter falls back to
// DefaultDismissAfter.
func NewCenter(dismissAfter time.Duration) *Center {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	return &Center{
		dismissAfter: dismissAfter,
		subs:         make(map[int]chan Toast),
		now:          time.Now,
	}
}

var _ Notifier = (*Center)(nil)

// Notify shows the toast, replacing any visible one, and broadcasts it to
// subscribers without blocking.
func (c *Center) Notify(ctx context.Context, toast Toast) {
	if toast.Level == "" {
		toast.Level = LevelInfo
	}
	c.mu.Lock()
	toast.ShownAt = c.now()
	shown := toast
	c.current = &shown
	c.seq++
	seq := c.seq
	channels := make([]chan Toast, 0, len(c.subs))
	for _, ch := range c.subs {
		channels = append(channels, ch)
	}
	delay := c.dismissAfter
	c.mu.Unlock()

	time.AfterFunc(delay, func() { c.expire(seq) })
	for _, ch := range channels {
		select {
		case ch <- toast:
		default:
		}
	}
}

// expire hides the toast unless it was replaced or dismissed since the timer
// was armed.
func (c *Center) expire(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq == seq {
		c.current = nil
	}
}

// Current returns the visible toast, if any.
func (c *Center) Current() (Toast, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return Toast{}, false
	}
	return *c.current, true
}

// Dismiss hides the visible toast immediately.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
	c.seq++
}

// Subscribe returns a channel of shown toasts and a cancel func. Slow
// subscribers drop toasts instead of blocking the emitter.
func (c *Center) Subscribe() (<-chan Toast, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	ch := make(chan Toast, 8)
	c.subs[id] = ch
	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}
