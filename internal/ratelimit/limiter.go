// Package ratelimit provides in-memory rate limiting using a fixed-window
// counter. The client uses it to throttle chatty outbound traffic — typing
// notifications and upload bursts — before it ever reaches the gateway.
package ratelimit

import (
	"sync"
	"time"
)

// Rule defines a rate limiting policy: the maximum number of actions allowed
// in the window, and the window duration.
type Rule struct {
	Limit  int           // max count in the window
	Window time.Duration // time window
}

// Standard client-side rules.
var (
	// RuleTyping allows one typing frame per 1.5 seconds per chat.
	RuleTyping = Rule{Limit: 1, Window: 1500 * time.Millisecond}

	// RuleUpload allows 3 uploads per 10 seconds per chat.
	RuleUpload = Rule{Limit: 3, Window: 10 * time.Second}
)

type window struct {
	start time.Time
	count int
}

// Limiter performs rate limiting checks against in-process counters.
// It is goroutine-safe.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewLimiter creates an empty Limiter.
func NewLimiter() *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow checks whether the given key is within the rate limit defined by
// rule, incrementing the counter when it is. Returns true if the action is
// allowed, false if throttled.
func (l *Limiter) Allow(key string, rule Rule) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= rule.Window {
		l.windows[key] = &window{start: now, count: 1}
		return true
	}
	if w.count >= rule.Limit {
		return false
	}
	w.count++
	return true
}

// Reset clears the counter for a key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}
