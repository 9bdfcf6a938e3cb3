package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewLimiter()
	rule := Rule{Limit: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		if !l.Allow("chat-1", rule) {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}
	if l.Allow("chat-1", rule) {
		t.Fatal("4th call should be throttled")
	}
}

func TestWindowExpiry(t *testing.T) {
	l := NewLimiter()
	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	rule := Rule{Limit: 1, Window: 1500 * time.Millisecond}

	if !l.Allow("typing:chat-1", rule) {
		t.Fatal("first call should be allowed")
	}
	if l.Allow("typing:chat-1", rule) {
		t.Fatal("second call within window should be throttled")
	}

	now = now.Add(1500 * time.Millisecond)
	if !l.Allow("typing:chat-1", rule) {
		t.Fatal("call after window expiry should be allowed")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := NewLimiter()
	rule := Rule{Limit: 1, Window: time.Minute}

	if !l.Allow("chat-1", rule) {
		t.Fatal("chat-1 should be allowed")
	}
	if !l.Allow("chat-2", rule) {
		t.Fatal("chat-2 should not share chat-1's counter")
	}
}

func TestReset(t *testing.T) {
	l := NewLimiter()
	rule := Rule{Limit: 1, Window: time.Hour}

	l.Allow("chat-1", rule)
	if l.Allow("chat-1", rule) {
		t.Fatal("should be throttled before reset")
	}
	l.Reset("chat-1")
	if !l.Allow("chat-1", rule) {
		t.Fatal("should be allowed after reset")
	}
}
