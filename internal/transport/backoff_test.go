package transport

import (
	"testing"
	"time"
)

func TestDelaySchedule(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second}, // 32s capped
		{6, 30 * time.Second},
		{10, 30 * time.Second},
		{100, 30 * time.Second},
	}

	for _, tc := range cases {
		got := Delay(DefaultBaseDelay, DefaultMaxDelay, tc.attempt)
		if got != tc.want {
			t.Errorf("attempt %d: expected %s, got %s", tc.attempt, tc.want, got)
		}
	}
}

func TestDelayMonotonic(t *testing.T) {
	prev := time.Duration(0)
	for n := 0; n <= 64; n++ {
		d := Delay(DefaultBaseDelay, DefaultMaxDelay, n)
		if d < prev {
			t.Fatalf("delay decreased at attempt %d: %s < %s", n, d, prev)
		}
		if d > DefaultMaxDelay {
			t.Fatalf("delay exceeds cap at attempt %d: %s", n, d)
		}
		prev = d
	}
}

func TestDelayNegativeAttempt(t *testing.T) {
	if got := Delay(DefaultBaseDelay, DefaultMaxDelay, -3); got != DefaultBaseDelay {
		t.Errorf("expected base delay for negative attempt, got %s", got)
	}
}

func TestDelayZeroBounds(t *testing.T) {
	if got := Delay(0, 0, 2); got != 4*time.Second {
		t.Errorf("expected defaults to apply, got %s", got)
	}
}
