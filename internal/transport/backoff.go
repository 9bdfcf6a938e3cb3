package transport

import "time"

// Default reconnect backoff bounds.
const (
	DefaultBaseDelay = 1 * time.Second
	DefaultMaxDelay  = 30 * time.Second
)

// Delay computes the reconnect backoff for the given attempt number:
// min(max, base * 2^attempt). The result is monotonically non-decreasing in
// attempt and capped at max for all attempt >= 0.
func Delay(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if max <= 0 {
		max = DefaultMaxDelay
	}
	if attempt < 0 {
		attempt = 0
	}

	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		// Doubling in the time.Duration domain; bail out at the cap before
		// the shift can overflow.
		if d >= max || d <= 0 {
			return max
		}
	}
	if d > max {
		d = max
	}
	return d
}
