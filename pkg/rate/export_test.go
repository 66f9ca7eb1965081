package rate

import "time"

// SetClock replaces time source of the limiter.
func (limiter *Limiter) SetClock(now func() time.Time) {
	limiter.now = now
}

// Cleanup exposes cleanup for tests.
func (limiter *Limiter) Cleanup() {
	limiter.cleanup()
}
