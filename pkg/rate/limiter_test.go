package rate_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jdbcurl/pkg/rate"
)

func TestLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := rate.Config{
		CleanUpDuration:    time.Minute,
		Capacity:           10,
		AllowedOccurrences: 10,
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rateLimiter := rate.NewLimiter(config)
	rateLimiter.SetClock(func() time.Time { return now })
	go rateLimiter.Run(ctx)

	t.Run("AllowedOccurrences", func(t *testing.T) {
		for i := 0; i < config.AllowedOccurrences; i++ {
			assert.True(t, rateLimiter.IsAllowed("10.0.0.1"))
		}

		// limited.
		assert.False(t, rateLimiter.IsAllowed("10.0.0.1"))

		// other client is not affected.
		now = now.Add(time.Millisecond)
		assert.True(t, rateLimiter.IsAllowed("10.0.0.2"))
	})

	t.Run("Capacity evicts least recently seen", func(t *testing.T) {
		now = now.Add(time.Second)
		for i := 3; i <= config.Capacity; i++ {
			now = now.Add(time.Millisecond)
			assert.True(t, rateLimiter.IsAllowed(fmt.Sprintf("10.0.0.%d", i)))
		}
		assert.Equal(t, config.Capacity, rateLimiter.Len())

		// 10.0.0.1 was seen first, so it is evicted and starts with fresh budget.
		assert.True(t, rateLimiter.IsAllowed("10.0.0.100"))
		assert.Equal(t, config.Capacity, rateLimiter.Len())
		assert.True(t, rateLimiter.IsAllowed("10.0.0.1"))
	})

	t.Run("Cleanup", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		rateLimiter.Cleanup()
		assert.Equal(t, 0, rateLimiter.Len())
	})
}

func TestLimiterZeroCapacity(t *testing.T) {
	rateLimiter := rate.NewLimiter(rate.Config{CleanUpDuration: time.Second, AllowedOccurrences: 1})
	assert.False(t, rateLimiter.IsAllowed("client"))
}

func TestLimiterZeroCleanUpDuration(t *testing.T) {
	rateLimiter := rate.NewLimiter(rate.Config{Capacity: 1, AllowedOccurrences: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		rateLimiter.Run(ctx)
	}()

	assert.True(t, rateLimiter.IsAllowed("client"))
	assert.False(t, rateLimiter.IsAllowed("client"))

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("limiter did not stop")
	}
}

func TestLimiterEvictsEmptyKey(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rateLimiter := rate.NewLimiter(rate.Config{
		CleanUpDuration:    time.Minute,
		Capacity:           2,
		AllowedOccurrences: 1,
	})
	rateLimiter.SetClock(func() time.Time { return now })

	// "" is seen first, so it is the least recently seen client.
	assert.True(t, rateLimiter.IsAllowed(""))
	now = now.Add(time.Millisecond)
	assert.True(t, rateLimiter.IsAllowed("a"))
	now = now.Add(time.Millisecond)
	assert.True(t, rateLimiter.IsAllowed("b"))
	assert.Equal(t, 2, rateLimiter.Len())

	// "a" is still tracked and its budget is spent.
	assert.False(t, rateLimiter.IsAllowed("a"))
	assert.Equal(t, 2, rateLimiter.Len())
}
