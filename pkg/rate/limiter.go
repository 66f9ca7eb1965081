// Package rate limits parse requests per client.
package rate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config defines values needed to start rate limiter.
type Config struct {
	// CleanUpDuration is a duration of client inactivity after which client is forgotten.
	CleanUpDuration time.Duration `env:"CLEANUP_DURATION" envDefault:"1m"`
	// Capacity is a max number of tracked clients.
	Capacity int `env:"CAPACITY" envDefault:"1000"`
	// AllowedOccurrences is a burst of requests allowed per client during CleanUpDuration.
	AllowedOccurrences int `env:"ALLOWED_OCCURRENCES" envDefault:"60"`
}

// Limiter allows at most AllowedOccurrences requests per client during CleanUpDuration.
type Limiter struct {
	config Config

	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time
}

// client tracks requests of a single client.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// defaultCleanUpDuration replaces non-positive CleanUpDuration.
const defaultCleanUpDuration = time.Minute

// NewLimiter is a constructor for rate.Limiter.
func NewLimiter(config Config) *Limiter {
	if config.CleanUpDuration <= 0 {
		config.CleanUpDuration = defaultCleanUpDuration
	}

	return &Limiter{
		config:  config,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

// Run occasionally forgets inactive clients, until context cancel.
func (limiter *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(limiter.config.CleanUpDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.cleanup()
		}
	}
}

// cleanup removes clients that were not seen during cleanup duration.
func (limiter *Limiter) cleanup() {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := limiter.now()
	for key, c := range limiter.clients {
		if now.Sub(c.lastSeen) > limiter.config.CleanUpDuration {
			delete(limiter.clients, key)
		}
	}
}

// IsAllowed indicates if client is allowed to make a request.
// When capacity is reached, the least recently seen client is evicted.
func (limiter *Limiter) IsAllowed(key string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := limiter.now()

	c, ok := limiter.clients[key]
	if !ok {
		if limiter.config.Capacity <= 0 {
			return false
		}
		if len(limiter.clients) >= limiter.config.Capacity {
			limiter.evictOldest()
		}

		every := limiter.config.CleanUpDuration / time.Duration(max(limiter.config.AllowedOccurrences, 1))
		c = &client{limiter: rate.NewLimiter(rate.Every(every), limiter.config.AllowedOccurrences)}
		limiter.clients[key] = c
	}

	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Len returns number of tracked clients.
func (limiter *Limiter) Len() int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	return len(limiter.clients)
}

func (limiter *Limiter) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for key, c := range limiter.clients {
		if !found || c.lastSeen.Before(oldest) {
			oldestKey, oldest, found = key, c.lastSeen, true
		}
	}

	if found {
		delete(limiter.clients, oldestKey)
	}
}
