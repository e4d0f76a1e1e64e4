// Package ratelimit throttles API clients with per client and endpoint token buckets.
package ratelimit

import (
	"sync"
	"time"
)

// bucket holds up to capacity tokens and refills at rate tokens per second
type bucket struct {
	mu         sync.Mutex
	capacity   float64
	rate       float64
	tokens     float64
	lastRefill time.Time
	lastUsed   time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{
		capacity:   float64(capacity),
		rate:       rate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastUsed:   now,
	}
}

// refill must be called with mu held
func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
		b.lastRefill = now
	}
}

// take consumes one token if available and reports the bucket state afterwards
func (b *bucket) take(now time.Time) Info {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(now)
	b.lastUsed = now
	info := Info{ResetTime: now}
	if b.tokens >= 1 {
		b.tokens--
		info.Allowed = true
	} else {
		info.RetryAfter = b.secondsFor(1 - b.tokens)
	}
	info.Remaining = int(b.tokens)
	if b.tokens < b.capacity {
		info.ResetTime = now.Add(b.secondsFor(b.capacity - b.tokens))
	}
	return info
}

func (b *bucket) secondsFor(tokens float64) time.Duration {
	return time.Duration(tokens / b.rate * float64(time.Second))
}

func (b *bucket) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUsed.Before(cutoff)
}

// Info describes the limit applied to one request
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter manages the buckets of all clients. It is safe for concurrent use.
type Limiter struct {
	config  *Config
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a limiter. A nil config uses DefaultConfig.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow reports whether a request from client may proceed
func (l *Limiter) Allow(client, method, path string) (bool, Info) {
	switch {
	case !l.config.Enabled, l.config.Allowlist[client]:
		return true, Info{Allowed: true}
	case l.config.Denylist[client]:
		return false, Info{}
	}

	limit, window, burst := l.config.DefaultLimit, l.config.DefaultWindow, l.config.DefaultLimit
	key := client + " " + method
	if rule := l.config.Match(method, path); rule != nil {
		limit, window, burst = rule.Limit, rule.Window, rule.Burst
		key += " " + rule.Path
	}
	if limit <= 0 || window <= 0 {
		return true, Info{Allowed: true}
	}
	if burst <= 0 {
		burst = limit
	}

	now := l.now()
	info := l.bucketFor(key, burst, float64(limit)/window.Seconds(), now).take(now)
	info.Limit = limit
	return info.Allowed, info
}

func (l *Limiter) bucketFor(key string, capacity int, rate float64, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(capacity, rate, now)
		l.buckets[key] = b
	}
	return b
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Cleanup()
		case <-l.stop:
			return
		}
	}
}

// Cleanup drops buckets that have been idle for longer than the configured TTL
func (l *Limiter) Cleanup() {
	ttl := l.config.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cutoff := l.now().Add(-ttl)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Len returns the number of live buckets
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
