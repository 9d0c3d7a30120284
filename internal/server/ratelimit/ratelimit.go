// Package ratelimit provides per-client rate limiting using the token
// bucket algorithm. Model-backed endpoints get much tighter budgets
// than plain feed reads.
package ratelimit

import (
	"sync"
	"time"
)

// tokenBucket refills at a steady rate up to a burst capacity.
type tokenBucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64) *tokenBucket {
	return &tokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// take refills the bucket for elapsed time and consumes one token if
// available.
func (tb *tokenBucket) take() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// status reports remaining tokens and when the bucket will be full.
func (tb *tokenBucket) status() (remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	remaining = int(tb.tokens)
	now := tb.lastRefill
	if tb.tokens < float64(tb.capacity) {
		deficit := float64(tb.capacity) - tb.tokens
		resetTime = now.Add(time.Duration(deficit / tb.refillRate * float64(time.Second)))
	} else {
		resetTime = now
	}
	return remaining, resetTime
}

// refill advances the bucket to now. Callers must hold the mutex.
func (tb *tokenBucket) refill() {
	now := time.Now()
	tb.tokens = min(float64(tb.capacity), tb.tokens+now.Sub(tb.lastRefill).Seconds()*tb.refillRate)
	tb.lastRefill = now
}

// Info describes the rate limit state returned with each decision.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks a token bucket per client and endpoint.
type Limiter struct {
	mu         sync.RWMutex
	buckets    map[string]*tokenBucket
	config     *Config
	lastAccess map[string]time.Time
	accessMu   sync.RWMutex
	sweeper    *time.Ticker
	stop       chan struct{}
}

// NewLimiter creates a rate limiter. A nil config uses defaults.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}

	l := &Limiter{
		buckets:    make(map[string]*tokenBucket),
		config:     config,
		lastAccess: make(map[string]time.Time),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.sweeper = time.NewTicker(config.CleanupInterval)
		l.stop = make(chan struct{})
		go l.sweepLoop()
	}

	return l
}

// Allow decides whether a request from clientID to the given endpoint
// may proceed, and reports the limit state either way.
func (l *Limiter) Allow(clientID, endpoint, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	rule := l.config.match(endpoint, method)
	if rule.Limit <= 0 {
		// Unlimited endpoint, e.g. health check
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + method + ":" + rule.Path
	bucket := l.bucket(key, rule)

	l.accessMu.Lock()
	l.lastAccess[key] = time.Now()
	l.accessMu.Unlock()

	allowed := bucket.take()
	remaining, resetTime := bucket.status()

	var retryAfter time.Duration
	if !allowed {
		if retryAfter = time.Until(resetTime); retryAfter < 0 {
			retryAfter = 0
		}
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      rule.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

func (l *Limiter) bucket(key string, rule EndpointRule) *tokenBucket {
	l.mu.RLock()
	bucket, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return bucket
	}

	burst := rule.Burst
	if burst <= 0 {
		burst = rule.Limit
	}
	fresh := newTokenBucket(burst, float64(rule.Limit)/rule.Window.Seconds())

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.buckets[key]; ok {
		return existing
	}
	l.buckets[key] = fresh
	return fresh
}

func (l *Limiter) sweepLoop() {
	for {
		select {
		case <-l.sweeper.C:
			l.dropIdleBuckets()
		case <-l.stop:
			return
		}
	}
}

// dropIdleBuckets removes buckets idle for over an hour so per-client
// state does not grow without bound.
func (l *Limiter) dropIdleBuckets() {
	cutoff := time.Now().Add(-time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.accessMu.Lock()
	defer l.accessMu.Unlock()

	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastAccess, key)
		}
	}
}

// Stop halts the background sweeper.
func (l *Limiter) Stop() {
	if l.sweeper != nil {
		l.sweeper.Stop()
	}
	if l.stop != nil {
		close(l.stop)
	}
}
