// Package ratelimit provides per-client token bucket rate limiting for the
// API. Generation endpoints get tight limits since each request costs a
// model call; dashboard reads are cheap and get loose ones.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// Rule is a per-path-prefix limit. Limit requests per Window, with bursts up
// to Burst.
type Rule struct {
	Prefix string
	Limit  int
	Window time.Duration
	Burst  int
}

// DefaultRules returns the limits for the API surface
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/analyze", Limit: 10, Window: time.Minute, Burst: 3},
		{Prefix: "/recommend", Limit: 20, Window: time.Minute, Burst: 5},
		{Prefix: "/sessions", Limit: 20, Window: time.Minute, Burst: 5},
		{Prefix: "/dashboard", Limit: 300, Window: time.Minute, Burst: 50},
	}
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Limiter tracks a token bucket per client+rule pair
type Limiter struct {
	mu           sync.Mutex
	buckets      map[string]*bucket
	lastAccess   map[string]time.Time
	rules        []Rule
	defaultLimit int
	now          func() time.Time
}

// New creates a Limiter with the given rules. Paths matching no rule fall
// back to defaultLimit per minute; defaultLimit <= 0 means unlimited.
func New(rules []Rule, defaultLimit int) *Limiter {
	return &Limiter{
		buckets:      map[string]*bucket{},
		lastAccess:   map[string]time.Time{},
		rules:        rules,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

func (l *Limiter) match(path string) (Rule, bool) {
	for _, rule := range l.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule, true
		}
	}
	if l.defaultLimit <= 0 {
		return Rule{}, false
	}
	return Rule{Limit: l.defaultLimit, Window: time.Minute, Burst: l.defaultLimit}, true
}

// Allow reports whether a request from clientID for path may proceed, and
// the seconds the client should wait when it may not.
func (l *Limiter) Allow(clientID, path string) (bool, int) {
	rule, limited := l.match(path)
	if !limited {
		return true, 0
	}

	key := clientID + ":" + rule.Prefix
	refillRate := float64(rule.Limit) / rule.Window.Seconds()
	capacity := float64(rule.Burst)
	if capacity <= 0 {
		capacity = float64(rule.Limit)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, lastRefill: now}
		l.buckets[key] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(capacity, b.tokens+elapsed*refillRate)
	b.lastRefill = now
	l.lastAccess[key] = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true, 0
	}

	retryAfter := int((1.0-b.tokens)/refillRate) + 1
	return false, retryAfter
}

// Prune drops buckets idle longer than maxIdle. Callers run this
// periodically to bound memory.
func (l *Limiter) Prune(maxIdle time.Duration) {
	cutoff := l.now().Add(-maxIdle)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastAccess, key)
		}
	}
}
