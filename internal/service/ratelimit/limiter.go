package ratelimit

import (
	"sync"
	"time"

	"MaturityPlanner/pkg/util"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// sweepInterval is how often Allow drops buckets that have refilled completely.
const sweepInterval = time.Minute

// Limiter is a keyed token bucket. Each key starts full and refills continuously.
// A bucket that has refilled to capacity is indistinguishable from a new one, so
// such buckets are dropped periodically and keys of abandoned sessions or clients
// do not accumulate.
type Limiter struct {
	mu           sync.Mutex
	m            map[string]*bucket
	capacity     float64
	refillPerSec float64
	clock        util.Clock
	lastSweep    time.Time
}

func New(capacity, refillPerSec float64, clock util.Clock) *Limiter {
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &Limiter{
		m:            make(map[string]*bucket),
		capacity:     capacity,
		refillPerSec: refillPerSec,
		clock:        clock,
		lastSweep:    clock.Now(),
	}
}

// Allow returns true if one token can be consumed for key.
// A non-positive capacity disables limiting.
func (l *Limiter) Allow(key string) bool {
	if l.capacity <= 0 {
		return true
	}
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweep(now)
	}

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	// refill
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refillPerSec
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Forget drops the bucket for key, e.g. when its session ends.
func (l *Limiter) Forget(key string) {
	l.mu.Lock()
	delete(l.m, key)
	l.mu.Unlock()
}

// sweep drops buckets that are full again. Without refill nothing is dropped.
func (l *Limiter) sweep(now time.Time) {
	l.lastSweep = now
	if l.refillPerSec <= 0 {
		return
	}
	for key, b := range l.m {
		if b.tokens+now.Sub(b.last).Seconds()*l.refillPerSec >= l.capacity {
			delete(l.m, key)
		}
	}
}
