// Package ratelimit provides a per-client in-memory request limiter with
// periodic cleanup of stale client entries.
package ratelimit

import (
	"sync"
	"time"
)

// staleAfter is how long a client may stay idle before its counter is dropped.
const staleAfter = 10 * time.Minute

// Config holds the limiter's tunables.
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// Limiter counts requests per client over a sliding one-minute window. A
// counter resets once the client has been quiet for a full minute.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*window
	limit    int

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	seen  time.Time
	count int
}

func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config = DefaultConfig()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	l := &Limiter{
		visitors: make(map[string]*window),
		limit:    config.RequestsPerMinute,
		stop:     make(chan struct{}),
	}
	go l.reapLoop(config.CleanupInterval)
	return l
}

// Allow records a request from clientIP and reports whether it fits the
// per-minute budget.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w := l.visitors[clientIP]
	if w == nil || now.Sub(w.seen) > time.Minute {
		l.visitors[clientIP] = &window{seen: now, count: 1}
		return true
	}

	w.count++
	w.seen = now
	return w.count <= l.limit
}

// ActiveClients returns how many clients currently have a live counter.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) reapLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.reap()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) reap() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	for ip, w := range l.visitors {
		if w.seen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}
