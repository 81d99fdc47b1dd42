package ratelimit

import (
	"sync"
	"time"

	"github.com/prasetyowira/qrlink/constant"
	appLogger "github.com/prasetyowira/qrlink/infrastructure/logger"
)

// bucket tracks request counts for one key inside the current window
type bucket struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window in-memory rate limiter. The middleware
// keys it by client IP. Counters reset when their window expires and a
// background sweep prunes idle keys so the map does not keep one entry
// per client forever.
//
// State is per-process. Running several instances multiplies the
// effective limit accordingly.
type Limiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	buckets  map[string]*bucket
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a limiter allowing limit requests per window for each key
func New(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}

	appLogger.CtxDebug(appLogger.NewRequestContext(), "Rate limiter configured", appLogger.LoggerInfo{
		ContextFunction: constant.CtxRateLimit,
		Data: map[string]interface{}{
			constant.DataLimit:  limit,
			constant.DataWindow: window.String(),
		},
	})

	return l
}

// Start launches the background sweep. Call Stop to release it.
func (l *Limiter) Start() {
	go l.sweep()
}

// Stop cancels the background sweep. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

// Allow reports whether the key may make another request inside its
// current window, counting the request when it may.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}

	if b.count >= l.limit {
		return false
	}

	b.count++
	return true
}

// RetryAfter returns how long the key has to wait before its window
// resets. Zero when the key has no live window.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		return 0
	}

	if remaining := time.Until(b.resetAt); remaining > 0 {
		return remaining
	}
	return 0
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.prune(now)
		}
	}
}

// prune drops every bucket whose window has already expired
func (l *Limiter) prune(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if now.After(b.resetAt) {
			delete(l.buckets, key)
		}
	}
}
