package ratelimit

import (
	"context"
	"sync"
	"time"
)

const defaultLimit = 30

// Limiter - sliding window на посетителя (ключ - id из cookie или адрес)
type Limiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

type Config struct {
	RequestsPerMinute int
	// Window по умолчанию минута
	Window time.Duration
}

func New(ctx context.Context, cfg Config) *Limiter {
	limit := cfg.RequestsPerMinute
	if limit <= 0 {
		limit = defaultLimit
	}
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}

	l := &Limiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
	go l.cleanup(ctx)
	return l
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	fresh := l.fresh(key, now)

	if len(fresh) >= l.limit {
		l.requests[key] = fresh
		return false
	}

	l.requests[key] = append(fresh, now)
	return true
}

func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rem := l.limit - len(l.fresh(key, l.now())); rem > 0 {
		return rem
	}
	return 0
}

// ResetTime - когда освободится слот (приблизительно)
func (l *Limiter) ResetTime(key string) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.requests[key]
	if len(ts) == 0 {
		return l.now()
	}
	// timestamps добавляются по возрастанию
	return ts[0].Add(l.window)
}

// fresh оставляет запросы внутри окна; вызывать под mu
func (l *Limiter) fresh(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	old := l.requests[key]
	out := old[:0]
	for _, t := range old {
		if t.After(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

func (l *Limiter) cleanup(ctx context.Context) {
	tick := time.NewTicker(5 * time.Minute)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			l.sweep()
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key := range l.requests {
		if fresh := l.fresh(key, now); len(fresh) == 0 {
			delete(l.requests, key)
		} else {
			l.requests[key] = fresh
		}
	}
}
