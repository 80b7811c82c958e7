package rate

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter: ventana fija in-process sobre go-cache. Sólo para una instancia.
type MemoryLimiter struct {
	c      *gocache.Cache
	Max    int64
	Window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, 2*window),
		Max:    int64(max),
		Window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	winStart := l.now().UTC().Truncate(l.Window)
	k := fmt.Sprintf("%s:%d", key, winStart.Unix())

	// Add falla si la key existe: en ese caso incrementamos.
	hits := int64(1)
	if err := l.c.Add(k, int64(1), l.Window); err != nil {
		n, err := l.c.IncrementInt64(k, 1)
		if err != nil {
			return Result{}, fmt.Errorf("rate: memory: %w", err)
		}
		hits = n
	}

	res := evaluate(hits, l.Max)
	if !res.Allowed {
		res.RetryAfter = winStart.Add(l.Window).Sub(l.now().UTC())
		if res.RetryAfter <= 0 {
			res.RetryAfter = time.Second
		}
	}
	return res, nil
}
