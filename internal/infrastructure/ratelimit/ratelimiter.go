package ratelimit

import "context"

// Limit caps how many events one key may record per window. A zero window
// is not enforced.
type Limit struct {
	PerMinute int
	PerHour   int
}

func (l Limit) Enabled() bool {
	return l.PerMinute > 0 || l.PerHour > 0
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit Limit) (bool, error)
	Reset(ctx context.Context, key string) error
}
