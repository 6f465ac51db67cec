package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/ticketflow/internal/infrastructure/ratelimit"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type countingLimiter struct {
	max  int
	seen map[string]int
	err  error
}

func (l *countingLimiter) Allow(_ context.Context, key string, _ ratelimit.Limit) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.seen[key]++
	return l.seen[key] <= l.max, nil
}

func (l *countingLimiter) Reset(_ context.Context, key string) error {
	delete(l.seen, key)
	return nil
}

func asActor(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != "" {
			c.Set(constants.ContextKeyUserID, id)
		}
		c.Next()
	}
}

func serve(engine *gin.Engine) int {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w.Code
}

func TestRateLimit_PerActor(t *testing.T) {
	limiter := &countingLimiter{max: 2, seen: map[string]int{}}
	m := NewRateLimitMiddleware(limiter, ratelimit.Limit{PerMinute: 2}, logger.NewNop())

	alice := newEngine(asActor("usr_alice"), m.PerActor("process"))
	bob := newEngine(asActor("usr_bob"), m.PerActor("process"))

	assert.Equal(t, http.StatusOK, serve(alice))
	assert.Equal(t, http.StatusOK, serve(alice))
	assert.Equal(t, http.StatusTooManyRequests, serve(alice))
	assert.Equal(t, http.StatusOK, serve(bob))
	assert.Equal(t, 3, limiter.seen["process:usr_alice"])
}

func TestRateLimit_FallsBackToClientIP(t *testing.T) {
	limiter := &countingLimiter{max: 1, seen: map[string]int{}}
	m := NewRateLimitMiddleware(limiter, ratelimit.Limit{PerMinute: 1}, logger.NewNop())

	engine := newEngine(asActor(""), m.PerActor("create"))
	assert.Equal(t, http.StatusOK, serve(engine))
	assert.Equal(t, http.StatusTooManyRequests, serve(engine))

	for key := range limiter.seen {
		assert.Contains(t, key, "create:ip:")
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter := &countingLimiter{err: fmt.Errorf("redis down")}
	m := NewRateLimitMiddleware(limiter, ratelimit.Limit{PerMinute: 1}, logger.NewNop())

	assert.Equal(t, http.StatusOK, serve(newEngine(asActor("usr_a"), m.PerActor("process"))))
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	var m *RateLimitMiddleware
	engine := newEngine(m.PerActor("process"))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(engine))
	}

	off := NewRateLimitMiddleware(&countingLimiter{seen: map[string]int{}}, ratelimit.Limit{}, logger.NewNop())
	assert.Equal(t, http.StatusOK, serve(newEngine(off.PerActor("process"))))
}
