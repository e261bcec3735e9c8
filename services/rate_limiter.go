package services

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SwipeRateLimiter throttles swipe recording per user. It replaces
// ambient cooldown state with an injected component: one token-bucket
// limiter per user id, refilling one swipe per configured window.
type SwipeRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	window   time.Duration
	burst    int
}

// NewSwipeRateLimiter builds a limiter allowing `burst` immediate swipes
// and one more per `window` thereafter, tracked per user.
func NewSwipeRateLimiter(window time.Duration, burst int) *SwipeRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &SwipeRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		window:   window,
		burst:    burst,
	}
}

// Allow reports whether the user may record a swipe right now.
func (l *SwipeRateLimiter) Allow(userID string) bool {
	if l == nil || l.window <= 0 {
		return true
	}

	l.mu.Lock()
	limiter, ok := l.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(l.window), l.burst)
		l.limiters[userID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
