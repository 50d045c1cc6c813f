package middleware

import (
	"net/http"
	"sync"
	"time"

	apperrors "github.com/ksquareincmx/conference-server-sub000/pkg/errors"
	httputil "github.com/ksquareincmx/conference-server-sub000/pkg/http"
	"github.com/ksquareincmx/conference-server-sub000/pkg/logger"
)

// CallerRateLimiter throttles requests per caller identity using a sliding
// window. Requests without a resolvable caller pass through; the caller
// middleware rejects those separately.
type CallerRateLimiter struct {
	mu       sync.RWMutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
}

func NewCallerRateLimiter(limit int, window time.Duration, log *logger.Logger) *CallerRateLimiter {
	limiter := &CallerRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		log:      log,
		stopCh:   make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

// cleanup drops callers whose whole window has lapsed so the map does not
// grow with every identity ever seen.
func (rl *CallerRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for caller, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, caller)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *CallerRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *CallerRateLimiter) Allow(caller string) bool {
	if caller == "" {
		return true
	}

	now := time.Now()

	rl.mu.RLock()
	timestamps := rl.requests[caller]
	rl.mu.RUnlock()

	valid := make([]time.Time, 0, len(timestamps)+1)
	for _, ts := range timestamps {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		return false
	}

	valid = append(valid, now)

	rl.mu.Lock()
	rl.requests[caller] = valid
	rl.mu.Unlock()

	return true
}

func CallerRateLimit(limiter *CallerRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if ok && !limiter.Allow(caller.ID) {
				limiter.log.Warn("Rate limit exceeded",
					"caller_id", caller.ID,
					"path", r.URL.Path,
				)
				httputil.WriteError(w, apperrors.New(
					apperrors.CodeBadRequest,
					"Too many requests. Please try again later.",
					http.StatusTooManyRequests,
				))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
