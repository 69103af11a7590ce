// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/yardmap/internal/platform/apperr"
	"github.com/taibuivan/yardmap/internal/platform/constants"
	"github.com/taibuivan/yardmap/internal/platform/respond"
)

// # Rate Limiting

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet holds one token bucket per client IP.
type limiterSet struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

// admit takes a token for ip. When the bucket is empty it returns the wait until
// the next token and leaves the bucket untouched.
func (set *limiterSet) admit(ip string, now time.Time) (time.Duration, bool) {
	set.mu.Lock()
	defer set.mu.Unlock()

	entry, ok := set.visitors[ip]
	if !ok {
		entry = &visitor{limiter: rate.NewLimiter(set.limit, set.burst)}
		set.visitors[ip] = entry
	}
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return time.Second, true
	}
	if wait := reservation.DelayFrom(now); wait > 0 {
		reservation.CancelAt(now)
		return wait, true
	}
	return 0, false
}

func (set *limiterSet) evictIdle(now time.Time, ttl time.Duration) {
	set.mu.Lock()
	defer set.mu.Unlock()

	for ip, entry := range set.visitors {
		if now.Sub(entry.lastSeen) > ttl {
			delete(set.visitors, ip)
		}
	}
}

// RateLimit applies the default per-IP budget. See [RateLimitWith].
func RateLimit(context context.Context) func(http.Handler) http.Handler {
	return RateLimitWith(context, rate.Limit(constants.DefaultRateLimitRPS), constants.DefaultRateLimitBurst)
}

/*
RateLimitWith throttles each client IP to limit requests per second with the given burst.

Rejected requests get 429 with a Retry-After header and do not consume tokens.
Idle clients are evicted until context is cancelled.
*/
func RateLimitWith(context context.Context, limit rate.Limit, burst int) func(http.Handler) http.Handler {
	set := &limiterSet{visitors: make(map[string]*visitor), limit: limit, burst: burst}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				set.evictIdle(now, constants.RateLimitClientTTL)
			case <-context.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			now := time.Now()
			if wait, limited := set.admit(RealIP(request), now); limited {
				seconds := max(1, int(math.Ceil(wait.Seconds())))
				writer.Header().Set("Retry-After", strconv.Itoa(seconds))
				respond.Error(writer, request, apperr.RateLimited(seconds))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
