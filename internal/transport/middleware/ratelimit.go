package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL is how long a client's limiter survives without requests.
const idleTTL = 10 * time.Minute

// RateLimiter hands out per-client token buckets. Each Limit call creates an
// independent set of buckets, so routes with different budgets do not share
// state. Call Stop on shutdown.
type RateLimiter struct {
	mu     sync.Mutex
	scopes []*limitScope
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

type limitScope struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter starts a limiter that drops idle clients every
// cleanupInterval.
func NewRateLimiter(cleanupInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{now: time.Now, stop: make(chan struct{})}
	go rl.cleanup(cleanupInterval)
	return rl
}

// Stop terminates the background cleanup goroutine. It is safe to call twice.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Limit allows maxPerMinute requests per client IP, with bursts up to the
// full minute's budget. A non-positive limit disables limiting. Rejected
// requests get 429 and a Retry-After header.
func (rl *RateLimiter) Limit(maxPerMinute int) Middleware {
	if maxPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	scope := &limitScope{
		limit:   rate.Every(time.Minute / time.Duration(maxPerMinute)),
		burst:   maxPerMinute,
		clients: make(map[string]*clientLimiter),
	}
	rl.mu.Lock()
	rl.scopes = append(rl.scopes, scope)
	rl.mu.Unlock()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := rl.now()
			res := scope.get(clientIP(r), now).ReserveN(now, 1)
			if delay := res.DelayFrom(now); delay > 0 {
				res.CancelAt(now)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *limitScope) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[key]
	if !ok {
		c = &clientLimiter{lim: rate.NewLimiter(s.limit, s.burst)}
		s.clients[key] = c
	}
	c.lastSeen = now
	return c.lim
}

func (s *limitScope) evictIdle(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, c := range s.clients {
		if now.Sub(c.lastSeen) > idleTTL {
			delete(s.clients, key)
		}
	}
}

func (s *limitScope) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	scopes := append([]*limitScope(nil), rl.scopes...)
	rl.mu.Unlock()

	now := rl.now()
	for _, s := range scopes {
		s.evictIdle(now)
	}
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}
