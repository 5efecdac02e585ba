package server

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a fixed-window request limiter keyed by client IP.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientWindow
	limit    int
	window   time.Duration
	cleanup  time.Duration
	trusted  map[string]struct{}
	stopOnce sync.Once
	stop     chan struct{}
}

type clientWindow struct {
	remaining int
	start     time.Time
}

// RateLimiterConfig configures a RateLimiter. Zero fields take defaults.
type RateLimiterConfig struct {
	// Requests is the number of requests a client may make per Window.
	Requests        int
	Window          time.Duration
	CleanupInterval time.Duration
	// TrustedProxies lists the peer addresses allowed to name the client
	// through X-Forwarded-For or X-Real-IP. Other peers are keyed by their
	// own address, so rotating those headers does not reset the limit.
	TrustedProxies []string
}

// DefaultRateLimiterConfig allows 120 requests per minute per client.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Requests:        120,
		Window:          time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// NewRateLimiter starts a limiter and its cleanup goroutine. Call Stop to
// release it.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	def := DefaultRateLimiterConfig()
	if config.Requests <= 0 {
		config.Requests = def.Requests
	}
	if config.Window <= 0 {
		config.Window = def.Window
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   config.Requests,
		window:  config.Window,
		cleanup: config.CleanupInterval,
		trusted: make(map[string]struct{}, len(config.TrustedProxies)),
		stop:    make(chan struct{}),
	}
	for _, p := range config.TrustedProxies {
		rl.trusted[strings.Trim(strings.TrimSpace(p), "[]")] = struct{}{}
	}
	go rl.cleanupLoop()
	return rl
}

// Allow consumes one request for client and reports whether it is within
// the limit.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, ok := rl.clients[client]
	if !ok || now.Sub(cw.start) >= rl.window {
		rl.clients[client] = &clientWindow{remaining: rl.limit - 1, start: now}
		return true
	}
	if cw.remaining > 0 {
		cw.remaining--
		return true
	}
	return false
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.evict(time.Now())
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) evict(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for client, cw := range rl.clients {
		if now.Sub(cw.start) > 2*rl.window {
			delete(rl.clients, client)
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// RateLimitMiddleware answers 429 with a Retry-After header once a client
// exceeds its window.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	retryAfter := strconv.Itoa(int(rl.window.Seconds()))
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.ClientIP(r)) {
			w.Header().Set("Retry-After", retryAfter)
			writeJSONResponse(w, http.StatusTooManyRequests, ErrorResponse{
				Error:   "Too Many Requests",
				Message: "Rate limit exceeded. Please try again later.",
			})
			return
		}
		next(w, r)
	}
}

// ClientIP returns the address requests from r are counted under. A nil
// limiter trusts no proxy.
func (rl *RateLimiter) ClientIP(r *http.Request) string {
	var trusted map[string]struct{}
	if rl != nil {
		trusted = rl.trusted
	}
	return getClientIP(r, trusted)
}

// getClientIP returns the host of RemoteAddr. When that host is a trusted
// proxy, the first X-Forwarded-For hop or else X-Real-IP is used instead.
func getClientIP(r *http.Request, trusted map[string]struct{}) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = strings.Trim(r.RemoteAddr, "[]")
	}
	if _, ok := trusted[host]; !ok {
		return host
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return host
}
