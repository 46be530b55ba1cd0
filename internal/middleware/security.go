package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nafsiapp/nafsi-backend/pkg/clientip"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// HostCheck returns 403 when r.Host does not match allowedHost.
// allowedHost should be the bare hostname without scheme or port.
func HostCheck(allowedHost string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedHost == "" {
				next.ServeHTTP(w, r)
				return
			}
			reqHost := r.Host
			if host, _, err := net.SplitHostPort(reqHost); err == nil {
				reqHost = host
			}
			if !strings.EqualFold(strings.TrimSpace(reqHost), strings.TrimSpace(allowedHost)) {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte("Forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// --- Per-IP token-bucket limiters (in-process, complement the Redis limiter) ---

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

type limiterPool struct {
	mu         sync.Mutex
	entries    map[string]*limiterEntry
	newLimiter func() *rate.Limiter
	cleanupRun bool
}

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterTTL             = 30 * time.Minute
)

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startCleanupOnce()

	e, ok := p.entries[key]
	if !ok {
		e = &limiterEntry{limiter: p.newLimiter(), lastUse: time.Now()}
		p.entries[key] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func (p *limiterPool) startCleanupOnce() {
	if p.cleanupRun {
		return
	}
	p.cleanupRun = true
	go func() {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			p.mu.Lock()
			now := time.Now()
			for k, e := range p.entries {
				if now.Sub(e.lastUse) > limiterTTL {
					delete(p.entries, k)
				}
			}
			p.mu.Unlock()
		}
	}()
}

var (
	// Global: 1 req/s, burst 10 per IP.
	globalLimiters = &limiterPool{
		entries:    make(map[string]*limiterEntry),
		newLimiter: func() *rate.Limiter { return rate.NewLimiter(rate.Limit(1), 10) },
	}
	// Generative routes are expensive upstream: 1 req/5s, burst 2 per IP.
	generativeLimiters = &limiterPool{
		entries:    make(map[string]*limiterEntry),
		newLimiter: func() *rate.Limiter { return rate.NewLimiter(rate.Every(5*time.Second), 2) },
	}
	// Chat history: 30/min, burst 20 per IP, so rapid room switching
	// doesn't trip the global limiter.
	historyLimiters = &limiterPool{
		entries:    make(map[string]*limiterEntry),
		newLimiter: func() *rate.Limiter { return rate.NewLimiter(rate.Limit(0.5), 20) },
	}
)

// GlobalRateLimit limits each IP to 1 req/s, burst 10. Returns 429 when exceeded.
func GlobalRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientip.RealClientIP(r)
		if !globalLimiters.get(ip).Allow() {
			writeTooMany(w, "Too many requests. Please slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GenerativeRateLimit applies a stricter limit to the assessment routes,
// which call the generative collaborator. Use after GlobalRateLimit.
func GenerativeRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/assessment/") {
			next.ServeHTTP(w, r)
			return
		}
		ip := clientip.RealClientIP(r)
		if !generativeLimiters.get(ip).Allow() {
			writeTooMany(w, "Too many assessment requests. Please try again in a moment.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ChatHistoryRateLimit applies rate limiting only to GET /api/chat/history.
func ChatHistoryRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !strings.HasPrefix(r.URL.Path, "/api/chat/history") {
			next.ServeHTTP(w, r)
			return
		}
		ip := clientip.RealClientIP(r)
		if !historyLimiters.get(ip).Allow() {
			writeTooMany(w, "Too many chat history requests. Please slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeTooMany(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"success":false,"message":"` + msg + `"}`))
}

// ProductionSecurity returns middlewares for production: security
// headers, host check, then the per-IP limiters.
func ProductionSecurity(allowedHost string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		HostCheck(allowedHost),
		GlobalRateLimit,
		GenerativeRateLimit,
		ChatHistoryRateLimit,
	}
}
