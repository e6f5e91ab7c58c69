package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter implements a simple in-memory fixed-window rate limiter keyed
// by authenticated user and by remote IP.
type RateLimiter struct {
	userLimits map[uint]*windowCount
	ipLimits   map[string]*windowCount
	mu         sync.Mutex

	userMaxRequests int
	ipMaxRequests   int
	window          time.Duration
}

type windowCount struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(userMaxRequests, ipMaxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		userLimits:      make(map[uint]*windowCount),
		ipLimits:        make(map[string]*windowCount),
		userMaxRequests: userMaxRequests,
		ipMaxRequests:   ipMaxRequests,
		window:          window,
	}

	go rl.cleanup()

	return rl
}

// AllowUser checks the per-user window.
func (rl *RateLimiter) AllowUser(userID uint) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	limit, exists := rl.userLimits[userID]
	if !exists || now.After(limit.resetTime) {
		rl.userLimits[userID] = &windowCount{requests: 1, resetTime: now.Add(rl.window)}
		return true
	}
	if limit.requests >= rl.userMaxRequests {
		return false
	}
	limit.requests++
	return true
}

// AllowIP checks the per-IP window.
func (rl *RateLimiter) AllowIP(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	limit, exists := rl.ipLimits[ip]
	if !exists || now.After(limit.resetTime) {
		rl.ipLimits[ip] = &windowCount{requests: 1, resetTime: now.Add(rl.window)}
		return true
	}
	if limit.requests >= rl.ipMaxRequests {
		return false
	}
	limit.requests++
	return true
}

// Handler wraps an http handler with the per-IP check.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !rl.AllowIP(ip) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserHandler wraps an http handler with the per-user check. It must run
// after Auth so the claims are on the context.
func (rl *RateLimiter) UserHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := ClaimsFrom(r.Context()); claims != nil && !rl.AllowUser(claims.UserID) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for id, limit := range rl.userLimits {
			if now.After(limit.resetTime) {
				delete(rl.userLimits, id)
			}
		}
		for ip, limit := range rl.ipLimits {
			if now.After(limit.resetTime) {
				delete(rl.ipLimits, ip)
			}
		}
		rl.mu.Unlock()
	}
}
