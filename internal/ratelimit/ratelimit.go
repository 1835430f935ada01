// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration
type Config struct {
	WindowSize    time.Duration // Time window for rate limiting
	MaxAttempts   int           // Maximum attempts per window
	CleanupPeriod time.Duration // How often to clean up old entries
}

// DefaultChatConfig bounds chat/search traffic per user.
func DefaultChatConfig() *Config {
	return &Config{
		WindowSize:    time.Minute,
		MaxAttempts:   30,
		CleanupPeriod: 10 * time.Minute,
	}
}

// UploadConfig is stricter: ingestion is the expensive path.
func UploadConfig() *Config {
	return &Config{
		WindowSize:    time.Minute,
		MaxAttempts:   10,
		CleanupPeriod: 10 * time.Minute,
	}
}

// RateLimitInfo describes the current window for response headers.
type RateLimitInfo struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

type attemptRecord struct {
	Count     int
	FirstSeen time.Time
}

// MemoryRateLimiter implements in-memory rate limiting. Each process keeps
// its own counters; limits are per instance, which is acceptable admission
// control for a single-node deploy.
type MemoryRateLimiter struct {
	config   *Config
	attempts map[string]*attemptRecord
	mu       sync.Mutex
	stopCh   chan struct{}
}

// NewMemoryRateLimiter creates a new in-memory rate limiter
func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	limiter := &MemoryRateLimiter{
		config:   config,
		attempts: make(map[string]*attemptRecord),
		stopCh:   make(chan struct{}),
	}
	go limiter.cleanupLoop()
	return limiter
}

// Allow checks if a request should be allowed
func (rl *MemoryRateLimiter) Allow(identifier string) (bool, *RateLimitInfo) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	record, exists := rl.attempts[identifier]

	if !exists || now.Sub(record.FirstSeen) > rl.config.WindowSize {
		rl.attempts[identifier] = &attemptRecord{Count: 1, FirstSeen: now}
		return true, &RateLimitInfo{
			Allowed:   true,
			Remaining: rl.config.MaxAttempts - 1,
			ResetTime: now.Add(rl.config.WindowSize),
		}
	}

	record.Count++
	remaining := rl.config.MaxAttempts - record.Count
	if remaining < 0 {
		remaining = 0
	}
	info := &RateLimitInfo{
		Allowed:   record.Count <= rl.config.MaxAttempts,
		Remaining: remaining,
		ResetTime: record.FirstSeen.Add(rl.config.WindowSize),
	}
	return info.Allowed, info
}

// Stop terminates the cleanup goroutine.
func (rl *MemoryRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := time.Now().Add(-rl.config.WindowSize)
	for id, record := range rl.attempts {
		if record.FirstSeen.Before(cutoff) {
			delete(rl.attempts, id)
		}
	}
}

// GetClientIP extracts the originating client address, honoring proxies.
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
