package localratelimiter

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Rule allows Limit requests per Period for each client, refilling evenly.
type Rule struct {
	Name   string
	Limit  int
	Period time.Duration
}

func PerDay(n int) Rule    { return Rule{Name: fmt.Sprintf("%d_per_day", n), Limit: n, Period: 24 * time.Hour} }
func PerHour(n int) Rule   { return Rule{Name: fmt.Sprintf("%d_per_hour", n), Limit: n, Period: time.Hour} }
func PerMinute(n int) Rule { return Rule{Name: fmt.Sprintf("%d_per_minute", n), Limit: n, Period: time.Minute} }

// RateLimiter struct to hold limiter information and related methods
type RateLimiter struct {
	limiters  map[string]*limiterEntry
	mutex     sync.Mutex
	now       func() time.Time
	onLimited func(rule string)
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	period   time.Duration
}

type Option func(*RateLimiter)

// WithLimitedHook is called with the rule name whenever a request is rejected.
func WithLimitedHook(hook func(rule string)) Option {
	return func(rl *RateLimiter) {
		rl.onLimited = hook
	}
}

func NewRateLimiter(opts ...Option) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// Middleware enforces every rule against the client IP. All rules must allow the request.
// Each route keeps its own counters, so routes sharing a rule do not share a budget.
func (rl *RateLimiter) Middleware(rules ...Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := routeKey(c)
		for _, rule := range rules {
			if rule.Limit <= 0 {
				continue
			}
			if !rl.Allow(client, rule) {
				if rl.onLimited != nil {
					rl.onLimited(rule.Name)
				}
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
				return
			}
		}
		c.Next()
	}
}

func routeKey(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return c.Request.Method + " " + route + "|" + c.ClientIP()
}

// Allow consumes one token from the client's bucket for rule.
func (rl *RateLimiter) Allow(client string, rule Rule) bool {
	rl.mutex.Lock()
	entry := rl.getLimiter(rule.Name+"-"+client, rule)
	rl.mutex.Unlock()
	return entry.limiter.AllowN(rl.now(), 1)
}

// Helper function to get a rate limiter from the map, creating a new one if necessary
func (rl *RateLimiter) getLimiter(key string, rule Rule) *limiterEntry {
	now := rl.now()
	if entry, exists := rl.limiters[key]; exists {
		entry.lastSeen = now
		return entry
	}

	entry := &limiterEntry{
		limiter:  rate.NewLimiter(rate.Every(rule.Period/time.Duration(rule.Limit)), rule.Limit),
		lastSeen: now,
		period:   rule.Period,
	}
	rl.limiters[key] = entry

	return entry
}

// Run evicts idle limiters every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// An entry idle for a full period has refilled completely, so dropping it loses nothing.
func (rl *RateLimiter) cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	now := rl.now()
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > entry.period {
			delete(rl.limiters, key)
		}
	}
}

func (rl *RateLimiter) size() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.limiters)
}
