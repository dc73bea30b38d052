package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"solve_litigation_go/logger"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the maximum number of requests allowed within the window
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
	// KeyFunc is a function that returns a unique key for rate limiting (defaults to IP)
	KeyFunc func(c echo.Context) string
	// Message is the error message returned when rate limit is exceeded
	Message string
}

// RateLimiter is a fixed-window limiter keyed per client. Counters expire with their window.
type RateLimiter struct {
	config RateLimitConfig
	store  *cache.Cache
	mu     sync.Mutex
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}

	return &RateLimiter{
		config: config,
		store:  cache.New(config.Window, time.Minute),
	}
}

// allow counts a request for key. When the limit is reached it returns false
// and the time until the window resets.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	value, expiresAt, found := rl.store.GetWithExpiration(key)
	remaining := time.Until(expiresAt)
	if !found || remaining <= 0 {
		rl.store.Set(key, 1, rl.config.Window)
		return true, 0
	}

	count := value.(int)
	if count >= rl.config.Requests {
		return false, remaining
	}
	rl.store.Set(key, count+1, remaining)
	return true, 0
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rl.config.KeyFunc(c)

			ok, retryAfter := rl.allow(key)
			if !ok {
				logger.Log.Warn("Rate limit exceeded", "key", key, "path", c.Path())
				seconds := int(math.Ceil(retryAfter.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": rl.config.Message})
			}
			return next(c)
		}
	}
}

// Pre-configured rate limiters for common use cases

// LoginRateLimiter limits login attempts to 5 per minute per IP
var LoginRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 5,
	Window:   1 * time.Minute,
	Message:  "Too many login attempts. Please wait a minute before trying again.",
})

// PasswordResetRateLimiter limits password reset requests to 3 per hour per IP
var PasswordResetRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 3,
	Window:   1 * time.Hour,
	Message:  "Too many password reset requests. Please try again later.",
})

// PublicFormRateLimiter limits public form submissions to 10 per minute per IP
var PublicFormRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 10,
	Window:   1 * time.Minute,
	Message:  "Too many form submissions. Please wait before trying again.",
})

// APIRateLimiter limits general API requests to 120 per minute per IP
var APIRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 120,
	Window:   1 * time.Minute,
	Message:  "Rate limit exceeded. Please slow down your requests.",
})
