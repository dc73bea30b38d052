package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})

	assert.NotNil(t, rl)
	assert.Equal(t, 10, rl.config.Requests)
	assert.Equal(t, time.Minute, rl.config.Window)
	assert.NotNil(t, rl.config.KeyFunc)
	assert.Equal(t, "Too many requests. Please try again later.", rl.config.Message)
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()

	call := func(handler echo.HandlerFunc, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(req, rec)))
		return rec
	}

	t.Run("WithinLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 2,
			Window:   time.Second,
		})
		handler := rl.Middleware()(okHandler)

		assert.Equal(t, http.StatusOK, call(handler, "10.0.0.1").Code)
		assert.Equal(t, http.StatusOK, call(handler, "10.0.0.1").Code)
	})

	t.Run("ExceededLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   time.Minute,
			Message:  "Slow down",
		})
		handler := rl.Middleware()(okHandler)

		assert.Equal(t, http.StatusOK, call(handler, "10.0.0.1").Code)

		rec := call(handler, "10.0.0.1")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.JSONEq(t, `{"error":"Slow down"}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   time.Minute,
		})
		handler := rl.Middleware()(okHandler)

		assert.Equal(t, http.StatusOK, call(handler, "10.0.0.1").Code)
		assert.Equal(t, http.StatusOK, call(handler, "10.0.0.2").Code)
		assert.Equal(t, http.StatusTooManyRequests, call(handler, "10.0.0.1").Code)
	})

	t.Run("WindowResets", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   50 * time.Millisecond,
		})
		handler := rl.Middleware()(okHandler)

		assert.Equal(t, http.StatusOK, call(handler, "10.0.0.1").Code)
		assert.Equal(t, http.StatusTooManyRequests, call(handler, "10.0.0.1").Code)

		time.Sleep(80 * time.Millisecond)
		assert.Equal(t, http.StatusOK, call(handler, "10.0.0.1").Code)
	})
}
