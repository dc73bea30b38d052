package middleware

import (
	"net/http"
	"time"

	"solve_litigation_go/logger"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestLogger logs one structured line per request through the global logger.
// Server errors log at error level, client errors at warn.
func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			kv := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Round(time.Microsecond).Seconds() * 1000,
				"ip", v.RemoteIP,
			}
			if v.RequestID != "" {
				kv = append(kv, "request_id", v.RequestID)
			}
			if user := GetCurrentUser(c); user != nil {
				kv = append(kv, "user_id", user.ID)
			}
			if v.Error != nil {
				kv = append(kv, "error", v.Error)
			}

			switch {
			case v.Status >= http.StatusInternalServerError:
				logger.Log.Error("request", kv...)
			case v.Status >= http.StatusBadRequest:
				logger.Log.Warn("request", kv...)
			default:
				logger.Log.Info("request", kv...)
			}
			return nil
		},
	})
}
