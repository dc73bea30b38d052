package handlers

import (
	"net/http"
	"strconv"

	"solve_litigation_go/config"
	"solve_litigation_go/logger"
	"solve_litigation_go/middleware"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
)

// respondError writes a domain error as {"error": message}. Anything else is
// logged and reported as a 500.
func respondError(c echo.Context, err error) error {
	if de, ok := services.AsDomainError(err); ok {
		return c.JSON(de.Status, map[string]string{"error": de.Message})
	}

	kv := []interface{}{"error", err, "method", c.Request().Method, "path", c.Path()}
	if user := middleware.GetCurrentUser(c); user != nil {
		kv = append(kv, "user_id", user.ID)
	}
	logger.Log.Error("Request failed", kv...)
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": "Internal server error",
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func messageResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"message": message})
}

func getConfig(c echo.Context) *config.Config {
	cfg, _ := c.Get(middleware.ContextKeyConfig).(*config.Config)
	if cfg == nil {
		cfg = &config.Config{}
	}
	return cfg
}

// intParam parses a path or query value, falling back when it is absent
func intParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
