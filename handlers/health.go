package handlers

import (
	"net/http"

	"solve_litigation_go/db"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports whether the database answers
func HealthHandler(c echo.Context) error {
	status := map[string]string{"status": "ok", "database": "ok"}
	if db.DB == nil {
		status["status"], status["database"] = "degraded", "not initialized"
		return c.JSON(http.StatusServiceUnavailable, status)
	}

	sqlDB, err := db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		status["status"], status["database"] = "degraded", "unreachable"
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}
