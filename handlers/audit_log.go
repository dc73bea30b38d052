package handlers

import (
	"net/http"
	"time"

	"solve_litigation_go/db"
	"solve_litigation_go/middleware"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
)

// AuditLogsHandler returns one page of the audit trail (admin only).
// Filters: user_id, resource_type, action, date_from and date_to (YYYY-MM-DD).
func AuditLogsHandler(c echo.Context) error {
	page, err := intParam(c.QueryParam("page"), 1)
	if err != nil {
		return badRequest(c, "Invalid page")
	}

	filters := services.AuditLogFilters{
		UserID:       c.QueryParam("user_id"),
		ResourceType: c.QueryParam("resource_type"),
		Action:       c.QueryParam("action"),
	}
	if dateFrom := c.QueryParam("date_from"); dateFrom != "" {
		t, err := time.Parse("2006-01-02", dateFrom)
		if err != nil {
			return badRequest(c, "Invalid date_from")
		}
		filters.DateFrom = t
	}
	if dateTo := c.QueryParam("date_to"); dateTo != "" {
		t, err := time.Parse("2006-01-02", dateTo)
		if err != nil {
			return badRequest(c, "Invalid date_to")
		}
		// end of day
		filters.DateTo = t.Add(24*time.Hour - time.Second)
	}

	result, err := services.ListAuditLogs(db.DB, filters, page, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// RecordHistoryHandler returns the audit history of a citation or act (admin only)
func RecordHistoryHandler(c echo.Context) error {
	history, err := services.RecordAuditHistory(db.DB, c.Param("id"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"history": history})
}
