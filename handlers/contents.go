package handlers

import (
	"net/http"

	"solve_litigation_go/db"
	"solve_litigation_go/middleware"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
)

type catalogNameRequest struct {
	Name string `json:"name"`
}

type catalogRenameRequest struct {
	ID      string `json:"_id"`
	NewName string `json:"newName"`
}

type catalogDeleteRequest struct {
	IDs []string `json:"ids"`
}

// StatisticsHandler returns record and user counts (staff or admin)
func StatisticsHandler(c echo.Context) error {
	stats := services.Stats
	if stats == nil {
		stats = services.NewStatisticsService(db.DB)
	}

	result, err := stats.Get(middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// SecurityAlertsHandler lists recent failed-login alerts (admin only)
func SecurityAlertsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"alerts": services.Monitor.GetRecentAlerts(),
	})
}

// AddCatalogEntryHandler adds a name to the given catalog (admin only)
func AddCatalogEntryHandler(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req catalogNameRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		entry, err := services.NewCatalogService(db.DB).Add(kind, req.Name, middleware.GetCurrentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{
			"message": services.CatalogLabel(kind) + " added successfully",
			"entry":   entry,
		})
	}
}

// ListCatalogHandler lists the entries of the given catalog
func ListCatalogHandler(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		entries, err := services.NewCatalogService(db.DB).List(kind, middleware.GetCurrentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, entries)
	}
}

// RenameCatalogEntryHandler renames an entry of the given catalog (admin only)
func RenameCatalogEntryHandler(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req catalogRenameRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		entry, err := services.NewCatalogService(db.DB).Rename(kind, req.ID, req.NewName, middleware.GetCurrentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": services.CatalogLabel(kind) + " updated successfully",
			"entry":   entry,
		})
	}
}

// DeleteCatalogEntriesHandler removes entries of the given catalog (admin only)
func DeleteCatalogEntriesHandler(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req catalogDeleteRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		deleted, err := services.NewCatalogService(db.DB).Delete(kind, req.IDs, middleware.GetCurrentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": services.CatalogLabel(kind) + " entries deleted successfully",
			"deleted": deleted,
		})
	}
}
