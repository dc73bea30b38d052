package handlers

import (
	"net/http"

	"solve_litigation_go/db"
	"solve_litigation_go/middleware"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
)

// CreateNotificationHandler announces a citation (admin only)
func CreateNotificationHandler(c echo.Context) error {
	var req services.NotificationInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	service := services.NewNotificationService(db.DB)
	if _, err := service.CreateNotification(req, middleware.GetCurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusCreated, "Notification has been added.")
}

// GetNotificationsHandler lists notifications, newest first
func GetNotificationsHandler(c echo.Context) error {
	service := services.NewNotificationService(db.DB)
	notifications, err := service.GetNotifications()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// DeleteNotificationHandler removes a notification (admin only)
func DeleteNotificationHandler(c echo.Context) error {
	service := services.NewNotificationService(db.DB)
	if err := service.DeleteNotification(c.Param("id"), middleware.GetCurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusOK, "Notification deleted successfully")
}
