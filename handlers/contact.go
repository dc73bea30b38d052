package handlers

import (
	"net/http"

	"solve_litigation_go/db"
	"solve_litigation_go/middleware"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
)

func contactService(c echo.Context) *services.ContactService {
	return services.NewContactService(db.DB, getConfig(c).TurnstileSecret)
}

// SubmitContactHandler stores a public contact form submission
func SubmitContactHandler(c echo.Context) error {
	var req services.ContactInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if _, err := contactService(c).Submit(c.Request().Context(), req, c.RealIP()); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusCreated, "Form submitted successfully")
}

// ContactFormsHandler lists contact submissions (admin only)
func ContactFormsHandler(c echo.Context) error {
	forms, err := contactService(c).List(middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, forms)
}
