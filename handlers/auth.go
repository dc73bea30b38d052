package handlers

import (
	"net/http"

	"solve_litigation_go/db"
	"solve_litigation_go/middleware"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	EmailOrPhoneNumber string `json:"emailOrPhoneNumber"`
	Password           string `json:"password"`
}

type updateDetailsRequest struct {
	Title string `json:"title"`
	Data  string `json:"data"`
}

type passwordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func accountService(c echo.Context) *services.AccountService {
	return services.NewAccountService(db.DB, getConfig(c), services.Stats)
}

// RegisterHandler creates a guest account
func RegisterHandler(c echo.Context) error {
	var req services.RegisterInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if _, err := accountService(c).Register(req); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusCreated, "User registered successfully")
}

// LoginHandler exchanges credentials for an access token
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := accountService(c).Login(req.EmailOrPhoneNumber, req.Password)
	if err != nil {
		if de, ok := services.AsDomainError(err); ok && de.Status == http.StatusUnauthorized {
			services.Monitor.TrackFailedLogin(c.RealIP())
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// CheckAuthHandler reports that the bearer token is valid
func CheckAuthHandler(c echo.Context) error {
	return messageResponse(c, http.StatusOK, "User authorized.")
}

// UserDetailsHandler returns the public details of an account
func UserDetailsHandler(c echo.Context) error {
	details, err := accountService(c).Details(c.Param("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// UpdateDetailsHandler changes the email or phone number of an account
func UpdateDetailsHandler(c echo.Context) error {
	var req updateDetailsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user := middleware.GetCurrentUser(c)
	if err := accountService(c).UpdateDetails(c.Param("userId"), req.Title, req.Data, user); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusOK, "User details updated successfully")
}

// CreateStaffHandler creates a verified staff account (admin only)
func CreateStaffHandler(c echo.Context) error {
	var req services.RegisterInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := accountService(c).CreateStaff(req, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Staff registered successfully",
		"user":    user,
	})
}

// VerifyEmailHandler consumes an email verification link
func VerifyEmailHandler(c echo.Context) error {
	if err := services.VerifyEmail(db.DB, getConfig(c), c.Param("token")); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusOK, "Email verified")
}

// ForgotPasswordHandler emails a reset link. The response does not reveal
// whether the email belongs to an account.
func ForgotPasswordHandler(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := services.RequestPasswordReset(db.DB, getConfig(c), req.Email); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusOK, "If the email is registered, a reset link has been sent")
}

// ResetPasswordHandler verifies a reset token and, when a password is given, replaces it
func ResetPasswordHandler(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	changed, err := services.ResetPassword(db.DB, getConfig(c), c.Param("token"), req.Password)
	if err != nil {
		return respondError(c, err)
	}
	if changed {
		return messageResponse(c, http.StatusOK, "Password updated")
	}
	return messageResponse(c, http.StatusOK, "Token verified")
}
