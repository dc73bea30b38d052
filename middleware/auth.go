package middleware

import (
	"net/http"
	"strings"

	"solve_litigation_go/db"
	"solve_litigation_go/logger"
	"solve_litigation_go/models"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// ContextKeyConfig is the context key for the application config
	ContextKeyConfig = "config"
)

// RequireAuth is middleware that requires a valid bearer access token.
// The account behind the token is loaded on every request.
func RequireAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, msg := authenticate(c, secret)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
			}
			c.Set(ContextKeyUser, user)
			return next(c)
		}
	}
}

// OptionalAuth loads the user when a valid token is present and otherwise
// lets the request through anonymously
func OptionalAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if bearerToken(c) != "" {
				if user, _ := authenticate(c, secret); user != nil {
					c.Set(ContextKeyUser, user)
				}
			}
			return next(c)
		}
	}
}

// RequireLevel is middleware that requires the user to be at least the given level.
// It must run after RequireAuth.
func RequireLevel(min services.Level) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			if services.LevelOf(user) < min {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Access denied"})
			}
			return next(c)
		}
	}
}

// RequireStaff allows staff and admins
func RequireStaff() echo.MiddlewareFunc {
	return RequireLevel(services.LevelStaff)
}

// RequireAdmin allows admins only
func RequireAdmin() echo.MiddlewareFunc {
	return RequireLevel(services.LevelAdmin)
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// authenticate resolves the bearer token to an account. On failure it
// returns the message to send back.
func authenticate(c echo.Context, secret string) (*models.User, string) {
	token := bearerToken(c)
	if token == "" {
		return nil, "Unauthorized"
	}

	claims, err := services.ParseToken(secret, token, services.TokenPurposeAccess)
	if err != nil {
		return nil, "Invalid or expired token"
	}

	user, err := services.GetUserByID(db.DB, claims.Subject)
	if err != nil {
		if _, ok := services.AsDomainError(err); !ok {
			logger.Log.Error("Failed to load token user", "user_id", claims.Subject, "error", err)
		}
		return nil, "Invalid or expired token"
	}
	return user, ""
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
