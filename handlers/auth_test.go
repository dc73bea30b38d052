package handlers

import (
	"net/http"
	"testing"

	"solve_litigation_go/models"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registerBody = `{
	"fullName": "Asha Verma",
	"email": "asha@example.com",
	"phoneNumber": "9811122233",
	"password": "advocate2024",
	"registrationType": "student",
	"state": "Delhi",
	"district": "South"
}`

func TestRegisterAndLoginHandlers(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()

	c, rec := newContext(e, http.MethodPost, "/api/solve_litigation/auth/register", registerBody, nil)
	require.NoError(t, RegisterHandler(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "User registered successfully", decodeBody(t, rec)["message"])

	var user models.User
	require.NoError(t, testDB.Where("email = ?", "asha@example.com").First(&user).Error)
	assert.Equal(t, models.UserTypeGuest, user.UserType)
	assert.NotEqual(t, "advocate2024", user.Password)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		c, rec := newContext(e, http.MethodPost, "/", registerBody, nil)
		require.NoError(t, RegisterHandler(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("login by phone number", func(t *testing.T) {
		body := `{"emailOrPhoneNumber": "9811122233", "password": "advocate2024"}`
		c, rec := newContext(e, http.MethodPost, "/", body, nil)
		require.NoError(t, LoginHandler(c))
		require.Equal(t, http.StatusOK, rec.Code)

		result := decodeBody(t, rec)
		token, _ := result["token"].(string)
		require.NotEmpty(t, token)

		claims, err := services.ParseToken(testSecret, token, services.TokenPurposeAccess)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.Subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := `{"emailOrPhoneNumber": "asha@example.com", "password": "wrong-pass1"}`
		c, rec := newContext(e, http.MethodPost, "/", body, nil)
		require.NoError(t, LoginHandler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["error"])
	})
}

func TestRepeatedFailedLoginsRaiseAlert(t *testing.T) {
	setupTestDB(t)
	e := echo.New()

	for i := 0; i < 5; i++ {
		body := `{"emailOrPhoneNumber": "nobody@example.com", "password": "whatever1"}`
		c, rec := newContext(e, http.MethodPost, "/", body, nil)
		c.Request().RemoteAddr = "203.0.113.9:4000"
		require.NoError(t, LoginHandler(c))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	alerts := services.Monitor.GetRecentAlerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "203.0.113.9", alerts[0].IP)
}

func TestCreateStaffHandlerRequiresAdmin(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()
	staff := createTestUser(t, testDB, models.UserTypeStaff)
	admin := createTestUser(t, testDB, models.UserTypeAdmin)

	c, rec := newContext(e, http.MethodPost, "/", registerBody, staff)
	require.NoError(t, CreateStaffHandler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newContext(e, http.MethodPost, "/", registerBody, admin)
	require.NoError(t, CreateStaffHandler(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.User
	require.NoError(t, testDB.Where("email = ?", "asha@example.com").First(&created).Error)
	assert.Equal(t, models.UserTypeStaff, created.UserType)
	assert.True(t, created.IsVerified)
}
