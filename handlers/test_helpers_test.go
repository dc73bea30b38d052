package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"solve_litigation_go/config"
	"solve_litigation_go/db"
	"solve_litigation_go/middleware"
	"solve_litigation_go/models"
	"solve_litigation_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "handlers-test-secret-with-32-chars!"

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:     testSecret,
		TokenTTL:      time.Hour,
		EmailTestMode: true,
		AppURL:        "http://app.test/",
	}
}

// setupTestDB points the package globals at a fresh in-memory database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, testDB.AutoMigrate(models.AllModels()...))

	db.DB = testDB
	services.Storage = services.NewLocalStorage(t.TempDir())
	services.Stats = nil
	services.InitSecurityMonitor()

	t.Cleanup(func() {
		// audit entries are written asynchronously
		time.Sleep(20 * time.Millisecond)
		sqlDB.Close()
	})
	return testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, userType string) *models.User {
	t.Helper()
	suffix := uuid.New().String()[:8]
	user := &models.User{
		FullName:    "Test " + userType + " " + suffix,
		Email:       userType + "-" + suffix + "@example.com",
		PhoneNumber: "9" + suffix,
		Password:    "hashed",
		UserType:    userType,
		IsVerified:  true,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

// newContext builds an echo context carrying the test config and, when user
// is not nil, an authenticated user
func newContext(e *echo.Echo, method, target, body string, user *models.User) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeyConfig, testConfig())
	if user != nil {
		c.Set(middleware.ContextKeyUser, user)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
