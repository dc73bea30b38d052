package services

import (
	"testing"

	"solve_litigation_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAdminEnv(t *testing.T, email, phone string) {
	t.Setenv("ADMIN_EMAIL", email)
	t.Setenv("ADMIN_PASSWORD", "bootstrap2024")
	t.Setenv("ADMIN_PHONE", phone)
	t.Setenv("ADMIN_NAME", "Chief Editor")
}

func TestSeedAdminFromEnv(t *testing.T) {
	t.Run("Creates admin when env vars are set", func(t *testing.T) {
		db := setupRecordTestDB(t)
		setAdminEnv(t, "Editor@Test.com", "9800000001")

		require.NoError(t, SeedAdminFromEnv(db, testConfig()))

		var user models.User
		require.NoError(t, db.Where("email = ?", "editor@test.com").First(&user).Error)
		assert.Equal(t, models.UserTypeAdmin, user.UserType)
		assert.Equal(t, "Chief Editor", user.FullName)
		assert.True(t, user.IsVerified)
		assert.True(t, VerifyPassword(user.Password, "bootstrap2024"))
	})

	t.Run("Skips without env vars", func(t *testing.T) {
		db := setupRecordTestDB(t)
		t.Setenv("ADMIN_EMAIL", "")

		require.NoError(t, SeedAdminFromEnv(db, testConfig()))

		var count int64
		db.Model(&models.User{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("Skips if an admin already exists", func(t *testing.T) {
		db := setupRecordTestDB(t)
		createTestUser(t, db, models.UserTypeAdmin)
		setAdminEnv(t, "second@test.com", "9800000002")

		require.NoError(t, SeedAdminFromEnv(db, testConfig()))

		var count int64
		db.Model(&models.User{}).Where("email = ?", "second@test.com").Count(&count)
		assert.Zero(t, count)
	})

	t.Run("Skips if email is taken by a guest", func(t *testing.T) {
		db := setupRecordTestDB(t)
		_, err := NewAccountService(db, testConfig(), nil).Register(guestInput("taken@test.com", "9800000003"))
		require.NoError(t, err)
		setAdminEnv(t, "taken@test.com", "9800000004")

		require.NoError(t, SeedAdminFromEnv(db, testConfig()))

		var user models.User
		require.NoError(t, db.Where("email = ?", "taken@test.com").First(&user).Error)
		assert.Equal(t, models.UserTypeGuest, user.UserType)
	})

	t.Run("Rejects a weak password", func(t *testing.T) {
		db := setupRecordTestDB(t)
		setAdminEnv(t, "weak@test.com", "9800000005")
		t.Setenv("ADMIN_PASSWORD", "short")

		err := SeedAdminFromEnv(db, testConfig())
		assertDomainCode(t, err, CodeValidation)
	})
}
