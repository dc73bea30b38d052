package services

import (
	"testing"
	"time"

	"solve_litigation_go/config"
	"solve_litigation_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:     testSecret,
		TokenTTL:      time.Hour,
		EmailTestMode: true,
		AppURL:        "http://app.test/",
	}
}

func guestInput(email, phone string) RegisterInput {
	return RegisterInput{
		FullName:         "Asha Verma",
		Email:            email,
		PhoneNumber:      phone,
		Password:         "advocate2024",
		RegistrationType: "student",
		State:            "Delhi",
		District:         "South",
	}
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	de, ok := AsDomainError(err)
	require.True(t, ok, "expected domain error, got %v", err)
	assert.Equal(t, code, de.Code)
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewAccountService(db, testConfig(), nil)

	user, err := svc.Register(guestInput(" Asha@Example.com ", "9876543210"))
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, models.UserTypeGuest, user.UserType)
	assert.NotEqual(t, "advocate2024", user.Password)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(guestInput("asha@example.com", "9000000000"))
		assertDomainCode(t, err, CodeConflict)
		assert.Contains(t, err.Error(), "Email is already registered")
	})

	t.Run("duplicate phone", func(t *testing.T) {
		_, err := svc.Register(guestInput("other@example.com", "9876543210"))
		assertDomainCode(t, err, CodeConflict)
		assert.Contains(t, err.Error(), "Mobile number is already registered")
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := svc.Register(RegisterInput{Email: "not-an-email"})
		assertDomainCode(t, err, CodeValidation)

		weak := guestInput("weak@example.com", "9111111111")
		weak.Password = "short"
		_, err = svc.Register(weak)
		assertDomainCode(t, err, CodeValidation)
	})

	t.Run("login by email", func(t *testing.T) {
		result, err := svc.Login("ASHA@example.com", "advocate2024")
		require.NoError(t, err)
		assert.Equal(t, 3600, result.ExpiresIn)
		assert.Equal(t, "Login successful", result.Message)
		assert.Equal(t, user.ID, result.User.ID)

		claims, err := ParseToken(testSecret, result.Token, TokenPurposeAccess)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.Subject)
	})

	t.Run("login by phone", func(t *testing.T) {
		_, err := svc.Login("9876543210", "advocate2024")
		assert.NoError(t, err)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		_, err := svc.Login("asha@example.com", "wrong-password1")
		assertDomainCode(t, err, CodeUnauthenticated)
		assert.Contains(t, err.Error(), "Invalid credentials")

		_, err = svc.Login("nobody@example.com", "advocate2024")
		assertDomainCode(t, err, CodeUnauthenticated)
	})
}

func TestAccountService_Details(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewAccountService(db, testConfig(), nil)

	user, err := svc.Register(guestInput("asha@example.com", "9876543210"))
	require.NoError(t, err)
	other, err := svc.Register(guestInput("ravi@example.com", "9123456780"))
	require.NoError(t, err)
	admin := createTestUser(t, db, models.UserTypeAdmin)

	details, err := svc.Details(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", details.FullName)
	assert.Equal(t, "student", details.RegistrationType)
	assert.Equal(t, models.UserTypeGuest, details.UserType)

	_, err = svc.Details("missing")
	assertDomainCode(t, err, CodeNotFound)

	t.Run("update own email", func(t *testing.T) {
		require.NoError(t, svc.UpdateDetails(user.ID, DetailEmail, "Asha.New@example.com", user))
		updated, err := GetUserByID(db, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "asha.new@example.com", updated.Email)
	})

	t.Run("email taken", func(t *testing.T) {
		err := svc.UpdateDetails(user.ID, DetailEmail, "ravi@example.com", user)
		assertDomainCode(t, err, CodeConflict)
	})

	t.Run("admin updates phone", func(t *testing.T) {
		require.NoError(t, svc.UpdateDetails(other.ID, DetailPhoneNumber, "9000011111", admin))
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		err := svc.UpdateDetails(other.ID, DetailPhoneNumber, "9000022222", user)
		assertDomainCode(t, err, CodeForbidden)
	})

	t.Run("invalid title", func(t *testing.T) {
		err := svc.UpdateDetails(user.ID, "password", "x", user)
		assertDomainCode(t, err, CodeValidation)
		assert.Contains(t, err.Error(), "Invalid title")
	})
}

func TestAccountService_CreateStaff(t *testing.T) {
	db := setupRecordTestDB(t)
	stats := NewStatisticsService(db)
	svc := NewAccountService(db, testConfig(), stats)
	admin := createTestUser(t, db, models.UserTypeAdmin)

	before, err := stats.Get(admin)
	require.NoError(t, err)

	staff, err := svc.CreateStaff(guestInput("clerk@example.com", "9222222222"), admin)
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeStaff, staff.UserType)
	assert.True(t, staff.IsVerified)

	after, err := stats.Get(admin)
	require.NoError(t, err)
	assert.Equal(t, before.NoOfStaffUser+1, after.NoOfStaffUser)

	_, err = svc.CreateStaff(guestInput("clerk2@example.com", "9333333333"), staff)
	assertDomainCode(t, err, CodeForbidden)
}

func TestAccountService_Lawyers(t *testing.T) {
	db := setupRecordTestDB(t)
	cfg := testConfig()
	svc := NewAccountService(db, cfg, nil)
	admin := createTestUser(t, db, models.UserTypeAdmin)

	stale, err := svc.Register(guestInput("lawyer@example.com", "9444444444"))
	require.NoError(t, err)

	input := LawyerInput{
		RegisterInput: guestInput("lawyer@example.com", "9444444444"),
		Specialist:    "Criminal",
		Bio:           "Twenty years at the bar",
	}
	t.Run("non admin", func(t *testing.T) {
		guest := createTestUser(t, db, models.UserTypeGuest)
		_, err := svc.CreateLawyer(input, guest)
		assertDomainCode(t, err, CodeForbidden)
	})

	lawyer, err := svc.CreateLawyer(input, admin)
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeLawyer, lawyer.UserType)
	assert.False(t, lawyer.IsVerified)
	assert.NotEmpty(t, lawyer.VerificationToken)

	// the unverified account with the same contact details was replaced
	_, err = GetUserByID(db, stale.ID)
	assertDomainCode(t, err, CodeNotFound)

	t.Run("verified duplicate conflicts", func(t *testing.T) {
		require.NoError(t, VerifyEmail(db, cfg, lawyer.VerificationToken))
		_, err := svc.CreateLawyer(input, admin)
		assertDomainCode(t, err, CodeConflict)
	})

	lawyers, err := svc.Lawyers()
	require.NoError(t, err)
	require.Len(t, lawyers, 1)

	profile, err := svc.Lawyer(lawyer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Criminal", profile.Specialist)
	assert.Equal(t, "Twenty years at the bar", profile.Bio)

	_, err = svc.Lawyer(admin.ID)
	assertDomainCode(t, err, CodeNotFound)
}
