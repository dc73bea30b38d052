package services

import (
	"fmt"
	"os"

	"solve_litigation_go/config"
	"solve_litigation_go/logger"
	"solve_litigation_go/models"

	"gorm.io/gorm"
)

// SeedAdminFromEnv creates the first admin account from environment variables.
// Only runs if ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_PHONE are set
// and no admin account exists yet.
func SeedAdminFromEnv(db *gorm.DB, cfg *config.Config) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	phone := os.Getenv("ADMIN_PHONE")
	name := os.Getenv("ADMIN_NAME")

	// Skip if env vars not set
	if email == "" || password == "" || phone == "" {
		return nil
	}
	if name == "" {
		name = "Administrator"
	}

	var count int64
	if err := db.Model(&models.User{}).Where("user_type = ?", models.UserTypeAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		logger.Log.Info("Admin account already exists, skipping seed")
		return nil
	}

	user, err := NewAccountService(db, cfg, nil).ProvisionAccount(RegisterInput{
		FullName:    name,
		Email:       email,
		PhoneNumber: phone,
		Password:    password,
	}, models.UserTypeAdmin)
	if err != nil {
		if de, ok := AsDomainError(err); ok && de.Code == CodeConflict {
			logger.Log.Warn("Admin seed skipped, email or phone already registered")
			return nil
		}
		return err
	}

	logger.Log.Info("Seeded admin account", "user_id", user.ID)
	return nil
}
