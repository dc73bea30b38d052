package services

import (
	"errors"
	"fmt"
	"strings"

	"solve_litigation_go/config"
	"solve_litigation_go/logger"
	"solve_litigation_go/models"

	"gorm.io/gorm"
)

// findUserForToken resolves the account an email link was issued to.
// Every failure reads as "Invalid token" so links do not reveal which accounts exist.
func findUserForToken(db *gorm.DB, cfg *config.Config, token, purpose string) (*models.User, error) {
	claims, err := ParseToken(cfg.SecretKey, token, purpose)
	if err != nil {
		return nil, NewValidationError("Invalid token")
	}

	var user models.User
	if err := db.Where("email = ?", claims.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("Invalid token")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

// VerifyEmail marks the account behind a verification link as verified.
// A link is single use: the stored token is cleared on success.
func VerifyEmail(db *gorm.DB, cfg *config.Config, token string) error {
	user, err := findUserForToken(db, cfg, token, TokenPurposeVerify)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return NewValidationError("Email already verified")
	}
	if user.VerificationToken == "" || user.VerificationToken != token {
		return NewValidationError("Invalid token")
	}

	err = db.Model(user).Updates(map[string]interface{}{
		"is_verified":        true,
		"verification_token": "",
	}).Error
	if err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}

	LogSecurityEvent(db, "EMAIL_VERIFIED", user.ID, "Email verified")
	return nil
}

// RequestPasswordReset stores a reset token for the account and emails the link.
// Unknown emails succeed silently.
func RequestPasswordReset(db *gorm.DB, cfg *config.Config, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return NewValidationError("Invalid email")
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Info("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := GenerateEmailToken(cfg.SecretKey, user.Email, TokenPurposeReset)
	if err != nil {
		return err
	}
	if err := db.Model(&user).Update("reset_password_token", token).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := strings.TrimSuffix(cfg.AppURL, "/") + "/reset-password/" + token
	SendEmailAsync(cfg, BuildPasswordResetEmail(user.Email, user.FullName, link))
	LogSecurityEvent(db, "PASSWORD_RESET_REQUESTED", user.ID, "Password reset requested")
	return nil
}

// ResetPassword consumes a reset token. With a new password the account password
// is replaced; without one the token is only verified and cleared.
// Returns whether the password changed.
func ResetPassword(db *gorm.DB, cfg *config.Config, token, newPassword string) (bool, error) {
	if newPassword != "" {
		if err := ValidatePassword(newPassword); err != nil {
			return false, err
		}
	}

	user, err := findUserForToken(db, cfg, token, TokenPurposeReset)
	if err != nil {
		return false, err
	}
	if user.ResetPasswordToken == "" || user.ResetPasswordToken != token {
		LogSecurityEvent(db, "PASSWORD_RESET_FAILED", user.ID, "Stale or reused reset token")
		return false, NewValidationError("Invalid token")
	}

	updates := map[string]interface{}{"reset_password_token": ""}
	if newPassword != "" {
		hashed, err := HashPassword(newPassword)
		if err != nil {
			return false, err
		}
		updates["password"] = hashed
	}
	if err := db.Model(user).Updates(updates).Error; err != nil {
		return false, fmt.Errorf("failed to reset password: %w", err)
	}

	if newPassword != "" {
		LogSecurityEvent(db, "PASSWORD_RESET_COMPLETED", user.ID, "Password successfully reset")
	}
	return newPassword != "", nil
}
