package services

import (
	"fmt"
	"unicode"
)

// Password requirements
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores anything longer
)

// ValidatePassword checks a new password:
// - 8 to 72 bytes
// - at least one letter
// - at least one number
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError(fmt.Sprintf("Password must be at most %d bytes long", MaxPasswordLength))
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter {
		return NewValidationError("Password must contain at least one letter")
	}
	if !hasNumber {
		return NewValidationError("Password must contain at least one number")
	}
	return nil
}
