package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// EmailTokenTTL is the lifetime of verification and password reset tokens
	EmailTokenTTL = 2 * time.Hour
)

// Token purposes. A token issued for one purpose is rejected for any other.
const (
	TokenPurposeAccess = "access"
	TokenPurposeVerify = "verify-email"
	TokenPurposeReset  = "reset-password"
)

// AccessClaims are the claims carried by access tokens
type AccessClaims struct {
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// GenerateAccessToken signs an HS256 token for the user id
func GenerateAccessToken(secret, userID, email string, ttl time.Duration) (string, error) {
	return signToken(secret, AccessClaims{
		Email:   email,
		Purpose: TokenPurposeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

// GenerateEmailToken signs a token bound to an email address for verification or reset links
func GenerateEmailToken(secret, email, purpose string) (string, error) {
	return signToken(secret, AccessClaims{
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(EmailTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

func signToken(secret string, claims AccessClaims) (string, error) {
	if secret == "" {
		return "", errors.New("token secret is not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates signature, expiry and purpose and returns the claims
func ParseToken(secret, tokenString, purpose string) (*AccessClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token is empty")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("token issued for %q, not %q", claims.Purpose, purpose)
	}
	return claims, nil
}
