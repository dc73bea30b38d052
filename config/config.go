package config

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// MinSecretKeyLength is the minimum required length for the token signing key in production
	MinSecretKeyLength = 32
	// DefaultTokenTTL matches the one hour lifetime of issued access tokens
	DefaultTokenTTL = time.Hour
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	UploadDir   string
	// Access tokens
	SecretKey string
	TokenTTL  time.Duration
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged instead of sent
	// Other
	AllowedOrigins   []string
	AppURL           string
	TursoDatabaseURL string
	TursoAuthToken   string
	ChromePath       string
	// Cloudflare Turnstile captcha on the contact form, disabled when empty
	TurnstileSecret string
	// Cloudflare R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	secretKey := getEnv("SECRET_KEY", "")

	// This will fatal in production if invalid
	ValidateSecretKey(secretKey, environment)

	if secretKey == "" && environment != "production" {
		secretKey = GenerateSecureSecret()
		log.Println("[INFO] Generated temporary token secret for development. Set SECRET_KEY env var for persistence.")
	}

	return &Config{
		ServerPort:        getEnv("PORT", "3000"),
		DBPath:            getEnv("DB_PATH", "db/app.db"),
		Environment:       environment,
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		SecretKey:         secretKey,
		TokenTTL:          getEnvDuration("TOKEN_TTL", DefaultTokenTTL),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "noreply@solvelitigation.com"),
		EmailFromName:     getEnv("EMAIL_FROM_NAME", "Solve Litigation"),
		EmailTestMode:     getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		AppURL:            getEnv("APP_URL", "http://localhost:3000"),
		TursoDatabaseURL:  getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:    getEnv("TURSO_AUTH_TOKEN", ""),
		ChromePath:        getEnv("CHROME_PATH", ""),
		TurnstileSecret:   getEnv("TURNSTILE_SECRET_KEY", ""),
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("[WARNING] Invalid duration for %s: %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// ValidateSecretKey validates the token signing key.
// In production it must be at least 32 bytes and not a known insecure default.
func ValidateSecretKey(secret string, environment string) error {
	insecureDefaults := []string{
		"change-me",
		"secret",
		"secret_key",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				log.Fatal("[CRITICAL] SECRET_KEY is set to an insecure default value. Generate a secure random secret with: openssl rand -base64 32")
			}
			log.Printf("[WARNING] SECRET_KEY is set to an insecure default value. This is acceptable only in development.")
			return nil
		}
	}

	if environment == "production" && len(secret) < MinSecretKeyLength {
		log.Fatalf("[CRITICAL] SECRET_KEY must be at least %d characters in production (current: %d). Generate with: openssl rand -base64 32", MinSecretKeyLength, len(secret))
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
