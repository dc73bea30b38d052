package services

import (
	"testing"

	"solve_litigation_go/config"

	"github.com/stretchr/testify/assert"
)

func TestBuildAccountEmails(t *testing.T) {
	t.Run("verification", func(t *testing.T) {
		email := BuildVerificationEmail("asha@example.com", "Asha", "https://app.test/verify/abc")
		assert.Equal(t, []string{"asha@example.com"}, email.To)
		assert.Equal(t, "Verify your email", email.Subject)
		assert.Contains(t, email.HTMLBody, `href="https://app.test/verify/abc"`)
		assert.Contains(t, email.HTMLBody, "Hello Asha")
		assert.Contains(t, email.TextBody, "https://app.test/verify/abc")
	})

	t.Run("password reset", func(t *testing.T) {
		email := BuildPasswordResetEmail("asha@example.com", "Asha", "https://app.test/reset/xyz")
		assert.Equal(t, "Reset your password", email.Subject)
		assert.Contains(t, email.HTMLBody, "https://app.test/reset/xyz")
		assert.Contains(t, email.TextBody, "2h0m0s")
	})

	t.Run("names are escaped in html", func(t *testing.T) {
		email := BuildLawyerInvitationEmail("x@example.com", "<b>Ravi</b>", "https://app.test/verify/1")
		assert.NotContains(t, email.HTMLBody, "<b>Ravi</b>")
		assert.Contains(t, email.HTMLBody, "&lt;b&gt;Ravi&lt;/b&gt;")
	})
}

func TestSendEmail_TestMode(t *testing.T) {
	cfg := &config.Config{
		EmailTestMode: true,
	}
	email := &Email{
		To:       []string{"test@example.com"},
		Subject:  "Test",
		HTMLBody: "Body",
	}

	err := SendEmail(cfg, email)
	assert.NoError(t, err)
}

func TestSendEmail_NoApiKey(t *testing.T) {
	cfg := &config.Config{
		EmailTestMode: false,
		ResendAPIKey:  "",
	}
	email := &Email{
		To:       []string{"test@example.com"},
		Subject:  "Test",
		HTMLBody: "Body",
	}

	err := SendEmail(cfg, email)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "RESEND_API_KEY not configured")
}

func TestSendEmail_NoBody(t *testing.T) {
	cfg := &config.Config{
		EmailTestMode: false,
		ResendAPIKey:  "key",
	}
	email := &Email{
		To:      []string{"test@example.com"},
		Subject: "Test",
	}

	err := SendEmail(cfg, email)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email must have either HTMLBody or TextBody")
}

func TestTruncate(t *testing.T) {
	s := "Hello World"
	assert.Equal(t, "Hello", truncate(s, 5))
	assert.Equal(t, "Hello World", truncate(s, 20))
	assert.Equal(t, "नम", truncate("नमस्ते", 2))
}
