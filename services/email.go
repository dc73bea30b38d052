package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"solve_litigation_go/config"
	"solve_litigation_go/logger"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// emailTemplates holds the HTML bodies of account emails. Text bodies are built alongside.
var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "verify"}}<html><body>
<p>Hello {{.UserName}},</p>
<p>Please verify your Solve Litigation account by opening the link below. It expires in {{.ExpiresIn}}.</p>
<p><a href="{{.Link}}">Verify email</a></p>
</body></html>{{end}}
{{define "reset"}}<html><body>
<p>Hello {{.UserName}},</p>
<p>A password reset was requested for your account. Open the link below to choose a new password. It expires in {{.ExpiresIn}}.</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>If you did not request this, you can ignore this email.</p>
</body></html>{{end}}
{{define "lawyer"}}<html><body>
<p>Hello {{.UserName}},</p>
<p>An administrator registered you as a lawyer on Solve Litigation. Verify your email to activate the account:</p>
<p><a href="{{.Link}}">Verify email</a></p>
</body></html>{{end}}
`))

// AccountEmailData is the data passed to account email templates
type AccountEmailData struct {
	UserName  string
	Link      string
	ExpiresIn string
}

func renderEmail(name string, data AccountEmailData) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute email template %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func buildAccountEmail(templateName, toEmail, subject, text string, data AccountEmailData) *Email {
	html, err := renderEmail(templateName, data)
	if err != nil {
		logger.Log.Error("Email template failed, sending text only", "template", templateName, "error", err)
	}
	return &Email{
		To:       []string{toEmail},
		Subject:  subject,
		HTMLBody: html,
		TextBody: text,
	}
}

// BuildVerificationEmail creates the email sent after registration
func BuildVerificationEmail(userEmail, userName, link string) *Email {
	data := AccountEmailData{UserName: userName, Link: link, ExpiresIn: EmailTokenTTL.String()}
	text := fmt.Sprintf("Hello %s,\n\nVerify your Solve Litigation account: %s\nThe link expires in %s.\n", userName, link, data.ExpiresIn)
	return buildAccountEmail("verify", userEmail, "Verify your email", text, data)
}

// BuildLawyerInvitationEmail creates the email sent to a lawyer registered by an admin
func BuildLawyerInvitationEmail(userEmail, userName, link string) *Email {
	data := AccountEmailData{UserName: userName, Link: link, ExpiresIn: EmailTokenTTL.String()}
	text := fmt.Sprintf("Hello %s,\n\nYou were registered as a lawyer on Solve Litigation. Verify your email: %s\n", userName, link)
	return buildAccountEmail("lawyer", userEmail, "Your Solve Litigation lawyer account", text, data)
}

// BuildPasswordResetEmail creates a password reset email
func BuildPasswordResetEmail(userEmail, userName, link string) *Email {
	data := AccountEmailData{UserName: userName, Link: link, ExpiresIn: EmailTokenTTL.String()}
	text := fmt.Sprintf("Hello %s,\n\nReset your password: %s\nThe link expires in %s. Ignore this email if you did not request it.\n", userName, link, data.ExpiresIn)
	return buildAccountEmail("reset", userEmail, "Reset your password", text, data)
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		emailsSentTotal.WithLabelValues("logged").Inc()
		return nil
	}

	if cfg.ResendAPIKey == "" {
		emailsSentTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}
	if params.Html == "" && params.Text == "" {
		emailsSentTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	sent, err := client.Emails.Send(params)
	if err != nil {
		emailsSentTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	emailsSentTotal.WithLabelValues("sent").Inc()
	logger.Log.Info("Email sent via Resend", "id", sent.Id, "to", email.To)
	return nil
}

// logEmailToConsole logs email details in development mode
func logEmailToConsole(email *Email) {
	logger.Log.Info("Email logged (test mode, not sent)",
		"to", email.To,
		"subject", email.Subject,
		"text", email.TextBody,
		"html", truncate(email.HTMLBody, 500),
	)
}

// truncate truncates a string to a maximum number of characters
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}

// SendEmailAsync sends an email in a goroutine so handlers do not block on delivery
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			logger.Log.Error("Error sending async email", "to", email.To, "error", err)
		}
	}(cfg, emailCopy)
}
