package services

import (
	"context"
	"fmt"
	"strings"

	"solve_litigation_go/logger"
	"solve_litigation_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// contactPolicy strips every tag from contact form fields
var contactPolicy = bluemonday.StrictPolicy()

// ContactInput is a public contact form submission
type ContactInput struct {
	Name           string `json:"name" validate:"notblank,max=120"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phoneNumber" validate:"max=20"`
	Message        string `json:"message" validate:"notblank,max=5000"`
	TurnstileToken string `json:"turnstileToken"`
}

// ContactService stores contact form submissions
type ContactService struct {
	db      *gorm.DB
	captcha *TurnstileVerifier
}

// NewContactService creates a contact service. With an empty secret the
// captcha check is skipped.
func NewContactService(db *gorm.DB, turnstileSecret string) *ContactService {
	return &ContactService{db: db, captcha: NewTurnstileVerifier(turnstileSecret)}
}

// Submit sanitises and stores a submission
func (s *ContactService) Submit(ctx context.Context, input ContactInput, remoteIP string) (*models.ContactForm, error) {
	input.Name = strings.TrimSpace(contactPolicy.Sanitize(input.Name))
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.PhoneNumber = strings.TrimSpace(contactPolicy.Sanitize(input.PhoneNumber))
	input.Message = strings.TrimSpace(contactPolicy.Sanitize(input.Message))
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}

	if err := s.captcha.Verify(ctx, input.TurnstileToken, remoteIP); err != nil {
		logger.Log.Warn("Contact form captcha rejected", "ip", remoteIP, "error", err)
		return nil, NewValidationError("Captcha verification failed")
	}

	form := &models.ContactForm{
		Name:        input.Name,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Message:     input.Message,
	}
	if err := s.db.WithContext(ctx).Create(form).Error; err != nil {
		return nil, fmt.Errorf("failed to save contact form: %w", err)
	}
	return form, nil
}

// List returns every submission, newest first. Admins only.
func (s *ContactService) List(actor *models.User) ([]models.ContactForm, error) {
	if LevelOf(actor) < LevelAdmin {
		return nil, accessError(actor)
	}
	var forms []models.ContactForm
	if err := s.db.Order("created_at DESC").Find(&forms).Error; err != nil {
		return nil, fmt.Errorf("failed to list contact forms: %w", err)
	}
	if forms == nil {
		forms = []models.ContactForm{}
	}
	return forms, nil
}
