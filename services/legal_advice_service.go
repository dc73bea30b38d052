package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"solve_litigation_go/logger"
	"solve_litigation_go/models"

	"gorm.io/gorm"
)

// caseDetailsPreviewLength is how much of the case details the admin list shows
const caseDetailsPreviewLength = 20

// AdviceRequestSummary is the admin list projection of a legal advice request
type AdviceRequestSummary struct {
	ID           string    `json:"id"`
	CaseDetails  string    `json:"caseDetails"`
	IsAttachment bool      `json:"isAttachment"`
	IsFeedback   bool      `json:"isFeedback"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LegalAdviceService manages advice requests and their attachments
type LegalAdviceService struct {
	db      *gorm.DB
	storage StorageProvider
}

// NewLegalAdviceService creates a legal advice service
func NewLegalAdviceService(db *gorm.DB, storage StorageProvider) *LegalAdviceService {
	return &LegalAdviceService{db: db, storage: storage}
}

// Create files a request for the actor. The attachment is optional and must be a PDF.
func (s *LegalAdviceService) Create(ctx context.Context, caseDetails string, file *multipart.FileHeader, actor *models.User) (*models.LegalAdviceRequest, error) {
	if actor == nil {
		return nil, accessError(actor)
	}
	caseDetails = strings.TrimSpace(caseDetails)
	if caseDetails == "" {
		return nil, NewValidationError("Case details are required")
	}

	request := &models.LegalAdviceRequest{
		CaseDetails: caseDetails,
		UserID:      actor.ID,
	}

	if file != nil {
		if err := ValidatePDFUpload(file); err != nil {
			return nil, err
		}
		result, err := s.storage.Upload(ctx, file, GenerateAdviceAttachmentKey(actor.ID, file.Filename))
		if err != nil {
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		request.IsAttachment = true
		request.AttachmentKey = result.Key
		request.AttachmentName = file.Filename
		request.AttachmentContentType = result.MimeType
	}

	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		if request.IsAttachment {
			s.removeAttachment(request.AttachmentKey)
		}
		return nil, fmt.Errorf("failed to save legal advice request: %w", err)
	}

	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionCreate, "legal_advice_request", request.ID, Preview(caseDetails, caseDetailsPreviewLength), "Submitted legal advice request", nil, nil)
	return request, nil
}

// List returns every request, newest first, with case details cut short. Admins only.
func (s *LegalAdviceService) List(actor *models.User) ([]AdviceRequestSummary, error) {
	if LevelOf(actor) < LevelAdmin {
		return nil, accessError(actor)
	}

	var requests []models.LegalAdviceRequest
	if err := s.db.Preload("User").Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list legal advice requests: %w", err)
	}

	summaries := make([]AdviceRequestSummary, 0, len(requests))
	for _, r := range requests {
		summary := AdviceRequestSummary{
			ID:           r.ID,
			CaseDetails:  Preview(r.CaseDetails, caseDetailsPreviewLength),
			IsAttachment: r.IsAttachment,
			IsFeedback:   r.IsFeedback,
			UserID:       r.UserID,
			CreatedAt:    r.CreatedAt,
		}
		if r.User != nil {
			summary.UserName = r.User.FullName
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Get returns one request with its author. Owners and admins only.
func (s *LegalAdviceService) Get(id string, actor *models.User) (*models.LegalAdviceRequest, error) {
	if actor == nil {
		return nil, accessError(actor)
	}
	request, err := s.find(s.db.Preload("User"), id)
	if err != nil {
		return nil, err
	}
	if request.UserID != actor.ID && LevelOf(actor) < LevelAdmin {
		return nil, NewForbiddenError()
	}
	return request, nil
}

// CaseDetails returns the full case details of one request
func (s *LegalAdviceService) CaseDetails(id string, actor *models.User) (string, error) {
	request, err := s.Get(id, actor)
	if err != nil {
		return "", err
	}
	return request.CaseDetails, nil
}

// Attachment opens the stored PDF of a request. The caller closes the reader.
func (s *LegalAdviceService) Attachment(ctx context.Context, id string, actor *models.User) (io.ReadCloser, *models.LegalAdviceRequest, error) {
	request, err := s.Get(id, actor)
	if err != nil {
		return nil, nil, err
	}
	if !request.IsAttachment || request.AttachmentKey == "" {
		return nil, nil, NewNotFoundError("Attachment")
	}

	reader, _, err := s.storage.Get(ctx, request.AttachmentKey)
	if err != nil {
		logger.Log.Error("Failed to open legal advice attachment", "request_id", id, "error", err)
		return nil, nil, NewNotFoundError("Attachment")
	}
	return reader, request, nil
}

// MyRequests lists the actor's own requests, newest first
func (s *LegalAdviceService) MyRequests(actor *models.User) ([]models.LegalAdviceRequest, error) {
	if actor == nil {
		return nil, accessError(actor)
	}

	var requests []models.LegalAdviceRequest
	if err := s.db.Where("user_id = ?", actor.ID).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list legal advice requests: %w", err)
	}
	if len(requests) == 0 {
		return nil, domainError(http.StatusNotFound, CodeNotFound, "No previous requests found for this user!")
	}
	return requests, nil
}

// GiveFeedback stores the admin's answer on a request
func (s *LegalAdviceService) GiveFeedback(id, feedback string, actor *models.User) error {
	if LevelOf(actor) < LevelAdmin {
		return accessError(actor)
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return NewValidationError("Feedback is required")
	}

	request, err := s.find(s.db, id)
	if err != nil {
		return err
	}
	if err := s.db.Model(request).Updates(map[string]interface{}{
		"feedback":    feedback,
		"is_feedback": true,
	}).Error; err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}

	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionUpdate, "legal_advice_request", request.ID, Preview(request.CaseDetails, caseDetailsPreviewLength), "Gave feedback", nil, nil)
	return nil
}

// Delete removes a request and its stored attachment. Admins only.
func (s *LegalAdviceService) Delete(ctx context.Context, id string, actor *models.User) error {
	if LevelOf(actor) < LevelAdmin {
		return accessError(actor)
	}
	request, err := s.find(s.db, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(request).Error; err != nil {
		return fmt.Errorf("failed to delete legal advice request: %w", err)
	}
	if request.AttachmentKey != "" {
		s.removeAttachment(request.AttachmentKey)
	}

	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionDelete, "legal_advice_request", request.ID, Preview(request.CaseDetails, caseDetailsPreviewLength), "Deleted legal advice request", nil, nil)
	return nil
}

func (s *LegalAdviceService) find(scope *gorm.DB, id string) (*models.LegalAdviceRequest, error) {
	var request models.LegalAdviceRequest
	if err := scope.First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Request")
		}
		return nil, fmt.Errorf("failed to fetch legal advice request: %w", err)
	}
	return &request, nil
}

// removeAttachment deletes a stored file; failures are logged, not returned
func (s *LegalAdviceService) removeAttachment(key string) {
	if err := s.storage.Delete(context.Background(), key); err != nil {
		logger.Log.Warn("Failed to delete legal advice attachment", "key", key, "error", err)
	}
}
