package services

import (
	"errors"
	"fmt"
	"strings"

	"solve_litigation_go/models"

	"gorm.io/gorm"
)

// NotificationInput is the payload for announcing a citation
type NotificationInput struct {
	Title      string `json:"title" validate:"notblank"`
	Link       string `json:"link" validate:"notblank"`
	CitationID string `json:"citationId" validate:"notblank"`
}

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// CreateNotification announces a record. Admins only; one notification per citation.
func (s *NotificationService) CreateNotification(input NotificationInput, actor *models.User) (*models.Notification, error) {
	if LevelOf(actor) < LevelAdmin {
		return nil, accessError(actor)
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Link = strings.TrimSpace(input.Link)
	input.CitationID = strings.TrimSpace(input.CitationID)
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}

	var records int64
	if err := s.DB.Model(&models.LegalRecord{}).Where("id = ?", input.CitationID).Count(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to check citation: %w", err)
	}
	if records == 0 {
		return nil, NewNotFoundError("Citation")
	}

	var existing int64
	if err := s.DB.Model(&models.Notification{}).Where("citation_id = ?", input.CitationID).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check notification: %w", err)
	}
	if existing > 0 {
		return nil, NewConflictError("Notification for this citation already exists.")
	}

	notification := &models.Notification{
		Title:      input.Title,
		Link:       input.Link,
		CitationID: input.CitationID,
	}
	if err := s.DB.Create(notification).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, NewConflictError("Notification for this citation already exists.")
		}
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	LogAuditEvent(s.DB, AuditContextFor(actor), models.AuditActionCreate, "notification", notification.ID, notification.Title, "Added notification", nil, nil)
	return notification, nil
}

// GetNotifications lists every notification, newest first
func (s *NotificationService) GetNotifications() ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// DeleteNotification removes a notification. Admins only.
func (s *NotificationService) DeleteNotification(id string, actor *models.User) error {
	if LevelOf(actor) < LevelAdmin {
		return accessError(actor)
	}

	var notification models.Notification
	if err := s.DB.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Notification")
		}
		return fmt.Errorf("failed to fetch notification: %w", err)
	}
	if err := s.DB.Delete(&notification).Error; err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	LogAuditEvent(s.DB, AuditContextFor(actor), models.AuditActionDelete, "notification", notification.ID, notification.Title, "Deleted notification", nil, nil)
	return nil
}
