package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"solve_litigation_go/logger"
	"solve_litigation_go/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LiquidTextInput describes an uploaded document
type LiquidTextInput struct {
	Title         string `json:"title" validate:"notblank,max=200"`
	ClientName    string `json:"clientName" validate:"max=120"`
	ClientAddress string `json:"clientAddress" validate:"max=300"`
}

// LiquidTextSummary is the list projection of a document
type LiquidTextSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// LiquidTextService stores annotated documents
type LiquidTextService struct {
	db      *gorm.DB
	storage StorageProvider
}

// NewLiquidTextService creates a liquid text service
func NewLiquidTextService(db *gorm.DB, storage StorageProvider) *LiquidTextService {
	return &LiquidTextService{db: db, storage: storage}
}

// Upload stores a document file and creates an empty annotation list for it
func (s *LiquidTextService) Upload(ctx context.Context, input LiquidTextInput, file *multipart.FileHeader, actor *models.User) (*models.LiquidText, error) {
	if actor == nil {
		return nil, accessError(actor)
	}
	if file == nil {
		return nil, NewValidationError("File is required")
	}
	input.Title = strings.TrimSpace(input.Title)
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}
	if err := ValidateDocumentUpload(file); err != nil {
		return nil, err
	}

	result, err := s.storage.Upload(ctx, file, GenerateLiquidTextKey(actor.ID, file.Filename))
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	document := &models.LiquidText{
		Title:             input.Title,
		ClientName:        strings.TrimSpace(input.ClientName),
		ClientAddress:     strings.TrimSpace(input.ClientAddress),
		CreatedByUserID:   actor.ID,
		CreatedByUserName: actor.FullName,
		FileKey:           result.Key,
		FileName:          result.FileName,
		FileOriginalName:  file.Filename,
		FileContentType:   result.MimeType,
		FileSize:          result.FileSize,
		Texts:             datatypes.JSONSlice[string]{},
	}
	if err := s.db.WithContext(ctx).Create(document).Error; err != nil {
		if delErr := s.storage.Delete(context.Background(), result.Key); delErr != nil {
			logger.Log.Warn("Failed to remove orphaned document", "key", result.Key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionCreate, "liquid_text", document.ID, document.Title, "Uploaded document", nil, nil)
	return document, nil
}

// AddText appends an annotation. Only the uploader and staff may annotate.
func (s *LiquidTextService) AddText(id, text string, actor *models.User) (*models.LiquidText, error) {
	if actor == nil {
		return nil, accessError(actor)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewValidationError("liquidText is required")
	}

	var document *models.LiquidText
	err := s.db.Transaction(func(tx *gorm.DB) error {
		found, err := s.find(tx, id)
		if err != nil {
			return err
		}
		if found.CreatedByUserID != actor.ID && LevelOf(actor) < LevelStaff {
			return NewForbiddenError()
		}
		found.Texts = append(found.Texts, text)
		if err := tx.Model(found).Update("texts", found.Texts).Error; err != nil {
			return err
		}
		document = found
		return nil
	})
	if err != nil {
		if _, ok := AsDomainError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add text: %w", err)
	}
	return document, nil
}

// Documents lists every document, newest first
func (s *LiquidTextService) Documents(actor *models.User) ([]LiquidTextSummary, error) {
	if actor == nil {
		return nil, accessError(actor)
	}
	var summaries []LiquidTextSummary
	if err := s.db.Model(&models.LiquidText{}).Select("id, title, created_at").Order("created_at DESC").Scan(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if summaries == nil {
		summaries = []LiquidTextSummary{}
	}
	return summaries, nil
}

// Document returns one document with its annotations
func (s *LiquidTextService) Document(id string, actor *models.User) (*models.LiquidText, error) {
	if actor == nil {
		return nil, accessError(actor)
	}
	return s.find(s.db, id)
}

// File opens the stored file of a document. The caller closes the reader.
func (s *LiquidTextService) File(ctx context.Context, id string, actor *models.User) (io.ReadCloser, *models.LiquidText, error) {
	document, err := s.Document(id, actor)
	if err != nil {
		return nil, nil, err
	}
	reader, _, err := s.storage.Get(ctx, document.FileKey)
	if err != nil {
		logger.Log.Error("Failed to open document file", "document_id", id, "error", err)
		return nil, nil, NewNotFoundError("File")
	}
	return reader, document, nil
}

func (s *LiquidTextService) find(scope *gorm.DB, id string) (*models.LiquidText, error) {
	var document models.LiquidText
	if err := scope.First(&document, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Document")
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	return &document, nil
}
