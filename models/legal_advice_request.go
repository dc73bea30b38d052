package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LegalAdviceRequest is a user's request for advice, optionally with a PDF attachment
type LegalAdviceRequest struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CaseDetails string `gorm:"type:text;not null" json:"caseDetails"`

	// Attachment lives in storage; only the key is kept here
	IsAttachment          bool   `gorm:"not null;default:false" json:"isAttachment"`
	AttachmentKey         string `json:"-"`
	AttachmentName        string `json:"attachmentName,omitempty"`
	AttachmentContentType string `json:"attachmentContentType,omitempty"`

	Feedback   string `gorm:"type:text" json:"feedback,omitempty"`
	IsFeedback bool   `gorm:"not null;default:false" json:"isFeedback"`

	UserID string `gorm:"type:uuid;not null;index" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *LegalAdviceRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for LegalAdviceRequest model
func (LegalAdviceRequest) TableName() string {
	return "legal_advice_requests"
}
