package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is a site-wide announcement pointing at a citation
type Notification struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Title      string `gorm:"not null" json:"title"`
	Link       string `gorm:"not null" json:"link"`
	CitationID string `gorm:"not null;uniqueIndex" json:"citationId"`
}

// BeforeCreate hook to generate UUID
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Notification model
func (Notification) TableName() string {
	return "notifications"
}
