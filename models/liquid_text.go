package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LiquidText is an uploaded document together with the text excerpts
// annotated on it
type LiquidText struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title         string `gorm:"not null" json:"title"`
	ClientName    string `json:"clientName,omitempty"`
	ClientAddress string `json:"clientAddress,omitempty"`

	CreatedByUserID   string `gorm:"type:uuid;index" json:"createdByUserId"`
	CreatedByUserName string `json:"createdByUserName"`

	FileKey          string `gorm:"not null" json:"-"`
	FileName         string `json:"fileName"`
	FileOriginalName string `json:"originalName"`
	FileContentType  string `json:"contentType"`
	FileSize         int64  `json:"fileSize"`

	Texts datatypes.JSONSlice[string] `json:"liquidText"`
}

// BeforeCreate hook to generate UUID
func (l *LiquidText) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for LiquidText model
func (LiquidText) TableName() string {
	return "liquid_texts"
}
