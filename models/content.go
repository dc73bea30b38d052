package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog kinds used to classify legal records
const (
	CatalogKindPointOfLaw   = "point_of_law"
	CatalogKindLaw          = "law"
	CatalogKindCourt        = "court"
	CatalogKindApellateType = "apellate_type"
)

// CatalogEntry is a named entry of one of the content catalogs
type CatalogEntry struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Kind string `gorm:"not null;uniqueIndex:idx_catalog_kind_name" json:"kind"`
	Name string `gorm:"not null;uniqueIndex:idx_catalog_kind_name" json:"name"`
}

// BeforeCreate hook to generate UUID
func (e *CatalogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CatalogEntry model
func (CatalogEntry) TableName() string {
	return "catalog_entries"
}

// IsValidCatalogKind checks if the catalog kind is valid
func IsValidCatalogKind(kind string) bool {
	switch kind {
	case CatalogKindPointOfLaw, CatalogKindLaw, CatalogKindCourt, CatalogKindApellateType:
		return true
	}
	return false
}

// ContactForm is a message submitted through the public contact form
type ContactForm struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	Name        string `gorm:"not null" json:"name"`
	Email       string `gorm:"not null" json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Message     string `gorm:"type:text;not null" json:"message"`
}

// BeforeCreate hook to generate UUID
func (f *ContactForm) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ContactForm model
func (ContactForm) TableName() string {
	return "contact_forms"
}

// AllModels lists every model migrated at startup
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&LegalRecord{},
		&CitationSequence{},
		&AuditLog{},
		&LegalAdviceRequest{},
		&Topic{},
		&Question{},
		&LiquidText{},
		&Message{},
		&Notification{},
		&CatalogEntry{},
		&ContactForm{},
	}
}
