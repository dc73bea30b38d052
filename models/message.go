package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a chat message between a client and a lawyer
type Message struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_message_pair_created" json:"createdAt"`

	FromID string `gorm:"type:uuid;not null;index:idx_message_pair_created" json:"from"`
	ToID   string `gorm:"type:uuid;not null;index:idx_message_pair_created;index" json:"to"`
	Text   string `gorm:"type:text" json:"text"`

	// Attachment storage key, empty for plain text messages
	Attachment     string `json:"attachment,omitempty"`
	AttachmentName string `json:"attachmentName,omitempty"`

	From *User `gorm:"foreignKey:FromID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// HasAttachment reports whether the message carries a file
func (m *Message) HasAttachment() bool {
	return m.Attachment != ""
}

// TableName specifies the table name for Message model
func (Message) TableName() string {
	return "messages"
}
