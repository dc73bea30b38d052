package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Topic groups study-material questions
type Topic struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Topic     string     `gorm:"not null;uniqueIndex" json:"topic"`
	Questions []Question `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

// Question is a question-answer pair under a topic
type Question struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	TopicID  string `gorm:"type:uuid;not null;index" json:"topicId"`
	Question string `gorm:"type:text;not null" json:"question"`
	Answer   string `gorm:"type:text;not null" json:"answer"`
}

// BeforeCreate hook to generate UUID
func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// BeforeCreate hook to generate UUID
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Topic model
func (Topic) TableName() string {
	return "study_topics"
}

// TableName specifies the table name for Question model
func (Question) TableName() string {
	return "study_questions"
}
