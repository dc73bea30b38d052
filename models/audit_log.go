package models

import (
	"encoding/json"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction represents the type of operation performed
type AuditAction string

const (
	AuditActionCreate  AuditAction = "CREATE"
	AuditActionUpdate  AuditAction = "UPDATE"
	AuditActionApprove AuditAction = "APPROVE"
	AuditActionDelete  AuditAction = "DELETE"
	AuditActionLogin   AuditAction = "LOGIN"
)

// AuditLog represents an immutable record of a data operation
type AuditLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_audit_created_at" json:"createdAt"`

	// Actor identification (denormalized for historical accuracy)
	UserID   *string `gorm:"type:uuid;index:idx_audit_user" json:"userId,omitempty"`
	UserName string  `gorm:"not null" json:"userName"`
	UserRole string  `gorm:"not null" json:"userRole"`

	// Target resource
	ResourceType string `gorm:"not null;index:idx_audit_resource" json:"resourceType"` // e.g., "citation", "act"
	ResourceID   string `gorm:"not null;index:idx_audit_resource" json:"resourceId"`
	ResourceName string `json:"resourceName,omitempty"` // citation number

	Action      AuditAction `gorm:"not null;index:idx_audit_action" json:"action"`
	Description string      `gorm:"type:text" json:"description,omitempty"`

	// Change tracking (for UPDATE operations), JSON encoded
	OldValues string `gorm:"type:text" json:"oldValues,omitempty"`
	NewValues string `gorm:"type:text" json:"newValues,omitempty"`
}

// AuditChange represents a single field change
type AuditChange struct {
	Field string      `json:"field"`
	Old   interface{} `json:"old"`
	New   interface{} `json:"new"`
}

// Changes parses OldValues and NewValues into a sorted slice of differing fields
func (a *AuditLog) Changes() []AuditChange {
	oldMap := make(map[string]interface{})
	newMap := make(map[string]interface{})
	if a.OldValues != "" {
		_ = json.Unmarshal([]byte(a.OldValues), &oldMap)
	}
	if a.NewValues != "" {
		_ = json.Unmarshal([]byte(a.NewValues), &newMap)
	}

	keys := make(map[string]struct{})
	for k := range oldMap {
		keys[k] = struct{}{}
	}
	for k := range newMap {
		keys[k] = struct{}{}
	}

	var changes []AuditChange
	for k := range keys {
		o, n := oldMap[k], newMap[k]
		if !reflect.DeepEqual(o, n) {
			changes = append(changes, AuditChange{Field: k, Old: o, New: n})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Field < changes[j].Field })
	return changes
}

// BeforeCreate generates UUID
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of audit logs
func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound
}

// BeforeDelete prevents deletion of audit logs
func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
