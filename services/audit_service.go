package services

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"solve_litigation_go/logger"
	"solve_litigation_go/models"

	"gorm.io/gorm"
)

// AuditContext identifies the actor behind an audited operation
type AuditContext struct {
	UserID   string
	UserName string
	UserRole string
}

// AuditContextFor builds an AuditContext from the acting user
func AuditContextFor(u *models.User) AuditContext {
	if u == nil {
		return AuditContext{UserName: "anonymous", UserRole: "anonymous"}
	}
	return AuditContext{UserID: u.ID, UserName: u.FullName, UserRole: u.UserType}
}

// LogAuditEvent creates a new audit log entry asynchronously
func LogAuditEvent(
	db *gorm.DB,
	ctx AuditContext,
	action models.AuditAction,
	resourceType string,
	resourceID string,
	resourceName string,
	description string,
	oldValues interface{},
	newValues interface{},
) {
	auditLog := buildAuditLog(ctx, action, resourceType, resourceID, resourceName, description, oldValues, newValues)

	// Run in goroutine to avoid blocking the request
	go func() {
		if err := db.Create(&auditLog).Error; err != nil {
			logger.Log.Error("Failed to create audit log", "resource", resourceType, "resource_id", resourceID, "error", err)
		}
	}()
}

func buildAuditLog(
	ctx AuditContext,
	action models.AuditAction,
	resourceType, resourceID, resourceName, description string,
	oldValues, newValues interface{},
) models.AuditLog {
	var oldJSON, newJSON string
	if oldValues != nil {
		if bytes, err := json.Marshal(oldValues); err == nil {
			oldJSON = string(bytes)
		}
	}
	if newValues != nil {
		if bytes, err := json.Marshal(newValues); err == nil {
			newJSON = string(bytes)
		}
	}

	userName := ctx.UserName
	if userName == "" {
		userName = "system"
	}
	userRole := ctx.UserRole
	if userRole == "" {
		userRole = "system"
	}

	return models.AuditLog{
		CreatedAt:    time.Now(),
		UserID:       ptrIfNotEmpty(ctx.UserID),
		UserName:     userName,
		UserRole:     userRole,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ResourceName: resourceName,
		Action:       action,
		Description:  description,
		OldValues:    oldJSON,
		NewValues:    newJSON,
	}
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetResourceAuditHistory retrieves the audit history for a specific resource
func GetResourceAuditHistory(db *gorm.DB, resourceType, resourceID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// AuditLogFilters contains filter options for audit log queries
type AuditLogFilters struct {
	UserID       string
	ResourceType string
	Action       string
	DateFrom     time.Time
	DateTo       time.Time
}

// GetAuditLogs retrieves paginated audit logs, newest first
func GetAuditLogs(db *gorm.DB, filters AuditLogFilters, page, pageSize int) ([]models.AuditLog, int64, error) {
	query := db.Model(&models.AuditLog{})

	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.ResourceType != "" {
		query = query.Where("resource_type = ?", filters.ResourceType)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filters.DateTo)
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	var logs []models.AuditLog
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error

	return logs, total, err
}

// AuditPageSize is the number of audit entries per page
const AuditPageSize = 20

// AuditEntry is an audit row with its field changes expanded
type AuditEntry struct {
	models.AuditLog
	FieldChanges []models.AuditChange `json:"changes,omitempty"`
}

// AuditPage is one page of the audit trail
type AuditPage struct {
	Logs        []AuditEntry `json:"logs"`
	CurrentPage int          `json:"currentPage"`
	TotalPages  int          `json:"totalPages"`
	TotalCount  int64        `json:"totalCount"`
}

func auditEntries(logs []models.AuditLog) []AuditEntry {
	entries := make([]AuditEntry, 0, len(logs))
	for i := range logs {
		entries = append(entries, AuditEntry{AuditLog: logs[i], FieldChanges: logs[i].Changes()})
	}
	return entries
}

// ListAuditLogs returns one page of the audit trail. Admins only.
func ListAuditLogs(db *gorm.DB, filters AuditLogFilters, page int, actor *models.User) (*AuditPage, error) {
	if err := Authorize(actor, OpViewAuditLog); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	logs, total, err := GetAuditLogs(db, filters, page, AuditPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return &AuditPage{
		Logs:        auditEntries(logs),
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(AuditPageSize))),
		TotalCount:  total,
	}, nil
}

// RecordAuditHistory returns the audit entries of a citation or act, newest
// first. It still answers for deleted records. Admins only.
func RecordAuditHistory(db *gorm.DB, recordID string, actor *models.User) ([]AuditEntry, error) {
	if err := Authorize(actor, OpViewAuditLog); err != nil {
		return nil, err
	}

	var history []models.AuditLog
	for _, kind := range []string{models.RecordKindCitation, models.RecordKindAct} {
		logs, err := GetResourceAuditHistory(db, kind, recordID)
		if err != nil {
			return nil, fmt.Errorf("failed to load record history: %w", err)
		}
		history = append(history, logs...)
	}
	if len(history) == 0 {
		return nil, NewNotFoundError("Citation")
	}
	return auditEntries(history), nil
}

// LogSecurityEvent logs security-related events to the database and the process log
func LogSecurityEvent(db *gorm.DB, eventType, userID, details string) {
	logger.Log.Warn("Security event", "event", eventType, "user_id", userID, "details", details)

	go func() {
		auditLog := models.AuditLog{
			UserID:       ptrIfNotEmpty(userID),
			UserName:     "system",
			UserRole:     "system",
			Action:       models.AuditActionLogin,
			ResourceType: "SECURITY_EVENT",
			ResourceID:   eventType,
			Description:  details,
		}
		if err := db.Create(&auditLog).Error; err != nil {
			logger.Log.Error("Failed to create security audit log", "event", eventType, "error", err)
		}
	}()
}
