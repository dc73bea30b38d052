package services

import (
	"encoding/json"
	"testing"
	"time"

	"solve_litigation_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAuditEvent(t *testing.T) {
	db := setupRecordTestDB(t)
	admin := createTestUser(t, db, models.UserTypeAdmin)

	oldVals := map[string]interface{}{"status": "pending"}
	newVals := map[string]interface{}{"status": "approved"}

	LogAuditEvent(db, AuditContextFor(admin), models.AuditActionApprove, models.RecordKindCitation, "rec-123", "2024-SL-SC-001", "Approved citation", oldVals, newVals)

	// LogAuditEvent is async
	var log models.AuditLog
	require.Eventually(t, func() bool {
		return db.First(&log, "resource_id = ?", "rec-123").Error == nil
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, admin.ID, *log.UserID)
	assert.Equal(t, admin.FullName, log.UserName)
	assert.Equal(t, models.UserTypeAdmin, log.UserRole)
	assert.Equal(t, models.RecordKindCitation, log.ResourceType)
	assert.Equal(t, "2024-SL-SC-001", log.ResourceName)

	var savedOld, savedNew map[string]interface{}
	json.Unmarshal([]byte(log.OldValues), &savedOld)
	json.Unmarshal([]byte(log.NewValues), &savedNew)
	assert.Equal(t, "pending", savedOld["status"])
	assert.Equal(t, "approved", savedNew["status"])

	changes := log.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "status", changes[0].Field)
}

func TestBuildAuditLog_Defaults(t *testing.T) {
	entry := buildAuditLog(AuditContext{}, models.AuditActionCreate, "act", "a1", "", "", nil, nil)
	assert.Nil(t, entry.UserID)
	assert.Equal(t, "system", entry.UserName)
	assert.Equal(t, "system", entry.UserRole)
	assert.Empty(t, entry.OldValues)

	anon := AuditContextFor(nil)
	assert.Equal(t, "anonymous", anon.UserName)
}

func TestLogSecurityEvent(t *testing.T) {
	db := setupRecordTestDB(t)

	LogSecurityEvent(db, "LOGIN_FAILED", "user-security-123", "Invalid password")

	var log models.AuditLog
	require.Eventually(t, func() bool {
		return db.Where("resource_type = ?", "SECURITY_EVENT").First(&log).Error == nil
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "user-security-123", *log.UserID)
	assert.Equal(t, "LOGIN_FAILED", log.ResourceID)
	assert.Equal(t, "Invalid password", log.Description)
}

func TestGetResourceAuditHistory(t *testing.T) {
	db := setupRecordTestDB(t)

	db.Create(&models.AuditLog{UserName: "s", UserRole: "staff", ResourceType: "citation", ResourceID: "rec-ABC", Action: models.AuditActionCreate, CreatedAt: time.Now().Add(-2 * time.Hour)})
	db.Create(&models.AuditLog{UserName: "s", UserRole: "staff", ResourceType: "citation", ResourceID: "rec-ABC", Action: models.AuditActionUpdate, CreatedAt: time.Now().Add(-1 * time.Hour)})
	db.Create(&models.AuditLog{UserName: "s", UserRole: "staff", ResourceType: "act", ResourceID: "other-123", Action: models.AuditActionCreate})

	logs, err := GetResourceAuditHistory(db, "citation", "rec-ABC")
	require.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, models.AuditActionUpdate, logs[0].Action) // newest first
}

func TestGetAuditLogs(t *testing.T) {
	db := setupRecordTestDB(t)

	for i := 0; i < 3; i++ {
		db.Create(&models.AuditLog{UserName: "s", UserRole: "staff", ResourceType: "citation", ResourceID: "c", Action: models.AuditActionCreate})
	}
	db.Create(&models.AuditLog{UserName: "a", UserRole: "admin", ResourceType: "citation", ResourceID: "c", Action: models.AuditActionDelete})

	logs, total, err := GetAuditLogs(db, AuditLogFilters{Action: string(models.AuditActionCreate)}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 2)

	logs, total, err = GetAuditLogs(db, AuditLogFilters{}, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, logs, 1)
}

func TestListAuditLogs(t *testing.T) {
	db := setupRecordTestDB(t)
	admin := createTestUser(t, db, models.UserTypeAdmin)
	staff := createTestUser(t, db, models.UserTypeStaff)

	for i := 0; i < AuditPageSize+1; i++ {
		db.Create(&models.AuditLog{UserName: "s", UserRole: "staff", ResourceType: "citation", ResourceID: "c", Action: models.AuditActionCreate})
	}
	db.Create(&models.AuditLog{
		UserName: "a", UserRole: "admin", ResourceType: "act", ResourceID: "a1", Action: models.AuditActionUpdate,
		OldValues: `{"title":"Old"}`, NewValues: `{"title":"New"}`,
	})

	page, err := ListAuditLogs(db, AuditLogFilters{}, 0, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(AuditPageSize+2), page.TotalCount)
	assert.Len(t, page.Logs, AuditPageSize)

	page, err = ListAuditLogs(db, AuditLogFilters{ResourceType: "act"}, 1, admin)
	require.NoError(t, err)
	require.Len(t, page.Logs, 1)
	require.Len(t, page.Logs[0].FieldChanges, 1)
	assert.Equal(t, "title", page.Logs[0].FieldChanges[0].Field)

	_, err = ListAuditLogs(db, AuditLogFilters{}, 1, staff)
	assertDomainCode(t, err, CodeForbidden)
}

func TestRecordAuditHistory(t *testing.T) {
	db := setupRecordTestDB(t)
	admin := createTestUser(t, db, models.UserTypeAdmin)

	db.Create(&models.AuditLog{UserName: "s", UserRole: "staff", ResourceType: "act", ResourceID: "act-1", Action: models.AuditActionCreate, CreatedAt: time.Now().Add(-time.Hour)})
	db.Create(&models.AuditLog{UserName: "a", UserRole: "admin", ResourceType: "act", ResourceID: "act-1", Action: models.AuditActionDelete})

	history, err := RecordAuditHistory(db, "act-1", admin)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.AuditActionDelete, history[0].Action)

	_, err = RecordAuditHistory(db, "missing", admin)
	assertDomainCode(t, err, CodeNotFound)

	_, err = RecordAuditHistory(db, "act-1", nil)
	assertDomainCode(t, err, CodeUnauthenticated)
}
