package services

import (
	"testing"

	"solve_litigation_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewNotificationService(db)
	records := NewRecordService(db, nil)
	admin := createTestUser(t, db, models.UserTypeAdmin)
	staff := createTestUser(t, db, models.UserTypeStaff)

	record, err := records.Create(models.RecordKindCitation, delhiCitation("2024-03-15"), staff)
	require.NoError(t, err)

	input := NotificationInput{
		Title:      "New bail judgment",
		Link:       "/citation/" + record.ID,
		CitationID: record.ID,
	}

	t.Run("Create requires admin", func(t *testing.T) {
		_, err := svc.CreateNotification(input, staff)
		assertDomainCode(t, err, CodeForbidden)

		_, err = svc.CreateNotification(input, nil)
		assertDomainCode(t, err, CodeUnauthenticated)
	})

	t.Run("Missing fields", func(t *testing.T) {
		_, err := svc.CreateNotification(NotificationInput{Title: "x"}, admin)
		assertDomainCode(t, err, CodeValidation)
	})

	t.Run("Unknown citation", func(t *testing.T) {
		_, err := svc.CreateNotification(NotificationInput{Title: "x", Link: "/x", CitationID: "missing"}, admin)
		assertDomainCode(t, err, CodeNotFound)
	})

	created, err := svc.CreateNotification(input, admin)
	require.NoError(t, err)
	assert.Equal(t, record.ID, created.CitationID)

	t.Run("One per citation", func(t *testing.T) {
		_, err := svc.CreateNotification(input, admin)
		assertDomainCode(t, err, CodeConflict)
		assert.Contains(t, err.Error(), "Notification for this citation already exists.")
	})

	notifications, err := svc.GetNotifications()
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "New bail judgment", notifications[0].Title)

	t.Run("Delete", func(t *testing.T) {
		assertDomainCode(t, svc.DeleteNotification(created.ID, staff), CodeForbidden)
		require.NoError(t, svc.DeleteNotification(created.ID, admin))
		assertDomainCode(t, svc.DeleteNotification(created.ID, admin), CodeNotFound)
	})
}
