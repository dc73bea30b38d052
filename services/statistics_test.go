package services

import (
	"testing"

	"solve_litigation_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsService_CountsAndInvalidation(t *testing.T) {
	db := setupRecordTestDB(t)
	stats := NewStatisticsService(db)
	records := NewRecordService(db, stats)
	staff := createTestUser(t, db, models.UserTypeStaff)
	admin := createTestUser(t, db, models.UserTypeAdmin)
	createTestUser(t, db, models.UserTypeGuest)

	record, err := records.Create(models.RecordKindCitation, delhiCitation("2024-03-01"), staff)
	require.NoError(t, err)

	got, err := stats.Get(staff)
	require.NoError(t, err)
	assert.Equal(t, Statistics{NoOfPendingCitation: 1, NoOfGuestUser: 1, NoOfStaffUser: 1}, *got)

	// a write that bypasses the services is not seen until the cache is dropped
	createTestUser(t, db, models.UserTypeGuest)
	got, err = stats.Get(staff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.NoOfGuestUser)

	_, err = records.Approve(record.ID, admin)
	require.NoError(t, err)

	got, err = stats.Get(admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.NoOfApprovedCitation)
	assert.Equal(t, int64(0), got.NoOfPendingCitation)
	assert.Equal(t, int64(2), got.NoOfGuestUser)
}

func TestStatisticsService_RequiresStaff(t *testing.T) {
	db := setupRecordTestDB(t)
	stats := NewStatisticsService(db)

	_, err := stats.Get(nil)
	assertDomainCode(t, err, CodeUnauthenticated)

	_, err = stats.Get(createTestUser(t, db, models.UserTypeGuest))
	assertDomainCode(t, err, CodeForbidden)
}

func TestStatisticsService_NilIsSafe(t *testing.T) {
	var stats *StatisticsService
	assert.NotPanics(t, stats.Invalidate)
}
