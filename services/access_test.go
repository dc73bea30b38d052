package services

import (
	"testing"

	"solve_litigation_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelOf(t *testing.T) {
	assert.Equal(t, LevelAnonymous, LevelOf(nil))
	assert.Equal(t, LevelUser, LevelOf(&models.User{UserType: models.UserTypeGuest}))
	assert.Equal(t, LevelUser, LevelOf(&models.User{UserType: models.UserTypeLawyer}))
	assert.Equal(t, LevelStaff, LevelOf(&models.User{UserType: models.UserTypeStaff}))
	assert.Equal(t, LevelAdmin, LevelOf(&models.User{UserType: models.UserTypeAdmin}))
	assert.Equal(t, LevelAnonymous, LevelOf(&models.User{UserType: "unknown"}))
}

func TestAuthorize(t *testing.T) {
	guest := &models.User{UserType: models.UserTypeGuest}
	staff := &models.User{UserType: models.UserTypeStaff}
	admin := &models.User{UserType: models.UserTypeAdmin}

	tests := []struct {
		op      Operation
		allowed []*models.User
		denied  []*models.User
	}{
		{OpCreateCitation, []*models.User{staff, admin}, []*models.User{guest}},
		{OpCreateAct, []*models.User{admin}, []*models.User{guest, staff}},
		{OpUpdateRecord, []*models.User{staff, admin}, []*models.User{guest}},
		{OpApproveRecord, []*models.User{admin}, []*models.User{guest, staff}},
		{OpDeleteRecord, []*models.User{admin}, []*models.User{guest, staff}},
		{OpListPending, []*models.User{staff, admin}, []*models.User{guest}},
		{OpListApproved, []*models.User{staff, admin}, []*models.User{guest}},
		{OpReadRecord, []*models.User{guest, staff, admin}, nil},
		{OpViewStatistics, []*models.User{staff, admin}, []*models.User{guest}},
		{OpExportRecords, []*models.User{admin}, []*models.User{guest, staff}},
		{OpImportRecords, []*models.User{admin}, []*models.User{guest, staff}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			for _, u := range tt.allowed {
				assert.NoError(t, Authorize(u, tt.op), u.UserType)
			}
			for _, u := range tt.denied {
				de, ok := AsDomainError(Authorize(u, tt.op))
				require.True(t, ok, u.UserType)
				assert.Equal(t, CodeForbidden, de.Code)
				assert.Equal(t, 403, de.Status)
			}

			de, ok := AsDomainError(Authorize(nil, tt.op))
			require.True(t, ok)
			assert.Equal(t, CodeUnauthenticated, de.Code)
		})
	}

	t.Run("unknown operation", func(t *testing.T) {
		assert.Error(t, Authorize(admin, Operation("record.unknown")))
	})
}
