package services

import (
	"testing"

	"solve_litigation_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_AddAndList(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewCatalogService(db)
	admin := createTestUser(t, db, models.UserTypeAdmin)
	staff := createTestUser(t, db, models.UserTypeStaff)
	guest := createTestUser(t, db, models.UserTypeGuest)

	_, err := svc.Add(models.CatalogKindLaw, "Indian Penal Code", admin)
	require.NoError(t, err)
	_, err = svc.Add(models.CatalogKindLaw, "Evidence Act", admin)
	require.NoError(t, err)

	t.Run("duplicate within kind", func(t *testing.T) {
		_, err := svc.Add(models.CatalogKindLaw, "Indian Penal Code", admin)
		assertDomainCode(t, err, CodeConflict)
		assert.Contains(t, err.Error(), "Law already exists")
	})

	t.Run("same name in another kind", func(t *testing.T) {
		_, err := svc.Add(models.CatalogKindPointOfLaw, "Indian Penal Code", admin)
		assert.NoError(t, err)
	})

	t.Run("admins only", func(t *testing.T) {
		_, err := svc.Add(models.CatalogKindCourt, "High Court of Delhi", staff)
		assertDomainCode(t, err, CodeForbidden)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := svc.Add("statute", "x", admin)
		assertDomainCode(t, err, CodeValidation)
	})

	laws, err := svc.List(models.CatalogKindLaw, staff)
	require.NoError(t, err)
	require.Len(t, laws, 2)
	assert.Equal(t, "Evidence Act", laws[0].Name)

	t.Run("read levels", func(t *testing.T) {
		_, err := svc.List(models.CatalogKindLaw, guest)
		assertDomainCode(t, err, CodeForbidden)

		types, err := svc.List(models.CatalogKindApellateType, guest)
		require.NoError(t, err)
		assert.Empty(t, types)

		_, err = svc.List(models.CatalogKindApellateType, nil)
		assertDomainCode(t, err, CodeUnauthenticated)
	})
}

func TestCatalogService_RenameAndDelete(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewCatalogService(db)
	admin := createTestUser(t, db, models.UserTypeAdmin)

	ipc, err := svc.Add(models.CatalogKindLaw, "IPC", admin)
	require.NoError(t, err)
	crpc, err := svc.Add(models.CatalogKindLaw, "CrPC", admin)
	require.NoError(t, err)
	court, err := svc.Add(models.CatalogKindCourt, "Supreme Court of India", admin)
	require.NoError(t, err)

	t.Run("rename", func(t *testing.T) {
		renamed, err := svc.Rename(models.CatalogKindLaw, ipc.ID, "Indian Penal Code", admin)
		require.NoError(t, err)
		assert.Equal(t, "Indian Penal Code", renamed.Name)
	})

	t.Run("rename conflicts", func(t *testing.T) {
		_, err := svc.Rename(models.CatalogKindLaw, ipc.ID, "CrPC", admin)
		assertDomainCode(t, err, CodeConflict)
		assert.Contains(t, err.Error(), "Law with this name already exists")
	})

	t.Run("rename validation", func(t *testing.T) {
		_, err := svc.Rename(models.CatalogKindLaw, "", "x", admin)
		assertDomainCode(t, err, CodeValidation)
		_, err = svc.Rename(models.CatalogKindLaw, ipc.ID, " ", admin)
		assertDomainCode(t, err, CodeValidation)
		_, err = svc.Rename(models.CatalogKindLaw, court.ID, "x", admin)
		assertDomainCode(t, err, CodeNotFound)
	})

	t.Run("bulk delete is scoped to the kind", func(t *testing.T) {
		n, err := svc.Delete(models.CatalogKindLaw, []string{ipc.ID, crpc.ID, court.ID, "missing"}, admin)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		courts, err := svc.List(models.CatalogKindCourt, admin)
		require.NoError(t, err)
		assert.Len(t, courts, 1)
	})

	t.Run("delete requires ids", func(t *testing.T) {
		_, err := svc.Delete(models.CatalogKindLaw, nil, admin)
		assertDomainCode(t, err, CodeValidation)
	})
}
