package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"solve_litigation_go/models"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHandlers(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()
	admin := createTestUser(t, testDB, models.UserTypeAdmin)
	staff := createTestUser(t, testDB, models.UserTypeStaff)
	add := AddCatalogEntryHandler(models.CatalogKindLaw)

	c, rec := newContext(e, http.MethodPost, "/", `{"name": "IPC"}`, admin)
	require.NoError(t, add(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Law added successfully", decodeBody(t, rec)["message"])

	c, rec = newContext(e, http.MethodPost, "/", `{"name": "IPC"}`, admin)
	require.NoError(t, add(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	c, rec = newContext(e, http.MethodPost, "/", `{"name": "CrPC"}`, staff)
	require.NoError(t, add(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newContext(e, http.MethodGet, "/", "", staff)
	require.NoError(t, ListCatalogHandler(models.CatalogKindLaw)(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []models.CatalogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "IPC", entries[0].Name)

	c, rec = newContext(e, http.MethodPut, "/", `{"_id": "`+entries[0].ID+`", "newName": "Indian Penal Code"}`, admin)
	require.NoError(t, RenameCatalogEntryHandler(models.CatalogKindLaw)(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	c, rec = newContext(e, http.MethodDelete, "/", `{"ids": ["`+entries[0].ID+`"]}`, admin)
	require.NoError(t, DeleteCatalogEntriesHandler(models.CatalogKindLaw)(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["deleted"])
}

func TestSecurityAlertsHandler(t *testing.T) {
	setupTestDB(t)
	e := echo.New()

	c, rec := newContext(e, http.MethodGet, "/", "", nil)
	require.NoError(t, SecurityAlertsHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "alerts")
}

func TestRespondError(t *testing.T) {
	e := echo.New()

	t.Run("domain error keeps its status", func(t *testing.T) {
		c, rec := newContext(e, http.MethodGet, "/", "", nil)
		require.NoError(t, respondError(c, services.NewNotFoundError("Topic")))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Topic not found", decodeBody(t, rec)["error"])
	})

	t.Run("wrapped domain error", func(t *testing.T) {
		c, rec := newContext(e, http.MethodGet, "/", "", nil)
		err := errors.Join(errors.New("context"), services.NewForbiddenError())
		require.NoError(t, respondError(c, err))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("other errors are hidden", func(t *testing.T) {
		c, rec := newContext(e, http.MethodGet, "/", "", nil)
		require.NoError(t, respondError(c, errors.New("disk on fire")))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", decodeBody(t, rec)["error"])
	})
}

func TestIntParam(t *testing.T) {
	n, err := intParam("", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = intParam("12", 3)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = intParam("twelve", 3)
	assert.Error(t, err)
}

func TestHealthHandler(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()

	c, rec := newContext(e, http.MethodGet, "/health", "", nil)
	require.NoError(t, HealthHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	c, rec = newContext(e, http.MethodGet, "/health", "", nil)
	require.NoError(t, HealthHandler(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decodeBody(t, rec)["status"])
}
