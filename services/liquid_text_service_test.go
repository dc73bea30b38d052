package services

import (
	"context"
	"io"
	"testing"

	"solve_litigation_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiquidTextService(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewLiquidTextService(db, NewLocalStorage(t.TempDir()))
	lawyer := createTestUser(t, db, models.UserTypeLawyer)
	guest := createTestUser(t, db, models.UserTypeGuest)
	staff := createTestUser(t, db, models.UserTypeStaff)
	ctx := context.Background()

	input := LiquidTextInput{Title: "Sale deed review", ClientName: "R. Kumar"}

	t.Run("file is required", func(t *testing.T) {
		_, err := svc.Upload(ctx, input, nil, lawyer)
		assertDomainCode(t, err, CodeValidation)
		assert.Contains(t, err.Error(), "File is required")
	})

	t.Run("unsupported file", func(t *testing.T) {
		_, err := svc.Upload(ctx, input, createMockFileHeader("deed.exe", []byte("MZ")), lawyer)
		assertDomainCode(t, err, CodeValidation)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.Upload(ctx, input, createMockFileHeader("deed.pdf", samplePDF()), nil)
		assertDomainCode(t, err, CodeUnauthenticated)
	})

	document, err := svc.Upload(ctx, input, createMockFileHeader("deed.pdf", samplePDF()), lawyer)
	require.NoError(t, err)
	assert.Equal(t, "deed.pdf", document.FileOriginalName)
	assert.Equal(t, "application/pdf", document.FileContentType)
	assert.Equal(t, lawyer.FullName, document.CreatedByUserName)
	assert.Empty(t, document.Texts)

	t.Run("add text", func(t *testing.T) {
		_, err := svc.AddText(document.ID, "Clause 4 conflicts with clause 9", lawyer)
		require.NoError(t, err)
		updated, err := svc.AddText(document.ID, "Stamp duty unpaid", staff)
		require.NoError(t, err)
		assert.Equal(t, []string{"Clause 4 conflicts with clause 9", "Stamp duty unpaid"}, []string(updated.Texts))

		_, err = svc.AddText(document.ID, "Not mine to annotate", guest)
		assertDomainCode(t, err, CodeForbidden)

		_, err = svc.AddText(document.ID, " ", lawyer)
		assertDomainCode(t, err, CodeValidation)

		_, err = svc.AddText("missing", "text", lawyer)
		assertDomainCode(t, err, CodeNotFound)
	})

	t.Run("list and details", func(t *testing.T) {
		documents, err := svc.Documents(guest)
		require.NoError(t, err)
		require.Len(t, documents, 1)
		assert.Equal(t, "Sale deed review", documents[0].Title)

		details, err := svc.Document(document.ID, guest)
		require.NoError(t, err)
		assert.Len(t, details.Texts, 2)
	})

	t.Run("file download", func(t *testing.T) {
		reader, details, err := svc.File(ctx, document.ID, lawyer)
		require.NoError(t, err)
		defer reader.Close()
		content, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, samplePDF(), content)
		assert.Equal(t, "deed.pdf", details.FileOriginalName)
	})
}
