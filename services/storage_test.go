package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	tempDir := t.TempDir()

	storage := NewLocalStorage(tempDir)
	ctx := context.Background()
	content := "hello storage"
	key := "legal-advice/u1/file.txt"

	t.Run("UploadReader creates file", func(t *testing.T) {
		result, err := storage.UploadReader(ctx, strings.NewReader(content), key, "text/plain", int64(len(content)))
		require.NoError(t, err)
		assert.Equal(t, key, result.Key)
		assert.Equal(t, "file.txt", result.FileName)
		assert.Equal(t, int64(len(content)), result.FileSize)

		_, err = os.Stat(filepath.Join(tempDir, key))
		assert.NoError(t, err)
	})

	t.Run("Get retrieves file content", func(t *testing.T) {
		reader, contentType, err := storage.Get(ctx, key)
		require.NoError(t, err)
		defer reader.Close()

		got, _ := io.ReadAll(reader)
		assert.Equal(t, content, string(got))
		assert.Equal(t, "text/plain; charset=utf-8", contentType)
	})

	t.Run("Get detects pdf", func(t *testing.T) {
		pdfKey := "liquid-text/u1/doc.pdf"
		_, err := storage.UploadReader(ctx, strings.NewReader("%PDF-1.4"), pdfKey, "application/pdf", 8)
		require.NoError(t, err)

		reader, contentType, err := storage.Get(ctx, pdfKey)
		require.NoError(t, err)
		reader.Close()
		assert.Equal(t, "application/pdf", contentType)
	})

	t.Run("Delete removes file and tolerates missing files", func(t *testing.T) {
		require.NoError(t, storage.Delete(ctx, key))
		_, err := os.Stat(filepath.Join(tempDir, key))
		assert.True(t, os.IsNotExist(err))

		assert.NoError(t, storage.Delete(ctx, key))
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		_, err := storage.UploadReader(ctx, strings.NewReader("x"), "../escape.txt", "text/plain", 1)
		assert.Error(t, err)

		_, _, err = storage.Get(ctx, "../../etc/passwd")
		assert.Error(t, err)
	})

}

func TestKeyGeneration(t *testing.T) {
	t.Run("GenerateStorageKey", func(t *testing.T) {
		key := GenerateStorageKey("prefix", "Contract.PDF")
		assert.True(t, strings.HasPrefix(key, "prefix/"))
		assert.True(t, strings.HasSuffix(key, ".pdf"))
		parts := strings.Split(filepath.Base(key), "_")
		assert.Len(t, parts, 2)
	})

	t.Run("domain prefixes", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(GenerateAdviceAttachmentKey("u1", "a.pdf"), "legal-advice/u1/"))
		assert.True(t, strings.HasPrefix(GenerateLiquidTextKey("u1", "a.docx"), "liquid-text/u1/"))
		assert.True(t, strings.HasPrefix(GenerateMessageAttachmentKey("u1", "u2", "a.png"), "messages/u1/u2/"))
	})
}

func TestContentTypeForName(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeForName("a.PDF"))
	assert.Equal(t, "image/jpeg", ContentTypeForName("a.jpeg"))
	assert.Equal(t, XLSXContentType, ContentTypeForName("citations.xlsx"))
	assert.Equal(t, "application/octet-stream", ContentTypeForName("a.bin"))
}

func TestIsConfigured(t *testing.T) {
	ls := NewLocalStorage(t.TempDir())
	assert.True(t, ls.IsConfigured())

	r2 := &R2Storage{bucket: "test-bucket", client: nil}
	assert.False(t, r2.IsConfigured())
}
