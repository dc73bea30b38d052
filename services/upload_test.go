package services

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func createMockFileHeader(filename string, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", filename)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(32 * 1024 * 1024)
	return form.File["file"][0]
}

func TestValidatePDFUpload(t *testing.T) {
	t.Run("Valid PDF", func(t *testing.T) {
		file := createMockFileHeader("case.pdf", append([]byte("%PDF-1.4\n"), make([]byte, 100)...))
		assert.NoError(t, ValidatePDFUpload(file))
	})

	t.Run("Wrong extension", func(t *testing.T) {
		file := createMockFileHeader("case.docx", []byte("PK\x03\x04"))
		err := ValidatePDFUpload(file)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Only PDF files are allowed")
	})

	t.Run("Disguised file", func(t *testing.T) {
		file := createMockFileHeader("case.pdf", []byte("not a pdf at all"))
		err := ValidatePDFUpload(file)
		de, ok := AsDomainError(err)
		assert.True(t, ok)
		assert.Equal(t, CodeValidation, de.Code)
	})

	t.Run("Empty file", func(t *testing.T) {
		file := createMockFileHeader("case.pdf", []byte{})
		assert.Error(t, ValidatePDFUpload(file))
	})

	t.Run("File too large", func(t *testing.T) {
		file := createMockFileHeader("large.pdf", append([]byte("%PDF"), make([]byte, 11*1024*1024)...))
		err := ValidatePDFUpload(file)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds the maximum limit")
	})
}

func TestValidateDocumentUpload(t *testing.T) {
	assert.NoError(t, ValidateDocumentUpload(createMockFileHeader("brief.docx", []byte("PK\x03\x04"))))
	assert.NoError(t, ValidateDocumentUpload(createMockFileHeader("brief.PDF", []byte("%PDF"))))

	err := ValidateDocumentUpload(createMockFileHeader("photo.png", []byte("\x89PNG")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "file type not allowed")
}

func TestValidateAttachmentUpload(t *testing.T) {
	assert.NoError(t, ValidateAttachmentUpload(createMockFileHeader("photo.png", []byte("\x89PNG"))))
	assert.NoError(t, ValidateAttachmentUpload(createMockFileHeader("notes.txt", []byte("hello"))))

	err := ValidateAttachmentUpload(createMockFileHeader("tool.exe", []byte("MZ")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "file type not allowed")
}
