package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
)

// Allowed extensions per upload kind
var (
	documentExtensions   = []string{".pdf", ".doc", ".docx"}
	attachmentExtensions = []string{".pdf", ".doc", ".docx", ".txt", ".jpg", ".jpeg", ".png"}
)

// ValidatePDFUpload checks the file is a PDF within size limits
func ValidatePDFUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxUploadSize {
		return NewValidationError("File size exceeds the maximum limit of 10MB")
	}

	if strings.ToLower(filepath.Ext(fileHeader.Filename)) != ".pdf" {
		return NewValidationError("Only PDF files are allowed")
	}

	header, err := readFileHeader(fileHeader)
	if err != nil {
		return err
	}
	// PDF files start with %PDF
	if len(header) < 4 || string(header[:4]) != "%PDF" {
		return NewValidationError("File is not a valid PDF")
	}
	return nil
}

// ValidateDocumentUpload checks a liquid text document (PDF or Word) within size limits
func ValidateDocumentUpload(fileHeader *multipart.FileHeader) error {
	return validateUpload(fileHeader, documentExtensions, "PDF, DOC, DOCX")
}

// ValidateAttachmentUpload checks a chat attachment within size limits
func ValidateAttachmentUpload(fileHeader *multipart.FileHeader) error {
	return validateUpload(fileHeader, attachmentExtensions, "PDF, DOC, DOCX, TXT, JPG, PNG")
}

func validateUpload(fileHeader *multipart.FileHeader, allowed []string, accepted string) error {
	if fileHeader.Size > MaxUploadSize {
		return NewValidationError("File size exceeds the maximum limit of 10MB")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return NewValidationError(fmt.Sprintf("file type not allowed. Accepted formats: %s", accepted))
}

func readFileHeader(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	return buffer[:n], nil
}
