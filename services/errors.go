package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// Error codes returned to API clients
const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeInvalidInstitution      = "INVALID_INSTITUTION"
	CodeUnauthenticated         = "UNAUTHENTICATED"
	CodeForbidden               = "FORBIDDEN"
	CodeNotFound                = "NOT_FOUND"
	CodeDuplicateCaseNumber     = "DUPLICATE_CASE_NUMBER"
	CodeDuplicateCitationNumber = "DUPLICATE_CITATION_NUMBER"
	CodeConflict                = "CONFLICT"
	CodeInternal                = "INTERNAL"
)

// DomainError is an expected failure with the HTTP status it maps to
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details []string
	// Cause is the underlying failure, kept for logs and never sent to clients
	Cause error
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func domainError(status int, code, message string) *DomainError {
	return &DomainError{Status: status, Code: code, Message: message}
}

// NewValidationError reports missing or malformed input
func NewValidationError(message string, details ...string) *DomainError {
	e := domainError(http.StatusBadRequest, CodeValidation, message)
	e.Details = details
	return e
}

// NewInvalidInstitutionError reports an institution name no abbreviation can be derived from
func NewInvalidInstitutionError(name string) *DomainError {
	e := domainError(http.StatusBadRequest, CodeInvalidInstitution, "Invalid institutionName")
	e.Details = []string{"institution must name a supreme court, high court or tribunal: " + name}
	return e
}

// NewUnauthenticatedError reports a missing or invalid credential
func NewUnauthenticatedError(message string) *DomainError {
	return domainError(http.StatusUnauthorized, CodeUnauthenticated, message)
}

// NewForbiddenError reports a role below the operation's minimum
func NewForbiddenError() *DomainError {
	return domainError(http.StatusForbidden, CodeForbidden, "Access denied")
}

// NewNotFoundError reports an absent resource
func NewNotFoundError(resource string) *DomainError {
	return domainError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

// NewDuplicateCaseNumberError reports a citation case number already in use
func NewDuplicateCaseNumberError(caseNo string) *DomainError {
	return domainError(http.StatusConflict, CodeDuplicateCaseNumber, "A citation with case number "+caseNo+" already exists")
}

// NewDuplicateCitationNumberError reports a citation number that could not be made unique
func NewDuplicateCitationNumberError(citationNo string) *DomainError {
	return domainError(http.StatusConflict, CodeDuplicateCitationNumber, "Citation number "+citationNo+" already exists")
}

// NewConflictError reports a uniqueness violation on any other resource
func NewConflictError(message string) *DomainError {
	return domainError(http.StatusConflict, CodeConflict, message)
}

// AsDomainError extracts a DomainError from an error chain
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsUniqueViolation reports whether a store error is a unique-constraint failure.
// libsql connections do not go through gorm's sqlite error translator, so the
// driver message is checked as well.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
