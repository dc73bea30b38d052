package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "Valid password",
			password: "advocate2024",
			wantErr:  false,
		},
		{
			name:     "Too short",
			password: "abc123",
			wantErr:  true,
			errMsg:   "at least 8 characters",
		},
		{
			name:     "Too long",
			password: strings.Repeat("a1", 40),
			wantErr:  true,
			errMsg:   "at most 72 bytes",
		},
		{
			name:     "Missing number",
			password: "NoNumberPass",
			wantErr:  true,
			errMsg:   "at least one number",
		},
		{
			name:     "Missing letter",
			password: "1234567890",
			wantErr:  true,
			errMsg:   "at least one letter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			de, ok := AsDomainError(err)
			assert.True(t, ok)
			assert.Equal(t, CodeValidation, de.Code)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
