package services

import (
	"context"
	"testing"

	"solve_litigation_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactInput() ContactInput {
	return ContactInput{
		Name:        "Meera Iyer",
		Email:       "Meera@Example.com",
		PhoneNumber: "9812345678",
		Message:     "Do you cover tribunal orders?",
	}
}

func TestContactService_Submit(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewContactService(db, "")
	ctx := context.Background()

	form, err := svc.Submit(ctx, contactInput(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "meera@example.com", form.Email)

	t.Run("markup is stripped", func(t *testing.T) {
		input := contactInput()
		input.Message = `<script>alert(1)</script>Need help <b>urgently</b>`
		form, err := svc.Submit(ctx, input, "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, "Need help urgently", form.Message)
	})

	t.Run("message that is only markup", func(t *testing.T) {
		input := contactInput()
		input.Message = "<img src=x onerror=alert(1)>"
		_, err := svc.Submit(ctx, input, "10.0.0.1")
		assertDomainCode(t, err, CodeValidation)
	})

	t.Run("invalid email", func(t *testing.T) {
		input := contactInput()
		input.Email = "meera"
		_, err := svc.Submit(ctx, input, "10.0.0.1")
		assertDomainCode(t, err, CodeValidation)
	})
}

func TestContactService_Captcha(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewContactService(db, "turnstile-secret")
	svc.captcha = stubbedVerifier(t, turnstileStub(t).URL)
	ctx := context.Background()

	input := contactInput()
	_, err := svc.Submit(ctx, input, "10.0.0.1")
	assertDomainCode(t, err, CodeValidation)

	input.TurnstileToken = "bad"
	_, err = svc.Submit(ctx, input, "10.0.0.1")
	assertDomainCode(t, err, CodeValidation)

	input.TurnstileToken = "good"
	_, err = svc.Submit(ctx, input, "10.0.0.1")
	assert.NoError(t, err)
}

func TestContactService_List(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewContactService(db, "")
	admin := createTestUser(t, db, models.UserTypeAdmin)
	staff := createTestUser(t, db, models.UserTypeStaff)

	_, err := svc.Submit(context.Background(), contactInput(), "10.0.0.1")
	require.NoError(t, err)

	forms, err := svc.List(admin)
	require.NoError(t, err)
	assert.Len(t, forms, 1)

	_, err = svc.List(staff)
	assertDomainCode(t, err, CodeForbidden)
}
