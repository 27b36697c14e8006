package serverutils

import (
	"testing"

	"ai-chatbot-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequestPasses(t *testing.T) {
	err := ValidateRequest(&dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "secret1",
	})
	assert.NoError(t, err)
}

func TestValidateRequestRejectsShortPassword(t *testing.T) {
	err := ValidateRequest(&dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "12345",
	})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "at least 6 characters")
}

func TestValidateRequestRejectsBadEmailAndOtpLength(t *testing.T) {
	err := ValidateRequest(&dto.VerifyOtpRequest{
		Email:   "not-an-email",
		OtpCode: "123",
	})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "valid email")
	assert.Contains(t, vErr.Message, "exactly 6 characters")
}
