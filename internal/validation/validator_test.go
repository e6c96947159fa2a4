package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidate_Passes(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	assert.Nil(t, v.Validate(testPayload{Email: "alice@example.com", Password: "Secret123!"}))
}

func TestValidate_FieldErrorsKeyedByJSONName(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	fieldErrors := v.Validate(testPayload{Email: "not-an-email", Password: "short"})
	require.NotNil(t, fieldErrors)

	assert.Contains(t, fieldErrors, "email")
	assert.Contains(t, fieldErrors, "password")
	assert.NotEmpty(t, fieldErrors["email"])
}

func TestValidate_RequiredFields(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	fieldErrors := v.Validate(testPayload{})
	require.NotNil(t, fieldErrors)
	assert.Len(t, fieldErrors, 2)
}
