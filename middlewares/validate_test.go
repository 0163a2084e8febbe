package middlewares

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	type input struct {
		CustomerEmail string `json:"customer_email" validate:"required,email"`
	}

	err := ValidateStruct(&input{})
	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve, 1)
	// Error responses should name the payload field, not the Go field.
	assert.Equal(t, "customer_email", ve[0].Field())
	assert.Equal(t, "required", ve[0].Tag())
}

func TestValidateStructPasses(t *testing.T) {
	type input struct {
		CustomerEmail string `json:"customer_email" validate:"required,email"`
	}
	assert.NoError(t, ValidateStruct(&input{CustomerEmail: "a@b.example"}))
}
