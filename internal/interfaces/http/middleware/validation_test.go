package middleware

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestDescribeBindingError(t *testing.T) {
	type request struct {
		AccountNumber string `json:"account_number" binding:"required"`
		Direction     string `json:"message_direction" binding:"required,oneof=Inbound Outbound"`
	}

	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	t.Run("uses wire field names", func(t *testing.T) {
		err := v.Struct(request{Direction: "Sideways"})
		require.Error(t, err)

		desc := DescribeBindingError(err)
		assert.Contains(t, desc, "account_number: this field is required")
		assert.Contains(t, desc, "message_direction: must be one of: Inbound Outbound")
	})

	t.Run("joins multiple failures", func(t *testing.T) {
		err := v.Struct(request{})
		require.Error(t, err)
		assert.True(t, strings.Contains(DescribeBindingError(err), "; "))
	})

	t.Run("passes through non-validation errors", func(t *testing.T) {
		assert.Equal(t, assert.AnError.Error(), DescribeBindingError(assert.AnError))
	})
}
