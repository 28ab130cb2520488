package middleware

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	type request struct {
		Query string `query:"q" validate:"notblank,max=5"`
		Limit int    `query:"limit" validate:"gte=0,lte=100"`
	}
	v := NewValidator()

	assert.NoError(t, v.Validate(request{Query: "tv", Limit: 10}))

	err := v.Validate(request{Query: "   ", Limit: 10})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "q", verrs[0].Field())
	assert.Equal(t, "notblank", verrs[0].Tag())

	err = v.Validate(request{Query: "tv", Limit: 101})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "limit", verrs[0].Field())
}
