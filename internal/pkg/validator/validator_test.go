package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/dilcore/template-agent/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := New()

	t.Run("valid request passes", func(t *testing.T) {
		err := v.Validate(&entity.GenerateRequest{Prompt: "a contact form"})
		assert.NoError(t, err)
	})

	t.Run("missing prompt reported under json name", func(t *testing.T) {
		err := v.Validate(&entity.GenerateRequest{})
		require.Error(t, err)

		var verr *entity.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "prompt")
		assert.Equal(t, []string{"field required"}, verr.Fields["prompt"])
		assert.True(t, errors.Is(err, entity.ErrValidation))
	})

	t.Run("max length enforced", func(t *testing.T) {
		err := v.Validate(&entity.GenerateRequest{Prompt: strings.Repeat("x", 4001)})
		var verr *entity.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields["prompt"][0], "4000")
	})

	t.Run("oneof reported with allowed values", func(t *testing.T) {
		err := v.Validate(&entity.MetadataIndexRequest{
			Metadata:     map[string]any{"id": "x"},
			MetadataType: "report",
		})
		var verr *entity.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "metadata_type")
		assert.Contains(t, verr.Fields["metadata_type"][0], "form")
	})

	t.Run("snake case field names", func(t *testing.T) {
		err := v.Validate(&entity.PersonaRequest{})
		var verr *entity.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "user_request")
	})
}
