package agent

import (
	"errors"
	"testing"

	"github.com/dilcore/template-agent/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateJSON = `{
	"template_id": "contact-form",
	"template_name": "Contact Form",
	"description": "A simple contact form",
	"sections": [
		{"section_id": "info", "title": "Info", "fields": [
			{"name": "email", "type": "string", "required": true}
		]}
	]
}`

func TestParseGeneration(t *testing.T) {
	t.Run("fenced json block with explanation", func(t *testing.T) {
		text := "Here is the template:\n```json\n" + templateJSON + "\n```\n\nEXPLANATION:\nI grouped contact fields into one section."

		result, err := ParseGeneration(text)
		require.NoError(t, err)
		assert.Equal(t, "contact-form", result.Template.TemplateID)
		assert.Equal(t, "I grouped contact fields into one section.", result.Explanation)
	})

	t.Run("whole text fallback when no fence", func(t *testing.T) {
		result, err := ParseGeneration(templateJSON)
		require.NoError(t, err)
		assert.Equal(t, "contact-form", result.Template.TemplateID)
	})

	t.Run("default explanation when marker absent", func(t *testing.T) {
		result, err := ParseGeneration("```json\n" + templateJSON + "\n```")
		require.NoError(t, err)
		assert.Equal(t, "Template generated based on the provided requirements.", result.Explanation)
	})

	t.Run("explanation marker is case-insensitive", func(t *testing.T) {
		text := "```json\n" + templateJSON + "\n```\nexplanation: lower case works too"
		result, err := ParseGeneration(text)
		require.NoError(t, err)
		assert.Equal(t, "lower case works too", result.Explanation)
	})

	t.Run("explanation stops at next fence", func(t *testing.T) {
		text := "EXPLANATION: the reasoning\n```json\n" + templateJSON + "\n```"
		result, err := ParseGeneration(text)
		require.NoError(t, err)
		assert.Equal(t, "the reasoning", result.Explanation)
	})

	t.Run("fenced block takes precedence over surrounding text", func(t *testing.T) {
		text := "ignored prose {\n```json\n" + templateJSON + "\n```\ntrailing"
		result, err := ParseGeneration(text)
		require.NoError(t, err)
		assert.Equal(t, "contact-form", result.Template.TemplateID)
	})

	t.Run("non-json content fails with parsing error", func(t *testing.T) {
		_, err := ParseGeneration("I could not generate a template, sorry.")
		require.Error(t, err)
		assert.True(t, errors.Is(err, entity.ErrTemplateParsing))
	})

	t.Run("fenced block with invalid schema fails", func(t *testing.T) {
		_, err := ParseGeneration("```json\n{\"template_id\": \"x\"}\n```")
		require.Error(t, err)
		assert.True(t, errors.Is(err, entity.ErrTemplateParsing))
	})
}
