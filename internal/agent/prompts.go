package agent

import (
	"fmt"
	"strings"

	"github.com/dilcore/template-agent/internal/entity"
)

const systemPrompt = `You are an AI agent that generates structured JSON templates
based on user requests.

Your task is to analyze the user's request and create a well-organized template that follows
a specific structure.

When generating templates:
1. Create a unique template_id using kebab-case (e.g., "user-registration-form")
2. Provide a clear, descriptive template_name
3. Write a concise description explaining the template's purpose
4. Organize related fields into logical sections
5. For each field, specify:
   - A descriptive name (snake_case)
   - The appropriate data type (string, number, boolean, array, object)
   - Whether it's required
   - A helpful description
   - A default value if applicable
6. Add relevant tags for categorization

Always respond with valid JSON that matches the template schema exactly.
Do not include any text outside of the JSON structure.`

const streamingSystemPrompt = `You are an AI agent that generates structured JSON templates
based on user requests.

Your task is to analyze the user's request, create a well-organized template, and explain
your design decisions.

When generating templates:
1. Create a unique template_id using kebab-case (e.g., "user-registration-form")
2. Provide a clear, descriptive template_name
3. Write a concise description explaining the template's purpose
4. Organize related fields into logical sections
5. For each field, specify:
   - A descriptive name (snake_case)
   - The appropriate data type (string, number, boolean, array, object)
   - Whether it's required
   - A helpful description
   - A default value if applicable
6. Add relevant tags for categorization

You must respond in the exact format specified, with JSON first followed by explanation.`

const formatInstructions = `The template JSON must follow this structure:
{
  "template_id": "kebab-case identifier",
  "template_name": "Human readable name",
  "description": "Purpose of the template",
  "sections": [
    {
      "section_id": "kebab-case identifier",
      "title": "Section title",
      "description": "Optional section description",
      "fields": [
        {
          "name": "snake_case_name",
          "type": "string|number|boolean|array|object",
          "required": true,
          "description": "Field description",
          "default_value": null
        }
      ]
    }
  ],
  "metadata": {
    "version": "1.0.0",
    "author": "AI Agent",
    "tags": ["tag1", "tag2"]
  },
  "status": "draft"
}`

// buildGenerationMessages assembles the single-shot chat messages for a
// template generation request. Retrieved entity names and prior session
// context, when present, are appended as extra grounding for the model.
func buildGenerationMessages(prompt string, related []string) []entity.Message {
	var b strings.Builder

	fmt.Fprintf(&b, `Based on the following user request, generate a structured template:

User Request: %s

Generate a complete template with appropriate sections and fields that would satisfy this request.
Ensure all field types are valid (string, number, boolean, array, object) and
descriptions are helpful.

%s`, prompt, formatInstructions)

	writeRelatedBlock(&b, related)

	return []entity.Message{
		{Role: entity.RoleSystem, Content: systemPrompt},
		{Role: entity.RoleUser, Content: b.String()},
	}
}

// buildStreamingMessages assembles the streaming-variant messages, which
// additionally demand the fenced-JSON plus EXPLANATION output format.
func buildStreamingMessages(prompt string, related []string) []entity.Message {
	var b strings.Builder

	fmt.Fprintf(&b, `Based on the following user request, generate a
structured template:

User Request: %s

Generate a complete template with appropriate sections and fields that would satisfy this request.
Ensure all field types are valid (string, number, boolean, array, object) and
descriptions are helpful.

%s

IMPORTANT: Respond in this EXACT format:

`+"```json"+`
{your template JSON here}
`+"```"+`

EXPLANATION:
{Your explanation of the template design decisions, why you chose these sections and fields,
and any best practices you applied}`, prompt, formatInstructions)

	writeRelatedBlock(&b, related)

	return []entity.Message{
		{Role: entity.RoleSystem, Content: streamingSystemPrompt},
		{Role: entity.RoleUser, Content: b.String()},
	}
}

func writeRelatedBlock(b *strings.Builder, related []string) {
	if len(related) == 0 {
		return
	}

	b.WriteString("\n\nRelated entities already known in this workspace:\n")
	for _, name := range related {
		fmt.Fprintf(b, "- %s\n", name)
	}
	b.WriteString("Prefer naming and structure consistent with these entities where relevant.")
}
