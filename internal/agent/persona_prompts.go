package agent

import (
	"fmt"
	"strings"

	"github.com/dilcore/template-agent/internal/entity"
)

const personaSystemPrompt = `You are an intelligent assistant that helps users interact with their data.

Your tasks:
1. Understand user requests and determine their intent
2. Identify the appropriate form or view from available metadata
3. Retrieve relevant existing data if applicable
4. Suggest data changes or operations based on user intent

You have access to a metadata repository containing forms, views, entities, and their relationships.
When responding:
- Be concise but helpful
- Explain which form or view you've selected and why
- If data exists, explain what was found
- If the user wants to make changes, describe what changes are suggested

Always respond in a structured way that can be parsed.`

// buildResolutionMessages assembles the persona resolution prompt from the
// user request and the metadata summaries retrieved for it.
func buildResolutionMessages(userRequest string, metadataItems []string) []entity.Message {
	metadataContext := "No metadata available"
	if len(metadataItems) > 0 {
		metadataContext = strings.Join(metadataItems, "\n")
	}

	userContent := fmt.Sprintf(`Based on the user request and available metadata:

User Request: %s

Available Forms/Views:
%s

Determine:
1. Which form or view is most appropriate for this request
2. What operation the user wants to perform (create, read, update, delete)
3. What data is needed or should be changed

Provide a clear explanation of your decision and any actions to take.`, userRequest, metadataContext)

	return []entity.Message{
		{Role: entity.RoleSystem, Content: personaSystemPrompt},
		{Role: entity.RoleUser, Content: userContent},
	}
}
