package agent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dilcore/template-agent/internal/entity"
)

const defaultExplanation = "Template generated based on the provided requirements."

var (
	fencedJSONRe  = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")
	explanationRe = regexp.MustCompile("(?i)EXPLANATION:\\s*([\\s\\S]*?)(?:\\z|```)")
)

// ParseGeneration turns a complete model response into a validated template
// plus its design explanation. A fenced json block takes precedence; when no
// fence is present the whole text is treated as the template JSON. The
// explanation is extracted independently of where the template came from and
// falls back to a fixed default when the marker is missing.
func ParseGeneration(text string) (*entity.StreamingResult, error) {
	var payload []byte
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		payload = []byte(strings.TrimSpace(m[1]))
	} else {
		payload = []byte(strings.TrimSpace(text))
	}

	template, err := entity.ParseTemplate(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrTemplateParsing, err)
	}

	explanation := defaultExplanation
	if m := explanationRe.FindStringSubmatch(text); m != nil {
		if trimmed := strings.TrimSpace(m[1]); trimmed != "" {
			explanation = trimmed
		}
	}

	return &entity.StreamingResult{
		Template:    template,
		Explanation: explanation,
	}, nil
}
