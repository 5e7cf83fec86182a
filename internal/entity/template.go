package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// TemplateStatus is the lifecycle status of a generated template.
type TemplateStatus string

const (
	StatusDraft    TemplateStatus = "draft"
	StatusActive   TemplateStatus = "active"
	StatusArchived TemplateStatus = "archived"
)

// Allowed primitive types for template fields.
var fieldTypes = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
	"array":   true,
	"object":  true,
}

// TemplateField is an individual field within a template section.
// DefaultValue is intentionally loosely typed; no consistency check
// against Type is performed.
type TemplateField struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Required     bool   `json:"required"`
	Description  string `json:"description,omitempty"`
	DefaultValue any    `json:"default_value,omitempty"`
}

// UnmarshalJSON treats an omitted required flag as true; fields are
// mandatory unless the model explicitly relaxes them.
func (f *TemplateField) UnmarshalJSON(raw []byte) error {
	type templateField TemplateField
	decoded := templateField{Required: true}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*f = TemplateField(decoded)
	return nil
}

// TemplateSection is a logical grouping of fields.
type TemplateSection struct {
	SectionID   string          `json:"section_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Fields      []TemplateField `json:"fields"`
}

// TemplateMetadata carries version and provenance information.
type TemplateMetadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
	Tags      []string  `json:"tags"`
}

// Template is the structured artifact the service generates.
type Template struct {
	TemplateID   string            `json:"template_id"`
	TemplateName string            `json:"template_name"`
	Description  string            `json:"description"`
	Status       TemplateStatus    `json:"status"`
	Metadata     TemplateMetadata  `json:"metadata"`
	Sections     []TemplateSection `json:"sections"`
}

// ParseTemplate decodes raw JSON into a Template, applies defaults and
// validates it against the schema. Returns a *SchemaValidationError (wrapping
// ErrValidation) naming the offending field paths on failure.
func ParseTemplate(raw []byte) (*Template, error) {
	var t Template
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}

	t.applyDefaults()
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return &t, nil
}

func (t *Template) applyDefaults() {
	if t.Status == "" {
		t.Status = StatusDraft
	}
	if t.Metadata.Version == "" {
		t.Metadata.Version = "1.0.0"
	}
	if t.Metadata.Author == "" {
		t.Metadata.Author = "AI Agent"
	}
	if t.Metadata.CreatedAt.IsZero() {
		t.Metadata.CreatedAt = time.Now().UTC()
	}
	if t.Metadata.Tags == nil {
		t.Metadata.Tags = []string{}
	}
	if t.Sections == nil {
		t.Sections = []TemplateSection{}
	}
}

// Validate checks the template against the schema rules.
func (t *Template) Validate() error {
	verr := NewSchemaValidationError()

	if t.TemplateID == "" {
		verr.Add("template_id", "must be a non-empty string")
	}
	if t.TemplateName == "" {
		verr.Add("template_name", "must be a non-empty string")
	}
	if t.Description == "" {
		verr.Add("description", "must be a non-empty string")
	}

	switch t.Status {
	case StatusDraft, StatusActive, StatusArchived:
	default:
		verr.Add("status", fmt.Sprintf("unknown status %q", t.Status))
	}

	for i, section := range t.Sections {
		if section.SectionID == "" {
			verr.Add(fmt.Sprintf("sections[%d].section_id", i), "must be a non-empty string")
		}
		if section.Title == "" {
			verr.Add(fmt.Sprintf("sections[%d].title", i), "must be a non-empty string")
		}
		for j, field := range section.Fields {
			if field.Name == "" {
				verr.Add(fmt.Sprintf("sections[%d].fields[%d].name", i, j), "must be a non-empty string")
			}
			if !fieldTypes[field.Type] {
				verr.Add(
					fmt.Sprintf("sections[%d].fields[%d].type", i, j),
					fmt.Sprintf("unknown field type %q, must be one of string, number, boolean, array, object", field.Type),
				)
			}
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
