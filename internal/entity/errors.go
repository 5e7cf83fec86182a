package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors. Handlers map these onto problem-details responses; the
// messages are safe to show to callers.
var (
	// ErrProviderUnavailable covers any communication failure with the LLM
	// or embedding backend.
	ErrProviderUnavailable = errors.New("unable to communicate with AI provider")

	// ErrTemplateParsing means the model output could not be converted into
	// a valid template.
	ErrTemplateParsing = errors.New("unable to parse the generated template response")

	// ErrGeneration is the catch-all for unexpected generation failures.
	ErrGeneration = errors.New("an unexpected error occurred during template generation")

	// ErrValidation marks request or schema validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrUnknownAgent is returned when an agent type is not registered.
	ErrUnknownAgent = errors.New("unknown agent type")
)

// SchemaValidationError reports template schema violations keyed by the
// offending field path.
type SchemaValidationError struct {
	Fields map[string][]string
}

func NewSchemaValidationError() *SchemaValidationError {
	return &SchemaValidationError{Fields: make(map[string][]string)}
}

func (e *SchemaValidationError) Add(path, message string) {
	e.Fields[path] = append(e.Fields[path], message)
}

func (e *SchemaValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *SchemaValidationError) Error() string {
	paths := make([]string, 0, len(e.Fields))
	for path := range e.Fields {
		paths = append(paths, path)
	}
	return fmt.Sprintf("template schema validation failed: %s", strings.Join(paths, ", "))
}

func (e *SchemaValidationError) Unwrap() error {
	return ErrValidation
}

// ValidationError reports request validation failures keyed by field name.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "request validation failed"
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
