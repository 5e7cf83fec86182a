package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dilcore/template-agent/internal/entity"
	playground "github.com/go-playground/validator/v10"
)

// Validator validates request DTOs via their struct tags and reports
// failures as field-keyed entity.ValidationError values.
type Validator struct {
	validate *playground.Validate
}

func New() *Validator {
	return &Validator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate checks a request struct. The returned error is a
// *entity.ValidationError wrapping entity.ErrValidation on failure.
func (v *Validator) Validate(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := jsonFieldName(fe)
		fields[name] = append(fields[name], messageFor(fe))
	}

	return &entity.ValidationError{Fields: fields}
}

func jsonFieldName(fe playground.FieldError) string {
	// Namespace is e.g. "GenerateRequest.Prompt"; drop the struct name and
	// lower the field to match the wire format.
	parts := strings.Split(fe.Namespace(), ".")
	name := parts[len(parts)-1]
	return toSnake(name)
}

func messageFor(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
