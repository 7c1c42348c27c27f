package descriptor

import (
	_ "embed"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/template.schema.json
var schemaJSON []byte

// SchemaJSON returns the JSON Schema used for structural validation.
func SchemaJSON() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

// Problem is a single validation failure.
type Problem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every problem found in a descriptor.
type ValidationError struct {
	Problems []Problem `json:"problems"`
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return "descriptor: invalid template"
	}
	var sb strings.Builder
	sb.WriteString("descriptor: invalid template: ")
	for i, problem := range e.Problems {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(problem.Field)
		sb.WriteString(": ")
		sb.WriteString(problem.Message)
	}
	return sb.String()
}

var (
	compiledOnce   sync.Once
	compiledSchema *gojsonschema.Schema
	compiledErr    error

	validateOnce sync.Once
	validate     *validator.Validate
)

func templateSchema() (*gojsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiledSchema, compiledErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
		if compiledErr != nil {
			compiledErr = fmt.Errorf("descriptor: compile schema: %w", compiledErr)
		}
	})
	return compiledSchema, compiledErr
}

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// Validate structurally checks a raw descriptor (JSON or YAML). It returns a
// *ValidationError describing every problem, or nil.
func Validate(raw []byte) error {
	doc, err := decodeGeneric(raw)
	if err != nil {
		return &ValidationError{Problems: []Problem{{Field: "(root)", Message: err.Error()}}}
	}
	if err := validateShape(doc); err != nil {
		return err
	}

	tpl, err := decodeTemplate(raw)
	if err != nil {
		return &ValidationError{Problems: []Problem{{Field: "(root)", Message: err.Error()}}}
	}
	return ValidateTemplate(tpl)
}

// ValidateTemplate runs the typed checks on an already decoded template:
// non-blank id and name, and a known layout type.
func ValidateTemplate(tpl *Template) error {
	if tpl == nil {
		return &ValidationError{Problems: []Problem{{Field: "(root)", Message: "template is nil"}}}
	}
	err := structValidator().Struct(tpl)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("descriptor: validate: %w", err)
	}
	out := &ValidationError{Problems: make([]Problem, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Problems = append(out.Problems, Problem{
			Field:   fieldPath(fe.Namespace()),
			Message: tagMessage(fe),
		})
	}
	return out
}

func validateShape(doc any) error {
	schema, err := templateSchema()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &ValidationError{Problems: []Problem{{Field: "(root)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}
	out := &ValidationError{Problems: make([]Problem, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		out.Problems = append(out.Problems, Problem{Field: field, Message: desc.Description()})
	}
	return out
}

func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
