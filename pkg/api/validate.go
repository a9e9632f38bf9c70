package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks drafts before they go on the wire, so obviously bad
// payloads fail with the same ValidationFailed shape the server uses.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field errors under their wire names so forms can match
	// them to inputs.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return field.Name
		}
		return tag
	})
	return v
}

// validateDraft runs struct validation and converts failures into the
// client's validation error shape.
func validateDraft(draft interface{}) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate draft: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = validationMessage(fe)
	}
	return &Error{Kind: KindValidation, Fields: fields}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
