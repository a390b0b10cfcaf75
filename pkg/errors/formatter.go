package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrorResponse is one offending field of a request body or query string.
type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var tagMessages = map[string]string{
	"required":   "This field is required",
	"email":      "Invalid email format",
	"min":        "Value is too short",
	"max":        "Value is too long",
	"gte":        "Value is too small",
	"lte":        "Value is too large",
	"printascii": "Value must contain only printable characters",
}

// paramMessages are used instead of tagMessages when the tag carries a parameter.
var paramMessages = map[string]string{
	"min": "Must be at least %s characters",
	"max": "Must not exceed %s characters",
	"gte": "Must be greater than or equal to %s",
	"lte": "Must be less than or equal to %s",
}

func messageFor(fieldError validator.FieldError) string {
	if format, ok := paramMessages[fieldError.Tag()]; ok && fieldError.Param() != "" {
		return fmt.Sprintf(format, fieldError.Param())
	}
	if message, ok := tagMessages[fieldError.Tag()]; ok {
		return message
	}
	return "Invalid value"
}

// fieldName prefers the json tag, then the form tag, of the struct field.
func fieldName(structType reflect.Type, name string) string {
	if structType == nil {
		return name
	}

	field, found := structType.FieldByName(name)
	if !found {
		return name
	}

	for _, key := range []string{"json", "form"} {
		if tag, _, _ := strings.Cut(field.Tag.Get(key), ","); tag != "" && tag != "-" {
			return tag
		}
	}

	return name
}

// FormatValidationErrors turns binding failures into per-field messages named after the
// model's json or form tags. Unknown error kinds yield an empty list.
func FormatValidationErrors(err error, model interface{}) []ValidationErrorResponse {
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationErrorResponse{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
		}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []ValidationErrorResponse{{
			Field:   "body",
			Message: fmt.Sprintf("Malformed JSON at offset %d", syntaxErr.Offset),
		}}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	var structType reflect.Type
	if model != nil {
		structType = reflect.TypeOf(model)
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}
	}

	formatted := make([]ValidationErrorResponse, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		formatted = append(formatted, ValidationErrorResponse{
			Field:   fieldName(structType, fieldError.StructField()),
			Message: messageFor(fieldError),
		})
	}

	return formatted
}
