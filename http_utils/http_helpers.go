package http_utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// ValidationMessages flattens a validator error into one message per field.
// Any other error is returned as a single message.
func ValidationMessages(err error) []string {
	var fieldErrors validator.ValidationErrors

	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}

	return lo.Map(fieldErrors, func(item validator.FieldError, index int) string {
		if item.Param() != "" {
			return fmt.Sprintf("%v failed on the '%v=%v' rule", item.Field(), item.Tag(), item.Param())
		}
		return fmt.Sprintf("%v failed on the '%v' rule", item.Field(), item.Tag())
	})
}

// ValidateStruct returns the response to send back and false when s is invalid.
func ValidateStruct(v *validator.Validate, s interface{}) (ValidationErrorResponse, bool) {
	if err := v.Struct(s); err != nil {
		return ValidationErrorResponse{
			BaseResponse: NewBaseResponse(false, "validation failed"),
			Errors:       ValidationMessages(err),
		}, false
	}

	return ValidationErrorResponse{}, true
}
