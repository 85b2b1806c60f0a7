package util

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is shared by config loading and inbound event payloads.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report json names so clients see "roomId" rather than "RoomID"
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	return v
}
