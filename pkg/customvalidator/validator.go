package customvalidator

import (
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
)

const DateTimeLocalLayout = "2006-01-02T15:04"

var responseTypes = map[string]struct{}{
	"options":  {},
	"text":     {},
	"datetime": {},
	"autofill": {},
}

// RegisterCustomValidations registers the checklist-specific tags on v.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("response_type", isResponseType); err != nil {
		return err
	}
	if err := v.RegisterValidation("options_match_type", optionsMatchType); err != nil {
		return err
	}
	if err := v.RegisterValidation("datetime_local", isDateTimeLocal); err != nil {
		return err
	}
	return nil
}

func isResponseType(fl validator.FieldLevel) bool {
	_, ok := responseTypes[fl.Field().String()]
	return ok
}

// optionsMatchType sits on the Options slice and reads the sibling
// ResponseType: options must be non-empty exactly when the type is "options".
func optionsMatchType(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	typeField := parent.FieldByName("ResponseType")
	if !typeField.IsValid() {
		return true
	}

	var responseType string
	switch typeField.Kind() {
	case reflect.String:
		responseType = typeField.String()
	case reflect.Ptr:
		if typeField.IsNil() {
			// partial update without a type change; checked in the service
			return true
		}
		responseType = typeField.Elem().String()
	}

	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return responseType != "options"
		}
		field = field.Elem()
	}
	count := 0
	if field.Kind() == reflect.Slice {
		count = field.Len()
	}
	if responseType == "options" {
		return count > 0
	}
	return count == 0
}

func isDateTimeLocal(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse(DateTimeLocalLayout, s)
	return err == nil
}
