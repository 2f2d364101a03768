package main

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestValidator checks incoming payloads and renders one message
// per offending field, named after its json tag.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator returns a validator configured to report fields
// under their wire names.
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Check returns the list of validation messages for the payload,
// or nil when it is valid.
func (rv *RequestValidator) Check(payload interface{}) []string {
	err := rv.validate.Struct(payload)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	default:
		return fe.Field() + " is invalid"
	}
}
