package usecase

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/raian-antunes/group-management-platform/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names so handlers can echo them back verbatim
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := map[string][]string{}
	for _, fe := range fieldErrors {
		fields[fe.Field()] = append(fields[fe.Field()], messageFor(fe))
	}
	return domain.ValidationError{Fields: fields}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "eqfield":
		return "must match " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
