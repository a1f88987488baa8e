package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their json name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateInput runs struct tag validation and reports the first failing
// field as a validation_error.
func validateInput(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.Validation("invalid input")
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperror.Validation("%s is required", field)
	case "email":
		return apperror.Validation("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return apperror.Validation("%s must be at least %s characters", field, fe.Param())
		}
		return apperror.Validation("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return apperror.Validation("%s must be at most %s characters", field, fe.Param())
		}
		return apperror.Validation("%s must be at most %s", field, fe.Param())
	case "gte":
		return apperror.Validation("%s must be %s or more", field, fe.Param())
	case "oneof":
		return apperror.Validation("%s must be one of [%s]", field, fe.Param())
	}
	return apperror.Validation("%s is invalid", field)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
