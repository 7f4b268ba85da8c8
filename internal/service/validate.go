package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields the way the JSON API names them: ClientPhone -> clientPhone.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		r := []rune(f.Name)
		r[0] = unicode.ToLower(r[0])
		return string(r)
	})

	_ = v.RegisterValidation("phonedigits", func(fl validator.FieldLevel) bool {
		return phoneDigits(fl.Field().String()) != ""
	})
	return v
}

// check validates s against its struct tags and returns the first failure
// as a *ValidationError.
func check(s any) error {
	err := structValidator.Struct(s)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) || len(fes) == 0 {
		return err
	}
	fe := fes[0]
	return invalid(fe.Field(), message(fe))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "gte":
		if fe.Param() == "0" {
			return "cannot be negative"
		}
		return "must be at least " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("at least %s required", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "phonedigits":
		return "must contain digits"
	}
	return "is invalid"
}
