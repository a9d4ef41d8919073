package services

import (
	stderrors "errors"
	"reflect"
	"strings"

	"chat-messages/errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// validateCommand reports every missing field of cmd as a single validation error.
func validateCommand(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) {
		return errors.Validation("%v", err)
	}
	fields := lo.Map([]validator.FieldError(fieldErrors), func(fe validator.FieldError, _ int) string {
		return fe.Field()
	})
	return errors.Validation("%s required", strings.Join(fields, ", "))
}
