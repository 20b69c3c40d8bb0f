// Package validation runs client-side form checks before anything is sent upstream.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/psds-microservice/admin-console/internal/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates v and reports failures as *errs.ValidationError keyed by json field name.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		fields[fe.Field()] = describe(fe)
	}
	return &errs.ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid url"
	}
	return fmt.Sprintf("failed %s", fe.Tag())
}
