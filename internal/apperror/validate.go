package apperror

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
)

// Validator returns the shared validator; json tag names are used in messages
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
			return subdomainPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// ValidateStruct runs struct tag validation and returns a single ValidationError
// listing every failing field, or nil
func ValidateStruct(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Validation(err.Error())
	}

	var combined error
	for _, fe := range fieldErrs {
		combined = multierr.Append(combined, fieldError(fe))
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range multierr.Errors(combined) {
		msgs = append(msgs, e.Error())
	}
	return Validation(strings.Join(msgs, "; "))
}

func fieldError(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("%s must be a valid email", field)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Errorf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Errorf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, fe.Param())
	case "subdomain":
		return fmt.Errorf("%s must contain only lowercase letters, digits and hyphens", field)
	case "uuid":
		return fmt.Errorf("%s must be a valid id", field)
	case "datetime":
		return fmt.Errorf("%s must be a date in %s format", field, fe.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
