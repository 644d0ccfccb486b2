package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxRecordIDLength bounds article and dataset identifiers
	MaxRecordIDLength = 128

	recordIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:/-]*$`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("recordid", func(fl validator.FieldLevel) bool {
		return ValidateRecordID(fl.Field().String()) == nil
	})
}

// Struct validates any value carrying `validate` struct tags and returns
// the first failure in a readable form.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateRecordID validates an article or dataset identifier
func ValidateRecordID(id string) error {
	if id == "" {
		return errors.New("identifier cannot be empty")
	}
	if len(id) > MaxRecordIDLength {
		return fmt.Errorf("identifier '%s' exceeds maximum length of %d characters", id, MaxRecordIDLength)
	}
	if !recordIDPattern.MatchString(id) {
		return fmt.Errorf("identifier '%s' contains invalid characters", id)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "recordid":
			return fmt.Errorf("%s: invalid identifier %q", field, e.Value())
		case "dive":
			return fmt.Errorf("%s: invalid element in array", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
