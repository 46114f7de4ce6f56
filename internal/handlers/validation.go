package handlers

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// phonePattern accepts digits, parentheses, plus, minus and spaces; length
// bounds are per-operation (min/max tags on the request structs).
var phonePattern = regexp.MustCompile(`^[0-9()+\-\s]+$`)

// newValidator builds the shared validator with the custom phone and
// password-complexity rules registered.
func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on duplicate tag names, which would be a
	// programming error caught by any test run.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return passwordComplexOK(fl.Field().String())
	})
	return v
}

// passwordComplexOK requires at least 8 characters with an upper-case letter,
// a lower-case letter and a digit.
func passwordComplexOK(s string) bool {
	if len(s) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

// firstViolation reports the first violated constraint in the
// "Field 'X' failed on the 'y' tag" form used across all handlers.
func firstViolation(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		e := validationErrors[0]
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return err.Error()
}
