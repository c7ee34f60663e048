package validator

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// structValidator checks the same `binding` tags gin enforces at the HTTP
// layer, so requests constructed in code get identical validation.
var structValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}()

// Struct validates a request struct by its `binding` tags.
func Struct(obj interface{}) error {
	return structValidator.Struct(obj)
}

// Date validates a YYYY-MM-DD calendar date.
func Date(s string) error {
	if !dateRe.MatchString(s) {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	return nil
}

// Clock validates an HH:MM wall-clock time.
func Clock(s string) error {
	if !clockRe.MatchString(s) {
		return fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	return nil
}
