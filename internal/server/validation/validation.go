// Package validation provides the explicit field checks each request type
// declares for itself.
package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/google/uuid"
)

// Field pairs a wire field name with its submitted value.
type Field struct {
	Name  string
	Value string
}

// F is shorthand for Field{name, value}.
func F(name, value string) Field {
	return Field{Name: name, Value: value}
}

// Required fails when any field is empty or whitespace. All missing names
// are reported in declaration order.
func Required(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: all fields are required, missing %s", common.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Email fails unless value is a bare address.
func Email(name, value string) error {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return fmt.Errorf("%w: %s is not a valid e-mail address", common.ErrValidation, name)
	}
	return nil
}

// MinLength fails when value has fewer than n characters.
func MinLength(name, value string, n int) error {
	if len([]rune(value)) < n {
		return fmt.Errorf("%w: %s must be at least %d characters", common.ErrValidation, name, n)
	}
	return nil
}

// MaxBytes fails when value is longer than n bytes.
func MaxBytes(name, value string, n int) error {
	if len(value) > n {
		return fmt.Errorf("%w: %s must be at most %d bytes", common.ErrValidation, name, n)
	}
	return nil
}

// UUID fails unless value is a UUID in its canonical hyphenated form.
func UUID(name, value string) error {
	if !IsCanonicalUUID(value) {
		return fmt.Errorf("%w: %s is not a valid id", common.ErrValidation, name)
	}
	return nil
}

// IsCanonicalUUID reports whether s is a 36-character hyphenated UUID.
func IsCanonicalUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// Positive fails unless value > 0.
func Positive(name string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s must be positive", common.ErrValidation, name)
	}
	return nil
}

// All returns the first non-nil error.
func All(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
