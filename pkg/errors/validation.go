package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateName validates a skeleton name used to derive input and output
// file names. The name must be a plain base name.
//
// Validation rules:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 255 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "skeleton name cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidInput, "skeleton name too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "skeleton name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "skeleton name cannot contain path separators")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "skeleton name cannot be %q", name)
	}

	return nil
}

// ValidateNonNegative checks that a numeric option is finite and >= 0.
func ValidateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite", field)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative: %g", field, v)
	}
	return nil
}

// ValidatePositive checks that a numeric option is finite and > 0.
func ValidatePositive(field string, v float64) error {
	if err := ValidateNonNegative(field, v); err != nil {
		return err
	}
	if v == 0 {
		return New(ErrCodeInvalidInput, "%s must be positive", field)
	}
	return nil
}
