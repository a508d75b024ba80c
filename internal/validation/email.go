package validation

import (
	"net/mail"
)

// ValidateEmail validates email format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(field, email string) error {
	// Check length (RFC 5321: local part max 64, domain max 255, total max 254 with @)
	if len(email) > 254 {
		return Field(field, "is too long (max 254 characters)")
	}

	if email == "" {
		return Field(field, "is required")
	}

	// Parse using Go's RFC 5322 compliant parser
	_, err := mail.ParseAddress(email)
	if err != nil {
		return Field(field, "is not a valid email address")
	}

	return nil
}

// OptionalEmail validates email only when present.
func OptionalEmail(field, email string) error {
	if email == "" {
		return nil
	}
	return ValidateEmail(field, email)
}
