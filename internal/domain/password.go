package domain

import "fmt"

// MinPasswordLength is the shortest password accepted at sign-up and login.
const MinPasswordLength = 8

// Password is a validated credential. It is kept verbatim; hashing, where a
// store wants it, happens inside that store.
type Password struct {
	value string
}

// ParsePassword accepts any string of at least MinPasswordLength bytes.
func ParsePassword(raw string) (Password, error) {
	if len(raw) < MinPasswordLength {
		return Password{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	return Password{value: raw}, nil
}

// Reveal returns the raw secret. Only stores and hashers should call it.
func (p Password) Reveal() string { return p.value }

// String never prints the secret, so a Password is safe to pass to a logger.
func (p Password) String() string { return "[REDACTED]" }
