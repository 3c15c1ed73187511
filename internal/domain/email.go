package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// Email is a syntactically valid, normalized email address.
// The zero value is not a valid email; obtain one through ParseEmail.
type Email struct {
	value string
}

// ParseEmail trims raw and validates it as a bare local@domain address.
// Display names and angle-bracket forms are rejected. The domain is
// lower-cased; the local part is kept as given because mailbox names may be
// case-sensitive.
func ParseEmail(raw string) (Email, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Email{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Name != "" || addr.Address != trimmed {
		return Email{}, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	at := strings.LastIndex(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 {
		return Email{}, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return Email{value: trimmed[:at+1] + strings.ToLower(trimmed[at+1:])}, nil
}

func (e Email) String() string { return e.value }

// IsZero reports whether e was never parsed.
func (e Email) IsZero() bool { return e.value == "" }
