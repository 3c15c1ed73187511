package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// LoginAttemptID correlates one login request with the code issued for it.
type LoginAttemptID struct {
	value string
}

// ParseLoginAttemptID validates raw as a UUID and keeps its canonical form.
func ParseLoginAttemptID(raw string) (LoginAttemptID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return LoginAttemptID{}, fmt.Errorf("%w: invalid login attempt id", ErrValidation)
	}
	return LoginAttemptID{value: id.String()}, nil
}

// NewLoginAttemptID returns a random (version 4) identifier.
func NewLoginAttemptID() LoginAttemptID {
	return LoginAttemptID{value: uuid.NewString()}
}

func (id LoginAttemptID) String() string { return id.value }
