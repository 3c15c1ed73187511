package domain

import "errors"

var (
	// ErrValidation is wrapped by every value-type parser.
	// Callers match on it with errors.Is and never inspect the message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials reports malformed input at the orchestrator boundary
	// (an email, password, code or attempt id that does not parse).
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrIncorrectCredentials hides whether the user was unknown or the secret was wrong.
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrMissingToken         = errors.New("missing token")
	ErrInvalidToken         = errors.New("invalid token")
	// ErrUnexpected marks a collaborator malfunction such as a store I/O failure.
	ErrUnexpected = errors.New("unexpected error")

	// Store-level outcomes. The orchestrator folds these into ErrIncorrectCredentials.
	ErrUserNotFound         = errors.New("user not found")
	ErrCredentialMismatch   = errors.New("credential mismatch")
	ErrLoginAttemptNotFound = errors.New("login attempt not found")
)
