package application

// DefaultTwoFAEmailSubject is the subject of the message carrying a login code.
const DefaultTwoFAEmailSubject = "2FA Code"

// SignUpMessage is returned on successful registration.
const SignUpMessage = "User created successfully!"

// TwoFARequiredMessage accompanies a login that stopped at the second factor.
const TwoFARequiredMessage = "2FA required"

type Config struct {
	// AllowTwoFACodeReplay keeps the pending entry after a successful
	// verification, so the same attempt id and code can mint more tokens
	// until a newer login supersedes them.
	AllowTwoFACodeReplay bool
	TwoFAEmailSubject    string
}

type SignUpRequest struct {
	Email             string
	Password          string
	RequiresTwoFactor bool
}

type SignUpResponse struct {
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string
	Password string
}

// LoginResult is either a session (Token set) or a pending second factor
// (RequiresTwoFactor set, no token).
type LoginResult struct {
	Token             *IssuedToken
	RequiresTwoFactor bool
	LoginAttemptID    string
	Message           string
}

type VerifyTwoFactorRequest struct {
	Email          string
	LoginAttemptID string
	TwoFACode      string
}

// IssuedToken is the session credential handed to the transport.
type IssuedToken struct {
	Value     string
	Subject   string
	ExpiresIn int64
}

// VerifiedToken describes a token that passed verification.
type VerifiedToken struct {
	Subject   string
	ExpiresIn int64
}
