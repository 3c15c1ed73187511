package domain

// User is the registered identity owned by the user store, keyed by Email.
// It is immutable after sign-up.
type User struct {
	Email             Email
	Password          Password
	RequiresTwoFactor bool
}

func NewUser(email Email, password Password, requiresTwoFactor bool) User {
	return User{
		Email:             email,
		Password:          password,
		RequiresTwoFactor: requiresTwoFactor,
	}
}
