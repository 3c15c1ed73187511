package http

// Request bodies use pointer fields so an absent field can be told apart from
// an empty one. Absent fields are a shape error (422); empty or malformed
// values are left to the domain parsers (400).

type signUpBody struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	Requires2FA *bool   `json:"requires2FA"`
}

func (b signUpBody) validate() error {
	return requireFields(field{"email", b.Email != nil}, field{"password", b.Password != nil}, field{"requires2FA", b.Requires2FA != nil})
}

type loginBody struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (b loginBody) validate() error {
	return requireFields(field{"email", b.Email != nil}, field{"password", b.Password != nil})
}

type verifyTwoFactorBody struct {
	Email          *string `json:"email"`
	LoginAttemptID *string `json:"loginAttemptId"`
	TwoFACode      *string `json:"2FACode"`
}

func (b verifyTwoFactorBody) validate() error {
	return requireFields(field{"email", b.Email != nil}, field{"loginAttemptId", b.LoginAttemptID != nil}, field{"2FACode", b.TwoFACode != nil})
}

type verifyTokenBody struct {
	Token *string `json:"token"`
}

func (b verifyTokenBody) validate() error {
	return requireFields(field{"token", b.Token != nil})
}
