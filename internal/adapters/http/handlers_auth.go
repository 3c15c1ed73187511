package http

import (
	"net/http"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/application"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	const op = "signup"
	var body signUpBody
	if err := decodeRequest(r, &body); err != nil {
		writeUnprocessable(r.Context(), w, op, err)
		return
	}

	res, err := h.service.SignUp(r.Context(), application.SignUpRequest{
		Email:             *body.Email,
		Password:          *body.Password,
		RequiresTwoFactor: *body.Requires2FA,
	})
	if err != nil {
		writeMappedError(r.Context(), w, op, err)
		return
	}
	noteOutcome(r.Context(), op, nil)
	writeMessage(w, http.StatusCreated, res.Message)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	const op = "login"
	var body loginBody
	if err := decodeRequest(r, &body); err != nil {
		writeUnprocessable(r.Context(), w, op, err)
		return
	}

	res, err := h.service.Login(r.Context(), application.LoginRequest{
		Email:    *body.Email,
		Password: *body.Password,
	})
	if err != nil {
		writeMappedError(r.Context(), w, op, err)
		return
	}
	noteOutcome(r.Context(), op, nil)

	if res.RequiresTwoFactor {
		writeTwoFactorRequired(w, res)
		return
	}
	writeSessionStarted(w, h.cookies, *res.Token)
}

func (h *Handler) verifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	const op = "verify_2fa"
	var body verifyTwoFactorBody
	if err := decodeRequest(r, &body); err != nil {
		writeUnprocessable(r.Context(), w, op, err)
		return
	}

	token, err := h.service.VerifyTwoFactor(r.Context(), application.VerifyTwoFactorRequest{
		Email:          *body.Email,
		LoginAttemptID: *body.LoginAttemptID,
		TwoFACode:      *body.TwoFACode,
	})
	if err != nil {
		writeMappedError(r.Context(), w, op, err)
		return
	}
	noteOutcome(r.Context(), op, nil)
	writeSessionStarted(w, h.cookies, token)
}

// verifyToken answers 200 with an empty body. The subject stays internal; the
// gRPC verifier is the place to ask for it.
func (h *Handler) verifyToken(w http.ResponseWriter, r *http.Request) {
	const op = "verify_token"
	var body verifyTokenBody
	if err := decodeRequest(r, &body); err != nil {
		writeUnprocessable(r.Context(), w, op, err)
		return
	}

	if _, err := h.service.VerifyToken(r.Context(), *body.Token); err != nil {
		writeMappedError(r.Context(), w, op, err)
		return
	}
	noteOutcome(r.Context(), op, nil)
	writeStatus(w, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	const op = "logout"
	if err := h.service.Logout(r.Context(), tokenFromRequest(r, h.cookies)); err != nil {
		writeMappedError(r.Context(), w, op, err)
		return
	}
	noteOutcome(r.Context(), op, nil)
	writeSessionEnded(w, h.cookies)
}
