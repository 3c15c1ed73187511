package http

import (
	"encoding/json"
	"net/http"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/application"
)

const (
	loginSuccessMessage  = "login successful"
	logoutSuccessMessage = "logged out"
)

// apiError is the body of every non-2xx reply.
type apiError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// twoFactorRequiredResponse is the 206 body of a login that stopped at the
// second factor. Field names follow the public wire format.
type twoFactorRequiredResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	LoginAttemptID string `json:"loginAttemptId"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeStatus answers with a bare status line and no body.
func writeStatus(w http.ResponseWriter, statusCode int) {
	w.WriteHeader(statusCode)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, messageResponse{Status: "success", Message: message})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// writeSessionStarted hands the token to the browser as the session cookie.
// The token never appears in the body.
func writeSessionStarted(w http.ResponseWriter, cookies CookieConfig, token application.IssuedToken) {
	http.SetCookie(w, sessionCookie(cookies, token))
	writeMessage(w, http.StatusOK, loginSuccessMessage)
}

// writeSessionEnded expires the session cookie on the client.
func writeSessionEnded(w http.ResponseWriter, cookies CookieConfig) {
	http.SetCookie(w, expiredSessionCookie(cookies))
	writeMessage(w, http.StatusOK, logoutSuccessMessage)
}

func writeTwoFactorRequired(w http.ResponseWriter, res application.LoginResult) {
	writeJSON(w, http.StatusPartialContent, twoFactorRequiredResponse{
		Status:         "success",
		Message:        res.Message,
		LoginAttemptID: res.LoginAttemptID,
	})
}
