package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/application"
)

// DefaultCookieName carries the session token.
const DefaultCookieName = "jwt"

var errNoBearerToken = errors.New("missing bearer token")

type CookieConfig struct {
	Name   string
	Domain string
	// Secure should only be off for plain-HTTP local development.
	Secure bool
}

func sessionCookie(cfg CookieConfig, token application.IssuedToken) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    token.Value,
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   int(token.ExpiresIn),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredSessionCookie(cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// tokenFromRequest prefers the session cookie and falls back to an
// Authorization bearer header for non-browser clients.
func tokenFromRequest(r *http.Request, cfg CookieConfig) string {
	if cookie, err := r.Cookie(cfg.Name); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return cookie.Value
	}
	if token, err := bearerTokenFromHeader(r.Header.Get("Authorization")); err == nil {
		return token
	}
	return ""
}

// bearerTokenFromHeader accepts the scheme case-insensitively, as RFC 7235 asks.
func bearerTokenFromHeader(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errNoBearerToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errNoBearerToken
	}
	return token, nil
}
