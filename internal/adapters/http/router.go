package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/application"
)

// ReadinessCheck reports whether a backing dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handler is the HTTP adapter for the authentication flows.
type Handler struct {
	service *application.Service
	cookies CookieConfig
	checks  map[string]ReadinessCheck
}

func NewHandler(service *application.Service, cookies CookieConfig, checks map[string]ReadinessCheck) *Handler {
	if cookies.Name == "" {
		cookies.Name = DefaultCookieName
	}
	return &Handler{service: service, cookies: cookies, checks: checks}
}

// RouterOptions carries the optional observability hooks and the browser
// origins allowed to call the API with credentials.
type RouterOptions struct {
	Observer           RequestObserver
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(requestIDMiddleware)
	r.Use(accessMiddleware(opts.Observer))
	r.Use(recoverMiddleware)

	r.Get("/", handler.root)
	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Post("/signup", handler.signup)
	r.Post("/login", handler.login)
	r.Post("/verify-2fa", handler.verifyTwoFactor)
	r.Post("/verify-token", handler.verifyToken)
	r.Post("/logout", handler.logout)

	return r
}
