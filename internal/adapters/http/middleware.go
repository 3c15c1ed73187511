package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

const maxRequestIDLength = 128

// RequestObserver receives one observation per served request.
type RequestObserver interface {
	ObserveHTTPRequest(method, route string, statusCode int, elapsed time.Duration)
}

// requestIDMiddleware propagates a caller's X-Request-Id when it is short
// printable ASCII and mints a UUID otherwise, so log lines cannot be forged.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if !validRequestID(reqID) {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

func requestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return s
	}
	return ""
}

// recoverMiddleware turns a handler panic into the UNEXPECTED_ERROR envelope.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			noteOutcome(r.Context(), "http_panic_recovery", domain.ErrUnexpected)
			httpLogger().ErrorContext(r.Context(), "panic recovered",
				"operation", "http_panic_recovery",
				"outcome", "failure",
				"request_id", requestIDFromContext(r.Context()),
				"method", r.Method,
				"panic", rec,
			)
			status, code, msg := mapDomainError(domain.ErrUnexpected)
			writeError(w, status, code, msg)
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(payload []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(payload)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) status() int {
	if r.statusCode == 0 {
		return http.StatusOK
	}
	return r.statusCode
}

// accessMiddleware writes one access log line per request, tagged with the
// auth operation and outcome the handler noted, and feeds the observer. Routes
// are labelled by chi pattern, never by raw path.
func accessMiddleware(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, audit := withAudit(r.Context())
			recorder := &statusRecorder{ResponseWriter: w}
			r = r.WithContext(ctx)
			next.ServeHTTP(recorder, r)

			elapsed := time.Since(start)
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			statusCode := recorder.status()
			if observer != nil {
				observer.ObserveHTTPRequest(r.Method, route, statusCode, elapsed)
			}

			operation := audit.operation
			if operation == "" {
				operation = "http_request"
			}
			outcome := "success"
			if statusCode >= http.StatusBadRequest {
				outcome = "failure"
			}
			fields := []any{
				"operation", operation,
				"outcome", outcome,
				"method", r.Method,
				"route", route,
				"status_code", statusCode,
				"bytes", recorder.bytes,
				"duration_ms", elapsed.Milliseconds(),
				"request_id", requestIDFromContext(r.Context()),
			}
			if audit.authOutcome != "" {
				fields = append(fields, "auth_outcome", audit.authOutcome)
			}
			if statusCode >= http.StatusInternalServerError {
				httpLogger().ErrorContext(r.Context(), "http request completed", fields...)
				return
			}
			httpLogger().InfoContext(r.Context(), "http request completed", fields...)
		})
	}
}
