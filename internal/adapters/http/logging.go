package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/application"
)

const serviceName = "auth-service"

// requestAudit is attached to every request by the access middleware. The
// handler fills it in; the access log reads it back after the response.
type requestAudit struct {
	operation   string
	authOutcome string
}

type auditKey struct{}

func withAudit(ctx context.Context) (context.Context, *requestAudit) {
	audit := &requestAudit{}
	return context.WithValue(ctx, auditKey{}, audit), audit
}

func auditFromContext(ctx context.Context) *requestAudit {
	audit, _ := ctx.Value(auditKey{}).(*requestAudit)
	return audit
}

// noteOutcome records which auth operation served the request and how it ended,
// using the same labels as the auth outcome metric.
func noteOutcome(ctx context.Context, operation string, err error) {
	audit := auditFromContext(ctx)
	if audit == nil {
		return
	}
	audit.operation = operation
	audit.authOutcome = authOutcomeLabel(err)
}

func authOutcomeLabel(err error) string {
	if errors.Is(err, errUnprocessable) {
		return "unprocessable"
	}
	return application.OutcomeLabel(err)
}

func httpLogger() *slog.Logger {
	return slog.Default().With(
		"service", serviceName,
		"module", "http",
		"layer", "adapter",
	)
}

// logHTTPOperationError logs a rejected auth request. Credential failures are
// routine and stay at info; only server-side failures are errors.
func logHTTPOperationError(ctx context.Context, operation string, statusCode int, code string, err error) {
	fields := []any{
		"operation", operation,
		"outcome", "failure",
		"auth_outcome", authOutcomeLabel(err),
		"status_code", statusCode,
		"error_code", code,
		"request_id", requestIDFromContext(ctx),
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
	}
	switch {
	case statusCode >= http.StatusInternalServerError:
		httpLogger().ErrorContext(ctx, "auth request failed", fields...)
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusConflict:
		httpLogger().InfoContext(ctx, "auth request rejected", fields...)
	default:
		httpLogger().WarnContext(ctx, "auth request rejected", fields...)
	}
}
