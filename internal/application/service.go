package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/ports"
)

const serviceName = "auth-service"

// Service orchestrates sign-up, login, second-factor verification, token
// verification and logout over injected stores. It never holds more than one
// store call in flight per request and never retries.
type Service struct {
	cfg     Config
	users   ports.UserStore
	codes   ports.TwoFACodeStore
	banned  ports.BannedTokenStore
	tokens  ports.TokenIssuer
	email   ports.EmailClient
	metrics ports.OutcomeRecorder
	tracer  trace.Tracer
	nowFn   func() time.Time
}

type Dependencies struct {
	Config       Config
	Users        ports.UserStore
	TwoFACodes   ports.TwoFACodeStore
	BannedTokens ports.BannedTokenStore
	TokenIssuer  ports.TokenIssuer
	EmailClient  ports.EmailClient
	Metrics      ports.OutcomeRecorder
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.TwoFAEmailSubject == "" {
		cfg.TwoFAEmailSubject = DefaultTwoFAEmailSubject
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = ports.NopOutcomeRecorder{}
	}
	return &Service{
		cfg:     cfg,
		users:   deps.Users,
		codes:   deps.TwoFACodes,
		banned:  deps.BannedTokens,
		tokens:  deps.TokenIssuer,
		email:   deps.EmailClient,
		metrics: metrics,
		tracer:  otel.Tracer(serviceName + "/application"),
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

// startOperation opens a span and returns a finisher that records the outcome
// on the span, the outcome counter and, for unexpected failures, the log.
func (s *Service) startOperation(ctx context.Context, operation string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "auth."+operation)
	return ctx, func(err error) {
		outcome := OutcomeLabel(err)
		span.SetAttributes(attribute.String("auth.outcome", outcome))
		if err != nil {
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
		s.metrics.RecordAuthOutcome(operation, outcome)

		if errors.Is(err, domain.ErrUnexpected) {
			slog.Default().ErrorContext(ctx, "auth operation failed",
				"service", serviceName,
				"module", "application",
				"layer", "application",
				"operation", operation,
				"outcome", "failure",
				"error", err,
			)
		}
	}
}

// OutcomeLabel maps an operation error onto the bounded label set used for
// metrics, spans and access logs.
func OutcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrIncorrectCredentials):
		return "incorrect_credentials"
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return "user_already_exists"
	case errors.Is(err, domain.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	default:
		return "unexpected"
	}
}

// unexpected wraps a collaborator failure in domain.ErrUnexpected once.
func unexpected(op string, err error) error {
	if errors.Is(err, domain.ErrUnexpected) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrUnexpected, op, err)
}

func invalidCredentials(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
}
