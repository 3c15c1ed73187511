package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

const maxBodyBytes = 1 << 20

var errUnprocessable = errors.New("unprocessable request")

type validatable interface {
	validate() error
}

type field struct {
	name    string
	present bool
}

func requireFields(fields ...field) error {
	for _, f := range fields {
		if !f.present {
			return fmt.Errorf("missing field %q", f.name)
		}
	}
	return nil
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// decodeRequest decodes a bounded JSON body and checks required fields. Every
// failure wraps errUnprocessable.
func decodeRequest(r *http.Request, dst validatable) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := decodeBody(r, dst); err != nil {
		return fmt.Errorf("%w: %v", errUnprocessable, err)
	}
	if err := dst.validate(); err != nil {
		return fmt.Errorf("%w: %v", errUnprocessable, err)
	}
	return nil
}

func mapDomainError(err error) (int, string, string) {
	switch {
	case errors.Is(err, errUnprocessable):
		return http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", "unprocessable request body"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid credentials"
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusConflict, "USER_ALREADY_EXISTS", "User already exists"
	case errors.Is(err, domain.ErrIncorrectCredentials):
		return http.StatusUnauthorized, "INCORRECT_CREDENTIALS", "Incorrect credentials"
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusBadRequest, "MISSING_TOKEN", "Missing auth token"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_TOKEN", "Invalid auth token"
	default:
		return http.StatusInternalServerError, "UNEXPECTED_ERROR", "Unexpected error"
	}
}

func writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	noteOutcome(ctx, operation, err)
	status, code, msg := mapDomainError(err)
	logHTTPOperationError(ctx, operation, status, code, err)
	writeError(w, status, code, msg)
}

// writeUnprocessable echoes the decode failure so clients can fix the shape.
func writeUnprocessable(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	noteOutcome(ctx, operation, err)
	status, code, _ := mapDomainError(err)
	logHTTPOperationError(ctx, operation, status, code, err)
	writeError(w, status, code, err.Error())
}
