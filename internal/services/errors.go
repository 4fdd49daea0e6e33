package services

import (
	"errors"
	"fmt"
	"strings"

	"teslo/internal/repositories"

	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveUser is returned when a token belongs to a disabled account.
	ErrInactiveUser = errors.New("user is inactive")
	// ErrInvalidToken is returned for a token that fails verification.
	ErrInvalidToken = errors.New("invalid token")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed or missing client input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DuplicateError reports a unique constraint violation.
type DuplicateError struct {
	Detail string
}

func (e *DuplicateError) Error() string {
	return e.Detail
}

// NotFoundError reports a lookup key that resolved to nothing.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s not found", e.Resource, e.Key)
}

// InternalError hides a persistence failure from callers. Unwrap exposes the
// cause for logging.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return "internal server error"
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// classifyStoreError turns a store failure into a DuplicateError or an
// InternalError. Internal errors are logged with their cause.
func classifyStoreError(logger *zap.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if detail, ok := repositories.UniqueViolation(err); ok {
		logger.Info("unique constraint violated", zap.String("op", op), zap.String("detail", detail))
		return &DuplicateError{Detail: detail}
	}
	logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return &InternalError{Op: op, Err: err}
}
