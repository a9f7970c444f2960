package service

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
	ErrInternal           = errors.New("internal error")
	// ErrTimeout siempre satisface tambien errors.Is(err, ErrInternal).
	ErrTimeout = errors.New("operation timed out")
)

// opError marca un fallo operativo: errors.Is(err, ErrInternal) es true y
// la causa queda disponible para logs via Unwrap.
type opError struct {
	op  string
	err error
}

func (e *opError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *opError) Unwrap() error {
	return e.err
}

func (e *opError) Is(target error) bool {
	return target == ErrInternal
}

func internalError(op string, err error) error {
	if !errors.Is(err, ErrTimeout) &&
		(errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) {
		err = fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return &opError{op: op, err: err}
}
