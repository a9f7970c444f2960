package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"logitrace-auth/internal/metrics"
)

// PasswordHasher hashea y verifica credenciales.
type PasswordHasher interface {
	// Hash devuelve un digest con sal autodescriptivo.
	Hash(ctx context.Context, plaintext string) (string, error)
	// Verify compara en tiempo constante; un digest malformado es simplemente false.
	Verify(plaintext, digest string) bool
}

var ErrInvalidCost = fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)

// BcryptHasher implementa PasswordHasher con bcrypt.
type BcryptHasher struct {
	cost    int
	metrics *metrics.Metrics
}

func NewBcryptHasher(cost int, m *metrics.Metrics) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, ErrInvalidCost
	}
	return &BcryptHasher{cost: cost, metrics: m}, nil
}

// Hash corre bcrypt fuera de la goroutine del request para poder respetar
// el deadline de ctx; si vence, devuelve ErrTimeout.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	type result struct {
		digest []byte
		err    error
	}
	done := make(chan result, 1)
	start := time.Now()
	go func() {
		digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
		done <- result{digest: digest, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	case r := <-done:
		h.metrics.ObserveHash(time.Since(start))
		if r.err != nil {
			return "", fmt.Errorf("bcrypt: %w", r.err)
		}
		return string(r.digest), nil
	}
}

// Verify no distingue mismatch de digest corrupto.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
