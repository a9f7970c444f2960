package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"logitrace-auth/internal/domain"
	"logitrace-auth/internal/metrics"
	"logitrace-auth/internal/repository"
)

// AccountFinder es la lectura enriquecida que necesita el login.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (domain.EnrichedAccount, error)
}

// LoginService verifica credenciales y emite tokens de sesion.
type LoginService struct {
	logger      *zap.Logger
	accounts    AccountFinder
	hasher      PasswordHasher
	tokens      TokenIssuer
	limiter     LoginRateLimiter
	metrics     *metrics.Metrics
	dummyDigest string
}

type LoginResult struct {
	Token    domain.SessionToken
	Identity domain.Identity
}

// NewLoginService precalcula un digest ficticio con el mismo costo que el
// hasher; se verifica contra el cuando el email no existe.
func NewLoginService(
	ctx context.Context,
	logger *zap.Logger,
	accounts AccountFinder,
	hasher PasswordHasher,
	tokens TokenIssuer,
	limiter LoginRateLimiter,
	m *metrics.Metrics,
) (*LoginService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dummy, err := hasher.Hash(ctx, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("dummy digest: %w", err)
	}
	return &LoginService{
		logger:      logger,
		accounts:    accounts,
		hasher:      hasher,
		tokens:      tokens,
		limiter:     limiter,
		metrics:     m,
		dummyDigest: dummy,
	}, nil
}

// Login devuelve ErrInvalidCredentials tanto para email desconocido como
// para password incorrecto.
func (s *LoginService) Login(ctx context.Context, emailAddr, password string) (LoginResult, error) {
	result, err := s.login(ctx, emailAddr, password)
	s.metrics.RecordLogin(loginOutcome(err))
	return result, err
}

func (s *LoginService) login(ctx context.Context, emailAddr, password string) (LoginResult, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return LoginResult{}, ErrInvalidInput
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, emailAddr) {
		return LoginResult{}, ErrRateLimited
	}

	found, err := s.accounts.FindByEmail(ctx, emailAddr)
	missing := errors.Is(err, repository.ErrAccountNotFound)
	if err != nil && !missing {
		return LoginResult{}, internalError("find account", err)
	}

	digest := found.Account.PasswordHash
	if missing {
		digest = s.dummyDigest
	}
	ok := s.hasher.Verify(password, digest)
	// un deadline vencido no se informa como credenciales invalidas
	if err := ctx.Err(); err != nil {
		return LoginResult{}, internalError("verify password", err)
	}
	if missing || !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.SessionSubject{
		UserID:    found.Account.ID,
		Email:     found.Account.Email,
		UserType:  found.Account.UserType,
		CompanyID: found.CompanyID(),
	})
	if err != nil {
		return LoginResult{}, internalError("sign token", err)
	}

	return LoginResult{Token: token, Identity: found.Identity()}, nil
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrRateLimited):
		return metrics.OutcomeRateLimited
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidInput):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
