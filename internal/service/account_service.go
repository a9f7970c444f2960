package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"logitrace-auth/internal/domain"
	"logitrace-auth/internal/email"
	"logitrace-auth/internal/metrics"
	"logitrace-auth/internal/repository"
)

// Transactor ejecuta fn dentro de una transaccion; db.Transactor lo implementa.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccountService registra cuentas nuevas y emite su primer token.
type AccountService struct {
	logger   *zap.Logger
	accounts repository.AccountRepository
	tx       Transactor
	hasher   PasswordHasher
	tokens   TokenIssuer
	mailer   email.Sender
	metrics  *metrics.Metrics
	now      func() time.Time
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	UserType domain.UserType
}

type RegisterResult struct {
	Account domain.PublicAccount
	Token   domain.SessionToken
}

// NewAccountService crea el servicio; mailer y metrics pueden ser nil.
func NewAccountService(
	logger *zap.Logger,
	accounts repository.AccountRepository,
	tx Transactor,
	hasher PasswordHasher,
	tokens TokenIssuer,
	mailer email.Sender,
	m *metrics.Metrics,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		logger:   logger,
		accounts: accounts,
		tx:       tx,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register crea la cuenta en una transaccion y solo tras el commit firma el token.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	result, err := s.register(ctx, input)
	s.metrics.RecordRegister(registerOutcome(err))
	return result, err
}

func (s *AccountService) register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	emailAddr := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if emailAddr == "" || input.Password == "" || name == "" {
		return RegisterResult{}, ErrInvalidInput
	}
	if !input.UserType.Valid() {
		return RegisterResult{}, fmt.Errorf("%w: unknown user type %q", ErrInvalidInput, input.UserType)
	}

	digest, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		return RegisterResult{}, internalError("hash password", err)
	}

	account := domain.Account{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		PasswordHash: digest,
		Name:         name,
		UserType:     input.UserType,
		CreatedAt:    s.now(),
	}

	err = s.tx.InTransaction(ctx, func(txCtx context.Context) error {
		return s.accounts.Create(txCtx, account)
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) || repository.IsUniqueViolation(err) {
			return RegisterResult{}, ErrEmailTaken
		}
		return RegisterResult{}, internalError("create account", err)
	}

	token, err := s.tokens.Issue(domain.SessionSubject{
		UserID:   account.ID,
		Email:    account.Email,
		UserType: account.UserType,
	})
	if err != nil {
		// La fila ya esta confirmada; el cliente puede hacer login.
		s.logger.Error("sign token after register", zap.String("user_id", account.ID), zap.Error(err))
		return RegisterResult{}, internalError("sign token", err)
	}

	s.sendWelcome(ctx, account)

	return RegisterResult{Account: account.Public(), Token: token}, nil
}

func (s *AccountService) sendWelcome(ctx context.Context, account domain.Account) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendWelcome(ctx, account.Email, account.Name); err != nil {
		s.logger.Warn("welcome email not sent", zap.String("user_id", account.ID), zap.Error(err))
	}
}

func registerOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrEmailTaken):
		return metrics.OutcomeConflict
	case errors.Is(err, ErrInvalidInput):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
