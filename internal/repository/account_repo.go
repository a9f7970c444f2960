package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"logitrace-auth/internal/db"
	"logitrace-auth/internal/domain"
)

var (
	// ErrAccountNotFound no debe llegar al cliente del login.
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
)

// AccountRepository define el contrato de persistencia para cuentas.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	FindByEmail(ctx context.Context, email string) (domain.EnrichedAccount, error)
}

// PgAccountRepository implementa AccountRepository con pgx. Si el context
// trae una transaccion abierta por db.Transactor, la usa.
type PgAccountRepository struct {
	pool db.DBTX
}

func NewPgAccountRepository(pool db.DBTX) *PgAccountRepository {
	return &PgAccountRepository{pool: pool}
}

func (r *PgAccountRepository) Create(ctx context.Context, account domain.Account) error {
	const query = `
		INSERT INTO users (id, email, password_hash, name, user_type, company_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := db.Querier(ctx, r.pool).Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Name,
		string(account.UserType),
		account.CompanyID,
		account.CreatedAt,
	)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (r *PgAccountRepository) FindByEmail(ctx context.Context, email string) (domain.EnrichedAccount, error) {
	const query = `
		SELECT u.id::text, u.email, u.password_hash, u.name, u.user_type, u.created_at,
		       c.id::text, c.name,
		       it.id::text, it.code, it.name_ja
		FROM users u
		LEFT JOIN companies c ON u.company_id = c.id
		LEFT JOIN industry_types it ON c.industry_type_id = it.id
		WHERE lower(u.email) = lower($1)
	`
	var (
		acc          domain.Account
		userType     string
		companyID    pgtype.Text
		companyName  pgtype.Text
		industryID   pgtype.Text
		industryCode pgtype.Text
		industryName pgtype.Text
	)
	err := db.Querier(ctx, r.pool).QueryRow(ctx, query, email).Scan(
		&acc.ID,
		&acc.Email,
		&acc.PasswordHash,
		&acc.Name,
		&userType,
		&acc.CreatedAt,
		&companyID,
		&companyName,
		&industryID,
		&industryCode,
		&industryName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.EnrichedAccount{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.EnrichedAccount{}, fmt.Errorf("find account by email: %w", err)
	}
	acc.UserType = domain.UserType(userType)

	out := domain.EnrichedAccount{Account: acc}
	if companyID.Valid {
		out.Account.CompanyID = &companyID.String
		out.Company = &domain.Company{ID: companyID.String, Name: companyName.String}
		if industryID.Valid {
			out.Company.IndustryTypeID = &industryID.String
			out.Industry = &domain.IndustryType{
				ID:   industryID.String,
				Code: industryCode.String,
				Name: industryName.String,
			}
		}
	}
	return out, nil
}

// translateError convierte la violacion de unicidad en ErrEmailTaken.
func translateError(err error) error {
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %w", ErrEmailTaken, err)
	}
	return fmt.Errorf("insert account: %w", err)
}

// IsUniqueViolation reporta si err es un 23505 de Postgres. Tambien sirve
// para errores de commit con constraints diferidas.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
