package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"logitrace-auth/internal/domain"
)

// DefaultSessionTTL es la vigencia de un token de sesion.
const DefaultSessionTTL = 24 * time.Hour

// TokenIssuer emite tokens de sesion firmados.
type TokenIssuer interface {
	Issue(subject domain.SessionSubject) (domain.SessionToken, error)
}

// JWTService emite y valida tokens JWT HS256.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type Claims struct {
	UserID    string          `json:"userId"`
	Email     string          `json:"email"`
	UserType  domain.UserType `json:"userType"`
	CompanyID *string         `json:"companyId,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrMissingSecret = errors.New("jwt secret not configured")
	ErrTokenInvalid  = errors.New("jwt invalid")
	ErrTokenExpired  = errors.New("jwt expired")
)

// NewJWTService no acepta un secreto vacio: no existe secreto por defecto.
func NewJWTService(secret, issuer string, ttl time.Duration) (*JWTService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "logitrace"
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *JWTService) Issue(subject domain.SessionSubject) (domain.SessionToken, error) {
	if strings.TrimSpace(subject.UserID) == "" {
		return domain.SessionToken{}, ErrTokenInvalid
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		UserID:    subject.UserID,
		Email:     subject.Email,
		UserType:  subject.UserType,
		CompanyID: subject.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return domain.SessionToken{}, err
	}
	return domain.SessionToken{Token: signed, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

// Parse verifica firma, algoritmo, emisor y expiracion.
func (s *JWTService) Parse(tokenString string) (Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenInvalid
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.UserID) == "" || claims.Subject != claims.UserID {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}
