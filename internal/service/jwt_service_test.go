package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"logitrace-auth/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(testSecret, "logitrace", DefaultSessionTTL)
	if err != nil {
		t.Fatalf("new jwt service: %v", err)
	}
	return svc
}

func TestJWTService_IssueParse(t *testing.T) {
	svc := newTestJWTService(t)
	companyID := "c1"

	tok, err := svc.Issue(domain.SessionSubject{
		UserID:    "u1",
		Email:     "a@x.com",
		UserType:  domain.UserTypeDriver,
		CompanyID: &companyID,
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok.Token == "" {
		t.Fatalf("expected token")
	}

	claims, err := svc.Parse(tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@x.com" || claims.UserType != domain.UserTypeDriver {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.CompanyID == nil || *claims.CompanyID != "c1" {
		t.Fatalf("expected company id c1, got %v", claims.CompanyID)
	}
	if claims.Subject != "u1" || claims.Issuer != "logitrace" {
		t.Fatalf("unexpected registered claims: %+v", claims.RegisteredClaims)
	}
}

func TestJWTService_ExpiresAfter24Hours(t *testing.T) {
	svc := newTestJWTService(t)
	fixed := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	tok, err := svc.Issue(domain.SessionSubject{UserID: "u1", Email: "a@x.com", UserType: domain.UserTypeDriver})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !tok.ExpiresAt.Equal(fixed.Add(24 * time.Hour)) {
		t.Fatalf("expected expiry at +24h, got %v", tok.ExpiresAt)
	}

	svc.now = func() time.Time { return fixed.Add(23 * time.Hour) }
	if _, err := svc.Parse(tok.Token); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}

	svc.now = func() time.Time { return fixed.Add(25 * time.Hour) }
	if _, err := svc.Parse(tok.Token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_OmitsAbsentCompany(t *testing.T) {
	svc := newTestJWTService(t)
	tok, err := svc.Issue(domain.SessionSubject{UserID: "u1", Email: "a@x.com", UserType: domain.UserTypeDriver})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	raw := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok.Token, raw); err != nil {
		t.Fatalf("parse unverified: %v", err)
	}
	if _, ok := raw["companyId"]; ok {
		t.Fatalf("expected no companyId claim, got %v", raw["companyId"])
	}
	if raw["userType"] != "driver" || raw["email"] != "a@x.com" || raw["userId"] != "u1" {
		t.Fatalf("unexpected raw claims: %v", raw)
	}
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc := newTestJWTService(t)
	tok, err := svc.Issue(domain.SessionSubject{UserID: "u1", Email: "a@x.com", UserType: domain.UserTypeDriver})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(tok.Token, ".")
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   "u1",
		Email:    "a@x.com",
		UserType: domain.UserTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "logitrace",
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("another-secret-another-secret-xx"))
	if err != nil {
		t.Fatalf("sign forged: %v", err)
	}
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	if _, err := svc.Parse(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected tampered payload rejected, got %v", err)
	}
	if _, err := svc.Parse(forged); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected foreign signature rejected, got %v", err)
	}
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	svc := newTestJWTService(t)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "logitrace",
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Parse(unsigned); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected none alg rejected, got %v", err)
	}
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	other, err := NewJWTService(testSecret, "someone-else", DefaultSessionTTL)
	if err != nil {
		t.Fatalf("new jwt service: %v", err)
	}
	tok, err := other.Issue(domain.SessionSubject{UserID: "u1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := newTestJWTService(t).Parse(tok.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected wrong issuer rejected, got %v", err)
	}
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	if _, err := NewJWTService("  ", "logitrace", DefaultSessionTTL); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestJWTService_IssueRequiresUserID(t *testing.T) {
	if _, err := newTestJWTService(t).Issue(domain.SessionSubject{Email: "a@x.com"}); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
