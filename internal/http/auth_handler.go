package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"logitrace-auth/internal/domain"
	"logitrace-auth/internal/service"
)

// Registrar crea cuentas; *service.AccountService lo implementa.
type Registrar interface {
	Register(ctx context.Context, input service.RegisterInput) (service.RegisterResult, error)
}

// LoginVerifier autentica credenciales; *service.LoginService lo implementa.
type LoginVerifier interface {
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
}

// AuthHandler mantiene dependencias para endpoints de autenticacion.
type AuthHandler struct {
	logger         *zap.Logger
	accounts       Registrar
	login          LoginVerifier
	requestTimeout time.Duration
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, accounts Registrar, login LoginVerifier, requestTimeout time.Duration) *AuthHandler {
	if requestTimeout <= 0 {
		requestTimeout = 5 * time.Second
	}
	return &AuthHandler{
		logger:         logger,
		accounts:       accounts,
		login:          login,
		requestTimeout: requestTimeout,
	}
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"required"`
		UserType string `json:"user_type" binding:"omitempty,oneof=driver manager admin shipper"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	userType := domain.UserType(req.UserType)
	if userType == "" {
		userType = domain.UserTypeDriver
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	res, err := h.accounts.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		UserType: userType,
	})
	if err != nil {
		h.respondError(c, "register", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "user registered",
		"user":       res.Account,
		"token":      res.Token.Token,
		"expires_at": res.Token.ExpiresAt,
	})
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	res, err := h.login.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.respondError(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "login successful",
		"user":       res.Identity,
		"token":      res.Token.Token,
		"expires_at": res.Token.ExpiresAt,
	})
}

// Me maneja GET /auth/me; requiere JWTAuthMiddleware.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var expiresAt *time.Time
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.UTC()
		expiresAt = &t
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         claims.UserID,
			"email":      claims.Email,
			"user_type":  claims.UserType,
			"company_id": claims.CompanyID,
		},
		"expires_at": expiresAt,
	})
}

// respondError traduce errores del servicio; la causa solo va al log.
func (h *AuthHandler) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.logger.Warn(op+" rejected input", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	case errors.Is(err, service.ErrTimeout):
		h.logger.Error(op+" timed out", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request timed out"})
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
