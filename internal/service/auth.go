package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/raian-antunes/group-management-platform/internal/config"
	"github.com/raian-antunes/group-management-platform/internal/domain"
)

var tracer = otel.Tracer("auth")

type AuthService struct {
	config config.Session
}

func NewAuthService(config config.Session) *AuthService {
	return &AuthService{config: config}
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthResult struct {
	UserID string
	Role   domain.Role
}

// IssueSession creates a signed stateless session token carrying the user
// id and role.
func (s *AuthService) IssueSession(ctx context.Context, user domain.User) (string, error) {
	_, span := tracer.Start(ctx, "Auth.Service.IssueSession")
	defer span.End()

	now := time.Now()
	claims := sessionClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		span.RecordError(err)
		return "", errors.Wrap(err, "AuthService.IssueSession: signing failed")
	}

	return signed, nil
}

// VerifySession checks signature and expiry and extracts the embedded
// identity. Any failure collapses into a single error so callers treat
// malformed, expired and forged tokens identically.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*AuthResult, error) {
	_, span := tracer.Start(ctx, "Auth.Service.VerifySession")
	defer span.End()

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !parsed.Valid {
		span.RecordError(err)
		return nil, domain.ErrUnauthenticated
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		span.RecordError(fmt.Errorf("session claims incomplete"))
		return nil, domain.ErrUnauthenticated
	}

	return &AuthResult{UserID: claims.Subject, Role: role}, nil
}
