package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/raian-antunes/group-management-platform/internal/domain"
	"github.com/raian-antunes/group-management-platform/internal/service"
)

var tracer = otel.Tracer("auth")

const (
	dashboardPrefix = "/dashboard"
	signInPath      = "/signin"
	signUpPath      = "/signup"

	adminAreaPrefix = "/dashboard/intentions"
	userAreaPrefix  = "/dashboard/user"

	// defaultDashboardPath is where the dashboard root redirects: the
	// lowest-privilege view, readable by both roles.
	defaultDashboardPath = "/dashboard/announcements"
)

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// IdentifySession reads the session cookie, verifies it, and stores the
// requester identity in the request context. It never rejects: routes that
// need a requester check for one themselves.
func (s *AuthMiddleware) IdentifySession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.IdentifySession")
		defer span.End()

		cookie, err := c.Cookie(domain.SessionCookieName)
		if err == nil && cookie.Value != "" {
			result, err := s.auth.VerifySession(ctx, cookie.Value)
			if err == nil {
				ctx = context.WithValue(ctx, domain.RequesterIDCtxKey, result.UserID)
				ctx = context.WithValue(ctx, domain.RequesterRoleCtxKey, result.Role)
				span.SetAttributes(attribute.String("RequesterId", result.UserID))
			} else {
				span.RecordError(err)
			}
		}

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// GuardDashboard gates every request before route logic, in order: auth
// entry paths pass, paths outside the dashboard pass, then session and
// role are checked. A missing or unverifiable session redirects to
// sign-in; invalid is treated exactly like absent. A role requesting the
// opposite role's area gets a bodyless 403.
func (s *AuthMiddleware) GuardDashboard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path

		if strings.HasPrefix(path, signInPath) || strings.HasPrefix(path, signUpPath) {
			return next(c)
		}

		if !strings.HasPrefix(path, dashboardPrefix) {
			return next(c)
		}

		cookie, err := c.Cookie(domain.SessionCookieName)
		if err != nil || cookie.Value == "" {
			return c.Redirect(http.StatusFound, signInPath)
		}

		result, err := s.auth.VerifySession(c.Request().Context(), cookie.Value)
		if err != nil {
			return c.Redirect(http.StatusFound, signInPath)
		}

		if path == dashboardPrefix || path == dashboardPrefix+"/" {
			return c.Redirect(http.StatusFound, defaultDashboardPath)
		}

		if strings.HasPrefix(path, adminAreaPrefix) && result.Role != domain.RoleAdmin {
			return c.NoContent(http.StatusForbidden)
		}
		if strings.HasPrefix(path, userAreaPrefix) && result.Role != domain.RoleUser {
			return c.NoContent(http.StatusForbidden)
		}

		return next(c)
	}
}

// Requester pulls the identity stored by IdentifySession.
func Requester(c echo.Context) (string, domain.Role, bool) {
	ctx := c.Request().Context()
	id, ok := ctx.Value(domain.RequesterIDCtxKey).(string)
	if !ok || id == "" {
		return "", "", false
	}
	role, ok := ctx.Value(domain.RequesterRoleCtxKey).(domain.Role)
	if !ok {
		return "", "", false
	}
	return id, role, true
}
