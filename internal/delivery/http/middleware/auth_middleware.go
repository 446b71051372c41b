// Package middleware contains the HTTP middleware of the planner API.
package middleware

import (
	"strings"

	domainErrors "planner/internal/domain/errors"
	"planner/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware guards the planner API behind the shared access gate.
type AuthMiddleware struct {
	accessSvc service.AccessService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(accessSvc service.AccessService) *AuthMiddleware {
	return &AuthMiddleware{accessSvc: accessSvc}
}

// Authenticate validates the session token from the Authorization header.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return domainErrors.ErrAccessTokenInvalid.WithDetails("Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return domainErrors.ErrAccessTokenInvalid.WithDetails("Invalid token format, must be Bearer token")
		}

		if err := m.accessSvc.Validate(tokenString); err != nil {
			return err
		}

		return next(c)
	}
}
