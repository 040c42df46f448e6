package httpserver

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/mpetrenko/storefront/pkg/tokens"
)

func AuthMiddleware(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		SigningKey:    secret,
		ContextKey:    "user",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &tokens.AccessClaims{}
		},
	})
}

func currentUser(c echo.Context) (uint, string, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0, "", apiError(http.StatusUnauthorized, "token", "missing or invalid token")
	}
	claims, ok := token.Claims.(*tokens.AccessClaims)
	if !ok {
		return 0, "", apiError(http.StatusUnauthorized, "token", "invalid token claims")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", apiError(http.StatusUnauthorized, "token", "invalid subject claim")
	}
	return uint(id), claims.Role, nil
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, role, err := currentUser(c)
		if err != nil {
			return err
		}
		if role != "admin" {
			return apiError(http.StatusForbidden, "role", "admin access required")
		}
		return next(c)
	}
}
