package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mpetrenko/storefront/internal/service"
	"github.com/mpetrenko/storefront/internal/transport"
	"github.com/mpetrenko/storefront/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusBadRequest, "body", "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		l.Warn("register_failed", "username", req.Username, "error", err)
		return serviceError(err)
	}

	l.Info("user_registered", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusBadRequest, "body", "invalid body")
	}

	result, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		l.Warn("login_failed", "username", req.Username, "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, tokenResponse(result))
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return apiError(http.StatusBadRequest, "refresh_token", "refresh token required")
	}

	result, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		logging.FromContext(ctx).Warn("refresh_failed", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, tokenResponse(result))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return apiError(http.StatusBadRequest, "refresh_token", "refresh token required")
	}

	if err := h.Svc.Logout(ctx, req.RefreshToken); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func tokenResponse(r *service.LoginResult) transport.TokenResponse {
	return transport.TokenResponse{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		AccessExp:    r.AccessExp.Unix(),
		RefreshExp:   r.RefreshExp.Unix(),
		IsAdmin:      r.IsAdmin,
	}
}
