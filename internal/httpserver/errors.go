package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mpetrenko/storefront/internal/service"
	"github.com/mpetrenko/storefront/pkg/logging"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorEnvelope struct {
	Status int          `json:"status"`
	Errors []FieldError `json:"errors"`
}

func apiError(status int, field, message string) *echo.HTTPError {
	return echo.NewHTTPError(status, ErrorEnvelope{
		Status: status,
		Errors: []FieldError{{Field: field, Message: message}},
	})
}

// serviceError translates the service error taxonomy into the HTTP
// envelope; this is the only place the mapping lives.
func serviceError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		return apiError(http.StatusBadRequest, "quantity", err.Error())
	case errors.Is(err, service.ErrEmptyCart):
		return apiError(http.StatusBadRequest, "cart", err.Error())
	case errors.Is(err, service.ErrValidation):
		return apiError(http.StatusBadRequest, "body", err.Error())
	case errors.Is(err, service.ErrItemNotFound):
		return apiError(http.StatusNotFound, "cart_item_id", err.Error())
	case errors.Is(err, service.ErrProductNotFound):
		return apiError(http.StatusNotFound, "product_id", err.Error())
	case errors.Is(err, service.ErrOrderNotFound):
		return apiError(http.StatusNotFound, "order_id", err.Error())
	case errors.Is(err, service.ErrProductUnavailable):
		return apiError(http.StatusConflict, "product_id", err.Error())
	case errors.Is(err, service.ErrConflict):
		return apiError(http.StatusConflict, "body", err.Error())
	case errors.Is(err, service.ErrPaymentFailed):
		return apiError(http.StatusPaymentRequired, "payment_method", err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return apiError(http.StatusUnauthorized, "credentials", err.Error())
	default:
		return apiError(http.StatusInternalServerError, "", "internal error")
	}
}

// ErrorHandler renders every error, including ones raised by echo itself
// and the JWT middleware, as the single envelope shape.
func ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		envelope := ErrorEnvelope{
			Status: status,
			Errors: []FieldError{{Message: "internal error"}},
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if env, ok := he.Message.(ErrorEnvelope); ok {
				envelope = env
			} else {
				envelope = ErrorEnvelope{
					Status: status,
					Errors: []FieldError{{Message: messageOf(he)}},
				}
			}
		}

		if status >= http.StatusInternalServerError {
			logging.FromContext(c.Request().Context()).
				Error("request failed", "status", status, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, envelope)
	}
}

func messageOf(he *echo.HTTPError) string {
	if s, ok := he.Message.(string); ok {
		return s
	}
	return http.StatusText(he.Code)
}
