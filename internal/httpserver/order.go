package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mpetrenko/storefront/internal/service"
	"github.com/mpetrenko/storefront/internal/transport"
	"github.com/mpetrenko/storefront/internal/util"
	"github.com/mpetrenko/storefront/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusBadRequest, "body", "invalid body")
	}

	placed, err := h.Svc.PlaceOrder(ctx, userID, req.AddressID, req.PaymentMethod)
	if err != nil {
		l.Warn("place_order_failed", "user_id", userID, "error", err)
		return serviceError(err)
	}

	l.Info("order_placed", "order_id", placed.Order.ID, "total", placed.Order.Total)
	return c.JSON(http.StatusCreated, transport.PlaceOrderResponse{
		OrderID: placed.Order.ID,
		Status:  placed.Order.Status,
		Total:   placed.Order.Total,
		Items:   placed.Items,
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		return apiError(http.StatusBadRequest, "order_id", "invalid order id")
	}

	placed, err := h.Svc.GetOrder(ctx, userID, uint(orderID))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, transport.OrderResponse{
		Order: *placed.Order,
		Items: placed.Items,
	})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	total, orders, err := h.Svc.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("list_orders", "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": util.Meta(page, limit, offset, total),
	})
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		return apiError(http.StatusBadRequest, "order_id", "invalid order id")
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusBadRequest, "body", "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, uint(orderID), req.Status)
	if err != nil {
		l.Warn("update_status_failed", "order_id", orderID, "error", err)
		return serviceError(err)
	}

	l.Info("order_status_updated", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}
