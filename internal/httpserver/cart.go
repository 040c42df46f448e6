package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mpetrenko/storefront/internal/service"
	"github.com/mpetrenko/storefront/internal/transport"
	"github.com/mpetrenko/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.Get(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("get_cart", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusBadRequest, "body", "invalid body")
	}

	item, err := h.Svc.Add(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		l.Warn("add_to_cart_failed", "product_id", req.ProductID, "error", err)
		return serviceError(err)
	}

	l.Info("cart_item_added", "cart_item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil || itemID <= 0 {
		return apiError(http.StatusBadRequest, "cart_item_id", "invalid cart item id")
	}

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusBadRequest, "body", "invalid body")
	}

	if _, err := h.Svc.Update(ctx, userID, uint(itemID), req.Quantity); err != nil {
		l.Warn("update_cart_item_failed", "cart_item_id", itemID, "error", err)
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) RemoveCartItem(c echo.Context) error {
	ctx := c.Request().Context()

	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil || itemID <= 0 {
		return apiError(http.StatusBadRequest, "cart_item_id", "invalid cart item id")
	}

	if err := h.Svc.Remove(ctx, userID, uint(itemID)); err != nil {
		logging.FromContext(ctx).Error("remove_cart_item", "error", err)
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) MergeCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.merge")

	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req transport.MergeCartRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusBadRequest, "body", "invalid body")
	}

	guest := make([]service.MergeItem, len(req.Items))
	for i, it := range req.Items {
		guest[i] = service.MergeItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	merged, err := h.Svc.Merge(ctx, userID, guest)
	if err != nil {
		l.Warn("merge_cart_failed", "error", err)
		return serviceError(err)
	}

	l.Info("cart_merged", "lines", len(merged))
	return c.JSON(http.StatusOK, merged)
}
