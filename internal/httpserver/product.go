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

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return apiError(http.StatusBadRequest, "product_id", "invalid product id")
	}

	prod, err := h.Svc.GetProduct(ctx, uint(id))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	total, items, err := h.Svc.GetProducts(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("list_products", "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.Meta(page, limit, offset, total),
	})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusBadRequest, "body", "invalid body")
	}

	prod, err := h.Svc.CreateProduct(ctx, service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		l.Warn("create_product_failed", "error", err)
		return serviceError(err)
	}

	l.Info("product_created", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return apiError(http.StatusBadRequest, "product_id", "invalid product id")
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusBadRequest, "body", "invalid body")
	}

	prod, err := h.Svc.PatchProduct(ctx, uint(id), service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		l.Warn("patch_product_failed", "product_id", id, "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return apiError(http.StatusBadRequest, "product_id", "invalid product id")
	}

	if err := h.Svc.DeleteProduct(ctx, uint(id)); err != nil {
		l.Warn("delete_product_failed", "product_id", id, "error", err)
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
