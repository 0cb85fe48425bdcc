package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fulfillment/internal/apperr"
	"fulfillment/internal/httpx"
	"fulfillment/internal/inventory/domain"
	"fulfillment/internal/inventory/services"
)

type Handler struct {
	service *services.InventoryService
}

func NewHandler(s *services.InventoryService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/products", h.CreateProduct)
	r.GET("/products", h.ListProducts)
	r.GET("/products/low-stock", h.ListLowStock)
	r.GET("/products/:id", h.GetProduct)
	r.PATCH("/products/stock/:id", h.AdjustStock)
	r.GET("/products/:id/movements", h.MovementHistory)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation("invalid product payload: %v", err))
		return
	}

	p, err := h.service.CreateProduct(c.Request.Context(), &domain.Product{
		SKU:          req.SKU,
		Name:         req.Name,
		Price:        req.Price,
		Stock:        req.Stock,
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	p, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProducts(c *gin.Context) {
	out, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ListLowStock(c *gin.Context) {
	out, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AdjustStock(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation("invalid adjustment payload: %v", err))
		return
	}

	movement, err := h.service.AdjustStock(c.Request.Context(), id, req.QuantityDelta, req.IdempotencyKey, req.Reason)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, movement)
}

func (h *Handler) MovementHistory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	out, err := h.service.MovementHistory(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid id %q", raw)
	}
	return id, nil
}
