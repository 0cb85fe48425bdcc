package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fulfillment/internal/apperr"
	"fulfillment/internal/httpx"
	"fulfillment/internal/order/domain"
	"fulfillment/internal/order/services"
)

type Handler struct {
	service *services.OrderService
}

func NewHandler(s *services.OrderService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/:id", h.GetOrder)
	r.GET("/orders/number/:orderNumber", h.GetOrderByNumber)
	r.GET("/orders/customer/:customerId", h.ListByCustomer)
	r.PATCH("/orders/:id/status", h.UpdateStatus)
	r.POST("/orders/:id/cancel", h.Cancel)
	r.POST("/orders/:id/payments", h.ProcessPayment)
	r.POST("/orders/:id/refund", h.Refund)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation("invalid order payload: %v", err))
		return
	}

	items := make([]services.CreateOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = services.CreateOrderItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	order, err := h.service.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		CustomerID:    req.CustomerID,
		CustomerEmail: req.CustomerEmail,
		DeliveryType:  domain.DeliveryType(req.DeliveryType),
		Discount:      req.Discount,
		Items:         items,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetOrderByNumber(c *gin.Context) {
	order, err := h.service.GetOrderByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListByCustomer(c *gin.Context) {
	orders, err := h.service.ListByCustomer(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation("invalid status payload: %v", err))
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httpx.Error(c, apperr.Validation("invalid cancel payload: %v", err))
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ProcessPayment(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation("invalid payment payload: %v", err))
		return
	}

	order, err := h.service.ProcessPayment(c.Request.Context(), id, req.Amount, req.Method)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) Refund(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	order, err := h.service.RefundPayment(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid id %q", raw)
	}
	return id, nil
}
