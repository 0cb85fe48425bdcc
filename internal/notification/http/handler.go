package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fulfillment/internal/apperr"
	"fulfillment/internal/httpx"
	"fulfillment/internal/notification/domain"
	"fulfillment/internal/notification/services"
)

type Handler struct {
	service *services.NotificationService
}

func NewHandler(s *services.NotificationService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/notifications", h.Send)
	r.GET("/notifications", h.List)
	r.GET("/notifications/:id", h.Get)
	r.POST("/notifications/:id/delivered", h.MarkDelivered)
}

func (h *Handler) Send(c *gin.Context) {
	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation("invalid notification payload: %v", err))
		return
	}
	n, err := h.service.Send(c.Request.Context(), services.SendInput{
		Recipient: req.Recipient,
		Channel:   req.Channel,
		Subject:   req.Subject,
		Body:      req.Body,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httpx.Error(c, apperr.Validation("invalid id %q", c.Param("id")))
		return
	}
	n, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// MarkDelivered is the callback for providers that report receipts.
func (h *Handler) MarkDelivered(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httpx.Error(c, apperr.Validation("invalid id %q", c.Param("id")))
		return
	}
	n, err := h.service.MarkDelivered(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) List(c *gin.Context) {
	out, err := h.service.List(c.Request.Context(), domain.Status(c.Query("status")), c.Query("recipient"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
