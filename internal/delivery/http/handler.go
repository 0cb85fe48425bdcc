package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fulfillment/internal/apperr"
	"fulfillment/internal/delivery/domain"
	"fulfillment/internal/delivery/services"
	"fulfillment/internal/httpx"
)

type Handler struct {
	service *services.DeliveryService
}

func NewHandler(s *services.DeliveryService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/delivery/routes", h.CreateRoute)
	r.GET("/delivery/routes", h.ListRoutes)
	r.GET("/delivery/routes/:id", h.GetRoute)
	r.POST("/delivery/routes/:id/start", h.StartRoute)
	r.POST("/delivery/routes/:id/cancel", h.CancelRoute)
	r.PATCH("/delivery/stops/:id/status", h.UpdateStopStatus)
	r.POST("/delivery/stops/:id/reschedule", h.RescheduleStop)
}

func (h *Handler) CreateRoute(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation("invalid route payload: %v", err))
		return
	}

	stops := make([]services.CreateStopInput, len(req.Stops))
	for i, stop := range req.Stops {
		stops[i] = services.CreateStopInput{OrderID: stop.OrderID, Address: stop.Address}
	}

	route, err := h.service.CreateRoute(c.Request.Context(), services.CreateRouteInput{
		DriverID:  req.DriverID,
		RouteDate: req.RouteDate,
		Stops:     stops,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, route)
}

func (h *Handler) GetRoute(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	route, err := h.service.GetRoute(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func (h *Handler) ListRoutes(c *gin.Context) {
	out, err := h.service.ListRoutes(c.Request.Context(), domain.RouteStatus(c.Query("status")))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) StartRoute(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	route, err := h.service.StartRoute(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func (h *Handler) CancelRoute(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	route, err := h.service.CancelRoute(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func (h *Handler) UpdateStopStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	var req UpdateStopStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation("invalid stop status payload: %v", err))
		return
	}

	stop, err := h.service.UpdateStopStatus(c.Request.Context(), id, req.Status, req.FailureReason)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stop)
}

func (h *Handler) RescheduleStop(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	stop, err := h.service.RescheduleStop(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, stop)
}

func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid id %q", raw)
	}
	return id, nil
}
