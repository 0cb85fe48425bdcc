package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fulfillment/internal/apperr"
	"fulfillment/internal/httpx"
	"fulfillment/internal/warehouse/domain"
	"fulfillment/internal/warehouse/services"
)

type Handler struct {
	service *services.WarehouseService
}

func NewHandler(s *services.WarehouseService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/warehouse/picklists", h.CreatePickList)
	r.GET("/warehouse/picklists", h.List)
	r.GET("/warehouse/picklists/:id", h.GetPickList)
	r.GET("/warehouse/picklists/order/:orderId", h.FindByOrder)
	r.POST("/warehouse/picklists/:id/assign", h.Assign)
	r.PATCH("/warehouse/picklists/:id/items/:itemId", h.UpdateItem)
	r.POST("/warehouse/picklists/:id/complete", h.Complete)
	r.POST("/warehouse/picklists/:id/cancel", h.Cancel)
}

func (h *Handler) CreatePickList(c *gin.Context) {
	var req CreatePickListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation("invalid picklist payload: %v", err))
		return
	}

	items := make([]services.CreatePickListItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = services.CreatePickListItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		}
	}

	pickList, err := h.service.CreatePickList(c.Request.Context(), services.CreatePickListInput{
		OrderID:     req.OrderID,
		OrderNumber: req.OrderNumber,
		Items:       items,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, pickList)
}

func (h *Handler) GetPickList(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	pickList, err := h.service.GetPickList(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pickList)
}

func (h *Handler) List(c *gin.Context) {
	out, err := h.service.List(c.Request.Context(), domain.PickListStatus(c.Query("status")))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) FindByOrder(c *gin.Context) {
	orderID, err := parseID(c.Param("orderId"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out, err := h.service.FindByOrder(c.Request.Context(), orderID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Assign(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation("invalid assign payload: %v", err))
		return
	}

	pickList, err := h.service.Assign(c.Request.Context(), id, req.AssignedTo)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pickList)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	itemID, err := parseID(c.Param("itemId"))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation("invalid item payload: %v", err))
		return
	}

	pickList, err := h.service.UpdateItem(c.Request.Context(), id, itemID, services.UpdateItemInput{
		QuantityPicked:      req.QuantityPicked,
		Status:              req.Status,
		SubstituteProductID: req.SubstituteProductID,
		PickedBy:            req.PickedBy,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pickList)
}

func (h *Handler) Complete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	pickList, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pickList)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	pickList, err := h.service.CancelPickList(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pickList)
}

func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid id %q", raw)
	}
	return id, nil
}
