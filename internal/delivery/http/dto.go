package http

import (
	"time"

	"fulfillment/internal/delivery/domain"
)

type CreateRouteRequest struct {
	DriverID  string             `json:"driverId" binding:"required"`
	RouteDate time.Time          `json:"routeDate" binding:"required"`
	Stops     []RouteStopRequest `json:"stops" binding:"required,min=1,dive"`
}

type RouteStopRequest struct {
	OrderID uint64 `json:"orderId" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type UpdateStopStatusRequest struct {
	Status        domain.StopStatus `json:"status" binding:"required"`
	FailureReason string            `json:"failureReason"`
}
