package http

import "fulfillment/internal/warehouse/domain"

type CreatePickListRequest struct {
	OrderID     uint64                  `json:"orderId" binding:"required"`
	OrderNumber string                  `json:"orderNumber"`
	Items       []PickListItemRequest   `json:"items" binding:"required,min=1,dive"`
}

type PickListItemRequest struct {
	ProductID   uint64 `json:"productId" binding:"required"`
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity" binding:"required,min=1"`
}

type AssignRequest struct {
	AssignedTo string `json:"assignedTo" binding:"required"`
}

type UpdateItemRequest struct {
	QuantityPicked      int64                     `json:"quantityPicked"`
	Status              domain.PickListItemStatus `json:"status" binding:"required"`
	SubstituteProductID *uint64                   `json:"substituteProductId"`
	PickedBy            string                    `json:"pickedBy"`
}
