package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/apperr"
)

type PickListStatus string

const (
	PickListPending    PickListStatus = "PENDING"
	PickListInProgress PickListStatus = "IN_PROGRESS"
	PickListCompleted  PickListStatus = "COMPLETED"
	PickListCancelled  PickListStatus = "CANCELLED"
)

var pickListTransitions = map[PickListStatus][]PickListStatus{
	PickListPending:    {PickListInProgress, PickListCancelled},
	PickListInProgress: {PickListCompleted, PickListCancelled},
	PickListCompleted:  {},
	PickListCancelled:  {},
}

func (s PickListStatus) CanTransitionTo(next PickListStatus) bool {
	for _, allowed := range pickListTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PickListStatus) IsTerminal() bool {
	return len(pickListTransitions[s]) == 0
}

// PickListItemStatus: PENDING is the only non-terminal item state. A
// short or substituted pick is a legitimate terminal outcome.
type PickListItemStatus string

const (
	ItemPending     PickListItemStatus = "PENDING"
	ItemPicked      PickListItemStatus = "PICKED"
	ItemShort       PickListItemStatus = "SHORT"
	ItemSubstituted PickListItemStatus = "SUBSTITUTED"
)

func (s PickListItemStatus) IsTerminal() bool {
	return s == ItemPicked || s == ItemShort || s == ItemSubstituted
}

// PickList is the warehouse unit of work derived from a confirmed order.
// OrderID is a lookup-only back-reference; the order stays owned by the
// order service.
type PickList struct {
	ID                uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	PickListNumber    string         `json:"pickListNumber" gorm:"size:32;uniqueIndex;not null"`
	OrderID           uint64         `json:"orderId" gorm:"not null;index"`
	OrderNumber       string         `json:"orderNumber" gorm:"size:32"`
	Status            PickListStatus `json:"status" gorm:"size:32;not null;index"`
	AssignedTo        string         `json:"assignedTo,omitempty" gorm:"size:64"`
	TotalItems        int            `json:"totalItems" gorm:"not null"`
	PickedItems       int            `json:"pickedItems" gorm:"not null"`
	CompletionPercent int            `json:"completionPercent" gorm:"not null"`
	StartedAt         *time.Time     `json:"startedAt,omitempty"`
	CompletedAt       *time.Time     `json:"completedAt,omitempty"`
	Items             []PickListItem `json:"items" gorm:"foreignKey:PickListID"`
	CreatedAt         time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

type PickListItem struct {
	ID                  uint64             `json:"id" gorm:"primaryKey;autoIncrement"`
	PickListID          uint64             `json:"pickListId" gorm:"not null;index"`
	ProductID           uint64             `json:"productId" gorm:"not null"`
	ProductName         string             `json:"productName" gorm:"size:255"`
	QuantityRequired    int64              `json:"quantityRequired" gorm:"not null"`
	QuantityPicked      int64              `json:"quantityPicked" gorm:"not null"`
	QuantityShort       int64              `json:"quantityShort" gorm:"not null"`
	Status              PickListItemStatus `json:"status" gorm:"size:32;not null"`
	SubstituteProductID *uint64            `json:"substituteProductId,omitempty"`
	PickedBy            string             `json:"pickedBy,omitempty" gorm:"size:64"`
	PickedAt            *time.Time         `json:"pickedAt,omitempty"`
}

func NewPickListNumber() string {
	return "PL-" + strings.ToUpper(uuid.NewString()[:8])
}

// AllItemsTerminal reports whether every item reached a terminal state.
func (p *PickList) AllItemsTerminal() bool {
	for _, item := range p.Items {
		if !item.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// Transition enforces the picklist table. COMPLETED additionally
// requires every item terminal; a short pick completes, an unpicked item
// does not.
func (p *PickList) Transition(next PickListStatus) error {
	if !p.Status.CanTransitionTo(next) {
		return apperr.Validation("illegal picklist transition %s -> %s", p.Status, next)
	}
	if next == PickListCompleted && !p.AllItemsTerminal() {
		return apperr.Validation("picklist %s has unpicked items", p.PickListNumber)
	}

	now := time.Now()
	switch next {
	case PickListInProgress:
		if p.StartedAt == nil {
			p.StartedAt = &now
		}
	case PickListCompleted:
		p.CompletedAt = &now
	}
	p.Status = next
	return nil
}

// RecomputeProgress refreshes the picked counters from item states.
func (p *PickList) RecomputeProgress() {
	done := 0
	for _, item := range p.Items {
		if item.Status.IsTerminal() {
			done++
		}
	}
	p.PickedItems = done
	if p.TotalItems > 0 {
		p.CompletionPercent = done * 100 / p.TotalItems
	}
}
