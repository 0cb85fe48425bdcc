package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/apperr"
)

type RouteStatus string

const (
	RoutePlanned    RouteStatus = "PLANNED"
	RouteInProgress RouteStatus = "IN_PROGRESS"
	RouteCompleted  RouteStatus = "COMPLETED"
	RouteCancelled  RouteStatus = "CANCELLED"
)

var routeTransitions = map[RouteStatus][]RouteStatus{
	RoutePlanned:    {RouteInProgress, RouteCancelled},
	RouteInProgress: {RouteCompleted, RouteCancelled},
	RouteCompleted:  {},
	RouteCancelled:  {},
}

func (s RouteStatus) CanTransitionTo(next RouteStatus) bool {
	for _, allowed := range routeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s RouteStatus) IsTerminal() bool {
	return len(routeTransitions[s]) == 0
}

type StopStatus string

const (
	StopPending   StopStatus = "PENDING"
	StopInTransit StopStatus = "IN_TRANSIT"
	StopDelivered StopStatus = "DELIVERED"
	StopFailed    StopStatus = "FAILED"
)

var stopTransitions = map[StopStatus][]StopStatus{
	StopPending:   {StopInTransit},
	StopInTransit: {StopDelivered, StopFailed},
	StopDelivered: {},
	StopFailed:    {},
}

func (s StopStatus) CanTransitionTo(next StopStatus) bool {
	for _, allowed := range stopTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s StopStatus) IsTerminal() bool {
	return s == StopDelivered || s == StopFailed
}

// DeliveryRoute owns an ordered sequence of stops. Its status is derived
// from stop outcomes, never set directly by a client; Version guards the
// read-all-stops-then-write recompute against concurrent completions.
type DeliveryRoute struct {
	ID          uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	RouteNumber string      `json:"routeNumber" gorm:"size:32;uniqueIndex;not null"`
	DriverID    string      `json:"driverId" gorm:"size:64;not null"`
	RouteDate   time.Time   `json:"routeDate" gorm:"not null"`
	Status      RouteStatus `json:"status" gorm:"size:32;not null;index"`
	Version     int64       `json:"version" gorm:"not null;default:0"`
	StartedAt   *time.Time  `json:"startedAt,omitempty"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	Stops       []RouteStop `json:"stops" gorm:"foreignKey:RouteID"`
	CreatedAt   time.Time   `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updatedAt" gorm:"autoUpdateTime"`
}

// RouteStop carries a weak orderId reference. Failed stops are never
// mutated back to life; rescheduling appends a replacement.
type RouteStop struct {
	ID                uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RouteID           uint64     `json:"routeId" gorm:"not null;index"`
	OrderID           uint64     `json:"orderId" gorm:"not null;index"`
	Address           string     `json:"address" gorm:"size:255;not null"`
	PlannedSequence   int        `json:"plannedSequence" gorm:"not null"`
	Status            StopStatus `json:"status" gorm:"size:32;not null"`
	FailureReason     string     `json:"failureReason,omitempty" gorm:"size:255"`
	RescheduledFromID *uint64    `json:"rescheduledFromId,omitempty"`
	InTransitAt       *time.Time `json:"inTransitAt,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

func NewRouteNumber() string {
	return "RT-" + strings.ToUpper(uuid.NewString()[:8])
}

func (r *DeliveryRoute) AllStopsTerminal() bool {
	if len(r.Stops) == 0 {
		return false
	}
	for _, stop := range r.Stops {
		if !stop.Status.IsTerminal() {
			return false
		}
	}
	return true
}

func (r *DeliveryRoute) Transition(next RouteStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return apperr.Validation("illegal route transition %s -> %s", r.Status, next)
	}
	now := time.Now()
	switch next {
	case RouteInProgress:
		if r.StartedAt == nil {
			r.StartedAt = &now
		}
	case RouteCompleted:
		r.CompletedAt = &now
	}
	r.Status = next
	return nil
}

// Advance moves the stop through its machine, stamping timestamps.
func (s *RouteStop) Advance(next StopStatus, failureReason string) error {
	if !s.Status.CanTransitionTo(next) {
		return apperr.Validation("illegal stop transition %s -> %s", s.Status, next)
	}
	now := time.Now()
	switch next {
	case StopInTransit:
		s.InTransitAt = &now
	case StopDelivered:
		s.CompletedAt = &now
	case StopFailed:
		s.CompletedAt = &now
		s.FailureReason = failureReason
	}
	s.Status = next
	return nil
}
