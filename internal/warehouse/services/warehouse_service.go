package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"fulfillment/internal/apperr"
	"fulfillment/internal/warehouse/domain"
	"fulfillment/internal/warehouse/repository"
)

type CreatePickListItem struct {
	ProductID   uint64
	ProductName string
	Quantity    int64
}

type CreatePickListInput struct {
	OrderID     uint64
	OrderNumber string
	Items       []CreatePickListItem
}

// UpdateItemInput carries one picking outcome. Exactly one of the
// terminal item states results: a full pick, a short pick, or a
// substitution.
type UpdateItemInput struct {
	QuantityPicked      int64
	Status              domain.PickListItemStatus
	SubstituteProductID *uint64
	PickedBy            string
}

type WarehouseService struct {
	repo   repository.PickListRepository
	logger zerolog.Logger
}

func NewWarehouseService(r repository.PickListRepository, logger zerolog.Logger) *WarehouseService {
	return &WarehouseService{repo: r, logger: logger}
}

// CreatePickList derives the warehouse unit of work from a confirmed
// order, copying item quantities.
func (s *WarehouseService) CreatePickList(ctx context.Context, in CreatePickListInput) (*domain.PickList, error) {
	if in.OrderID == 0 {
		return nil, apperr.Validation("orderId is required")
	}
	if len(in.Items) == 0 {
		return nil, apperr.Validation("picklist must contain at least one item")
	}

	items := make([]domain.PickListItem, len(in.Items))
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, apperr.Validation("quantity for product %d must be positive", item.ProductID)
		}
		items[i] = domain.PickListItem{
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			QuantityRequired: item.Quantity,
			Status:           domain.ItemPending,
		}
	}

	pickList := &domain.PickList{
		PickListNumber: domain.NewPickListNumber(),
		OrderID:        in.OrderID,
		OrderNumber:    in.OrderNumber,
		Status:         domain.PickListPending,
		TotalItems:     len(items),
		Items:          items,
	}

	if err := s.repo.Create(ctx, pickList); err != nil {
		return nil, apperr.Transaction(err, "failed to create picklist for order %d", in.OrderID)
	}

	s.logger.Info().
		Str("picklist_number", pickList.PickListNumber).
		Uint64("order_id", in.OrderID).
		Msg("picklist created")
	return pickList, nil
}

func (s *WarehouseService) GetPickList(ctx context.Context, id uint64) (*domain.PickList, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to load picklist %d", id)
	}
	if p == nil {
		return nil, apperr.NotFound("picklist %d not found", id)
	}
	return p, nil
}

func (s *WarehouseService) FindByOrder(ctx context.Context, orderID uint64) ([]domain.PickList, error) {
	out, err := s.repo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to load picklists for order %d", orderID)
	}
	return out, nil
}

func (s *WarehouseService) List(ctx context.Context, status domain.PickListStatus) ([]domain.PickList, error) {
	out, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to list picklists")
	}
	return out, nil
}

// Assign hands the picklist to a picker and starts it.
func (s *WarehouseService) Assign(ctx context.Context, id uint64, assignee string) (*domain.PickList, error) {
	if assignee == "" {
		return nil, apperr.Validation("assignee is required")
	}

	pickList, err := s.GetPickList(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pickList.Transition(domain.PickListInProgress); err != nil {
		return nil, err
	}
	pickList.AssignedTo = assignee

	if err := s.repo.Save(ctx, pickList); err != nil {
		return nil, apperr.Transaction(err, "failed to assign picklist %d", id)
	}
	return pickList, nil
}

// UpdateItem records one item's picking outcome and refreshes progress.
func (s *WarehouseService) UpdateItem(ctx context.Context, pickListID, itemID uint64, in UpdateItemInput) (*domain.PickList, error) {
	pickList, err := s.GetPickList(ctx, pickListID)
	if err != nil {
		return nil, err
	}
	if pickList.Status.IsTerminal() {
		return nil, apperr.Validation("picklist %s is already %s", pickList.PickListNumber, pickList.Status)
	}

	var item *domain.PickListItem
	for i := range pickList.Items {
		if pickList.Items[i].ID == itemID {
			item = &pickList.Items[i]
			break
		}
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found in picklist %d", itemID, pickListID)
	}
	if item.Status.IsTerminal() {
		return nil, apperr.Validation("item %d already resolved as %s", itemID, item.Status)
	}

	if err := applyItemUpdate(item, in); err != nil {
		return nil, err
	}
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, apperr.Transaction(err, "failed to update picklist item %d", itemID)
	}

	pickList.RecomputeProgress()

	// First pick implicitly starts the list.
	if pickList.Status == domain.PickListPending {
		if err := pickList.Transition(domain.PickListInProgress); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Save(ctx, pickList); err != nil {
		return nil, apperr.Transaction(err, "failed to update picklist %d", pickListID)
	}
	return pickList, nil
}

// Complete closes the picklist; legal only when every item is terminal.
func (s *WarehouseService) Complete(ctx context.Context, id uint64) (*domain.PickList, error) {
	return s.transition(ctx, id, domain.PickListCompleted)
}

func (s *WarehouseService) CancelPickList(ctx context.Context, id uint64) (*domain.PickList, error) {
	return s.transition(ctx, id, domain.PickListCancelled)
}

func (s *WarehouseService) transition(ctx context.Context, id uint64, next domain.PickListStatus) (*domain.PickList, error) {
	pickList, err := s.GetPickList(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pickList.Transition(next); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, pickList); err != nil {
		return nil, apperr.Transaction(err, "failed to update picklist %d", id)
	}
	return pickList, nil
}

func applyItemUpdate(item *domain.PickListItem, in UpdateItemInput) error {
	switch in.Status {
	case domain.ItemPicked:
		if in.QuantityPicked < item.QuantityRequired {
			return apperr.Validation("picked %d of %d; use SHORT for partial picks",
				in.QuantityPicked, item.QuantityRequired)
		}
		item.QuantityPicked = item.QuantityRequired
		item.QuantityShort = 0
	case domain.ItemShort:
		if in.QuantityPicked < 0 || in.QuantityPicked >= item.QuantityRequired {
			return apperr.Validation("short pick must record fewer than %d units", item.QuantityRequired)
		}
		item.QuantityPicked = in.QuantityPicked
		item.QuantityShort = item.QuantityRequired - in.QuantityPicked
	case domain.ItemSubstituted:
		if in.SubstituteProductID == nil {
			return apperr.Validation("substitution requires a substitute product")
		}
		item.QuantityPicked = in.QuantityPicked
		item.QuantityShort = 0
		item.SubstituteProductID = in.SubstituteProductID
	default:
		return apperr.Validation("unsupported item status %q", in.Status)
	}

	item.Status = in.Status
	item.PickedBy = in.PickedBy
	now := time.Now()
	item.PickedAt = &now
	return nil
}
