package orders

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
	"github.com/storefrontlabs/storefront-backend/pkg/pagination"
)

// Service exposes order history reads and the monotonic status transitions.
// A paid order can never be cancelled and a cancelled order can never be
// paid; re-applying the current terminal status is a no-op.
type Service interface {
	GetForUser(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID) error
	MarkCancelled(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs the orders service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// GetForUser loads one order scoped to its owner.
func (s *service) GetForUser(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return ToDTO(order), nil
}

// ListForUser returns one page of the user's order history.
func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error) {
	rows, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ToDTO(&rows[i]))
	}
	return &OrderListResult{
		Orders: dtos,
		Page:   pagination.PageFor(params, total),
	}, nil
}

// MarkPaid finalizes a pending order. Calling it on an already paid order is
// a no-op so redirect and webhook finalization can race safely.
func (s *service) MarkPaid(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, enums.OrderStatusPaid)
}

// MarkCancelled cancels a pending order.
func (s *service) MarkCancelled(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, enums.OrderStatusCancelled)
}

func (s *service) transition(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) error {
	affected, err := s.repo.TransitionStatus(ctx, orderID, enums.OrderStatusPending, target, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "transitioning order status")
	}
	if affected > 0 {
		return nil
	}

	// Guard did not match: the order is missing or already terminal.
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order.Status == target {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("order is %s and cannot become %s", order.Status, target))
}
