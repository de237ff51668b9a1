package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
)

func newOrdersTestService(t *testing.T) (Service, *Repository) {
	t.Helper()

	repo := NewRepository(setupOrdersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	svc, repo := newOrdersTestService(t)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending)

	require.NoError(t, svc.MarkPaid(ctx, order.ID))
	require.NoError(t, svc.MarkPaid(ctx, order.ID))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, found.Status)
}

func TestMarkCancelledRejectsPaidOrder(t *testing.T) {
	svc, repo := newOrdersTestService(t)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending)
	require.NoError(t, svc.MarkPaid(ctx, order.ID))

	err := svc.MarkCancelled(ctx, order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestMarkPaidRejectsCancelledOrder(t *testing.T) {
	svc, repo := newOrdersTestService(t)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending)
	require.NoError(t, svc.MarkCancelled(ctx, order.ID))

	err := svc.MarkPaid(ctx, order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestTransitionUnknownOrder(t *testing.T) {
	svc, _ := newOrdersTestService(t)

	err := svc.MarkPaid(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetForUserHidesForeignOrders(t *testing.T) {
	svc, repo := newOrdersTestService(t)
	ctx := context.Background()

	owner := uuid.New()
	order := seedOrder(t, repo, owner, enums.OrderStatusPending)

	dto, err := svc.GetForUser(ctx, order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, order.ID, dto.ID)

	_, err = svc.GetForUser(ctx, order.ID, uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
