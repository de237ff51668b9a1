package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/internal/products"
	"github.com/storefrontlabs/storefront-backend/pkg/db"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
)

func newCartTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn := setupCartTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), products.NewRepository(conn))
	require.NoError(t, err)
	return svc, conn
}

func seedCartProduct(t *testing.T, conn *gorm.DB, name, price string) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:        uuid.New(),
		SellerID:  uuid.New(),
		Name:      name,
		UnitPrice: decimal.RequireFromString(price),
		Stock:     10,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestGetCartCreatesEmptyCartOnFirstAccess(t *testing.T) {
	svc, _ := newCartTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	dto, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, dto.CartID)
	assert.Empty(t, dto.Items)
	assert.True(t, dto.Total.IsZero())

	// Second access returns the same cart.
	again, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, dto.CartID, again.CartID)
}

func TestAddItemIncrementsOnRepeatAdd(t *testing.T) {
	svc, conn := newCartTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedCartProduct(t, conn, "Coffee Beans", "12.50")

	_, err := svc.AddItem(ctx, userID, product.ID, 1)
	require.NoError(t, err)

	dto, err := svc.AddItem(ctx, userID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 3, dto.Items[0].Quantity)
	assert.True(t, dto.Items[0].LineTotal.Equal(decimal.RequireFromString("37.50")))
	assert.True(t, dto.Total.Equal(decimal.RequireFromString("37.50")))
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newCartTestService(t)

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAddItemRejectsNonPositiveDelta(t *testing.T) {
	svc, conn := newCartTestService(t)
	product := seedCartProduct(t, conn, "Coffee Beans", "12.50")

	_, err := svc.AddItem(context.Background(), uuid.New(), product.ID, 0)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSetQuantityOverwrites(t *testing.T) {
	svc, conn := newCartTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedCartProduct(t, conn, "Tea Tin", "8.00")

	added, err := svc.AddItem(ctx, userID, product.ID, 5)
	require.NoError(t, err)
	require.Len(t, added.Items, 1)

	dto, err := svc.SetQuantity(ctx, userID, added.Items[0].ID, 2)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 2, dto.Items[0].Quantity)
}

func TestSetQuantityRequiresExistingLine(t *testing.T) {
	svc, _ := newCartTestService(t)

	_, err := svc.SetQuantity(context.Background(), uuid.New(), uuid.New(), 2)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	svc, conn := newCartTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedCartProduct(t, conn, "Mug", "6.00")

	added, err := svc.AddItem(ctx, userID, product.ID, 1)
	require.NoError(t, err)
	require.Len(t, added.Items, 1)
	itemID := added.Items[0].ID

	dto, err := svc.RemoveItem(ctx, userID, itemID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)

	dto, err = svc.RemoveItem(ctx, userID, itemID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
}

func TestCartKeepsInsertionOrderAndTotals(t *testing.T) {
	svc, conn := newCartTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	widget := seedCartProduct(t, conn, "Widget", "9.99")
	gadget := seedCartProduct(t, conn, "Gadget", "5.00")

	_, err := svc.AddItem(ctx, userID, widget.ID, 2)
	require.NoError(t, err)
	dto, err := svc.AddItem(ctx, userID, gadget.ID, 1)
	require.NoError(t, err)

	require.Len(t, dto.Items, 2)
	assert.Equal(t, widget.ID, dto.Items[0].ProductID)
	assert.Equal(t, gadget.ID, dto.Items[1].ProductID)
	assert.True(t, dto.Total.Equal(decimal.RequireFromString("24.98")))
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	svc, conn := newCartTestService(t)
	ctx := context.Background()
	product := seedCartProduct(t, conn, "Mug", "6.00")

	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.AddItem(ctx, alice, product.ID, 3)
	require.NoError(t, err)

	bobCart, err := svc.GetCart(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobCart.Items)
}

func TestClearEmptiesCart(t *testing.T) {
	svc, conn := newCartTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedCartProduct(t, conn, "Mug", "6.00")

	_, err := svc.AddItem(ctx, userID, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, userID))

	dto, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
}
