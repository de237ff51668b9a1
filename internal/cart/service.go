package cart

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/db"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
)

// Service exposes the per-user cart operations. Every operation addresses the
// cart through the owning user, never by cart ID, so one buyer can never
// mutate another buyer's cart.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, delta int) (*CartDTO, error)
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	products productReader
}

// NewService constructs the cart service.
func NewService(repo *Repository, dbClient *db.Client, products productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, dbClient: dbClient, products: products}, nil
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildDTO(ctx, cart)
}

// AddItem increments the product's quantity by delta, inserting the line on
// first add.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, delta int) (*CartDTO, error) {
	if delta < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if err := s.ensureProductExists(ctx, productID); err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		item, err := txRepo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				_, createErr := txRepo.CreateItem(ctx, &models.CartItem{
					ID:        uuid.New(),
					CartID:    cart.ID,
					ProductID: productID,
					Quantity:  delta,
				})
				return createErr
			}
			return err
		}
		return txRepo.UpdateItemQuantity(ctx, item.ID, item.Quantity+delta)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart item")
	}

	return s.buildDTO(ctx, cart)
}

// SetQuantity overwrites the line's quantity. The line must already be in the
// user's cart.
func (s *service) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindItemByID(ctx, cart.ID, itemID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}

	if err := s.repo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item quantity")
	}
	return s.buildDTO(ctx, cart)
}

// RemoveItem drops the line. Removing an absent line is a no-op.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	return s.buildDTO(ctx, cart)
}

// Clear removes every line from the user's cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.ClearItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	return nil
}

func (s *service) getOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	created, createErr := s.repo.CreateCart(ctx, &models.Cart{ID: uuid.New(), UserID: userID})
	if createErr == nil {
		return created, nil
	}

	// Lost the insert race: another request created the cart first.
	if pkgerrors.IsUniqueViolation(createErr) {
		cart, err = s.repo.FindCartByUserID(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading cart after insert race")
		}
		return cart, nil
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating cart")
}

func (s *service) ensureProductExists(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return nil
}

func (s *service) buildDTO(ctx context.Context, cart *models.Cart) (*CartDTO, error) {
	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart items")
	}

	dto := &CartDTO{
		CartID: cart.ID,
		Items:  make([]ItemDTO, 0, len(items)),
		Total:  decimal.Zero,
	}
	if len(items) == 0 {
		return dto, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	productRows, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(productRows))
	for i := range productRows {
		byID[productRows[i].ID] = &productRows[i]
	}

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			// Product deleted since it was added; the FK cascade removes the
			// line in Postgres, so just skip it here.
			continue
		}
		lineTotal := product.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		dto.Items = append(dto.Items, ItemDTO{
			ID:        item.ID,
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		dto.Total = dto.Total.Add(lineTotal)
	}
	return dto, nil
}
