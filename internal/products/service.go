package products

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
	"github.com/storefrontlabs/storefront-backend/pkg/pagination"
)

// Service exposes catalog browse and seller listing management operations.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	CreateProduct(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, productID uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// GetProduct returns a single listing.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return toDTO(product), nil
}

// ListProducts returns one page of the catalog.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	rows, total, err := s.repo.List(ctx, input.Query, input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *toDTO(&rows[i]))
	}
	return &ProductListResult{
		Products: dtos,
		Page:     pagination.PageFor(input.Pagination, total),
	}, nil
}

// CreateProduct creates a listing owned by the acting seller.
func (s *service) CreateProduct(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, input CreateProductInput) (*ProductDTO, error) {
	if !actorRole.CanManageCatalog() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "catalog management requires seller or admin role")
	}
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validatePrice(input.UnitPrice); err != nil {
		return nil, err
	}
	if err := validateStock(input.Stock); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New(),
		SellerID:    actorID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		UnitPrice:   input.UnitPrice,
		Stock:       input.Stock,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return toDTO(created), nil
}

// UpdateProduct applies a partial update to an owned listing. Admins may
// update any listing.
func (s *service) UpdateProduct(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, actorID, actorRole, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := validateName(*input.Name); err != nil {
			return nil, err
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.UnitPrice != nil {
		if err := validatePrice(*input.UnitPrice); err != nil {
			return nil, err
		}
		product.UnitPrice = *input.UnitPrice
	}
	if input.Stock != nil {
		if err := validateStock(*input.Stock); err != nil {
			return nil, err
		}
		product.Stock = *input.Stock
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return toDTO(updated), nil
}

// DeleteProduct removes an owned listing. Admins may delete any listing.
func (s *service) DeleteProduct(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actorID, actorRole, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, productID uuid.UUID) (*models.Product, error) {
	if !actorRole.CanManageCatalog() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "catalog management requires seller or admin role")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if actorRole != enums.RoleAdmin && product.SellerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another seller")
	}
	return product, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit_price cannot be negative")
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}
