package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	"github.com/storefrontlabs/storefront-backend/pkg/pagination"
)

// OrderDTO is the read shape for order history endpoints.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	Status          enums.OrderStatus `json:"status"`
	ShippingAddress string            `json:"shipping_address"`
	BillingAddress  string            `json:"billing_address"`
	Currency        enums.Currency    `json:"currency"`
	TotalMinorUnits int64             `json:"total_minor_units"`
	PaidAt          *time.Time        `json:"paid_at,omitempty"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// OrderListResult is one page of a buyer's order history.
type OrderListResult struct {
	Orders []OrderDTO      `json:"orders"`
	Page   pagination.Page `json:"page"`
}

// ToDTO maps an order model to its read shape.
func ToDTO(m *models.Order) *OrderDTO {
	return &OrderDTO{
		ID:              m.ID,
		Status:          m.Status,
		ShippingAddress: m.ShippingAddress,
		BillingAddress:  m.BillingAddress,
		Currency:        m.Currency,
		TotalMinorUnits: m.TotalMinorUnits,
		PaidAt:          m.PaidAt,
		CancelledAt:     m.CancelledAt,
		CreatedAt:       m.CreatedAt,
	}
}
