package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefrontlabs/storefront-backend/pkg/enums"
)

// Order is the durable record of one checkout attempt. It is created in
// pending state before the payment provider is contacted so a provider outage
// still leaves an auditable row, and its status only ever moves forward.
type Order struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ShippingAddress  string            `gorm:"column:shipping_address;not null"`
	BillingAddress   string            `gorm:"column:billing_address;not null"`
	Currency         enums.Currency    `gorm:"column:currency;not null;default:'usd'"`
	TotalMinorUnits  int64             `gorm:"column:total_minor_units;not null;default:0"`
	PaymentSessionID *string           `gorm:"column:payment_session_id;index"`
	PaidAt           *time.Time        `gorm:"column:paid_at"`
	CancelledAt      *time.Time        `gorm:"column:cancelled_at"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
