package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the per-user mutable collection of desired purchase quantities.
// The unique index on user_id guarantees at most one cart per user; the cart
// itself is created lazily and never deleted, only its items are.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
