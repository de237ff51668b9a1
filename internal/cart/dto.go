package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDTO is one cart line joined with its product snapshot. LineTotal is
// unit_price multiplied by quantity, computed at read time so price changes
// are always reflected.
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartDTO is the full cart view returned to buyers.
type CartDTO struct {
	CartID uuid.UUID       `json:"cart_id"`
	Items  []ItemDTO       `json:"items"`
	Total  decimal.Decimal `json:"total"`
}
