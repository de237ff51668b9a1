package checkout

import "github.com/google/uuid"

// SubmitInput carries the buyer-entered checkout fields.
type SubmitInput struct {
	ShippingAddress string
	BillingAddress  string
}

// SubmitResult tells the controller where to send the buyer next.
type SubmitResult struct {
	OrderID     uuid.UUID `json:"order_id"`
	SessionID   string    `json:"session_id"`
	RedirectURL string    `json:"redirect_url"`
}

// CallbackResult is returned by the redirect reconcilers.
type CallbackResult struct {
	OrderID uuid.UUID `json:"order_id"`
	Status  string    `json:"status"`
	Notice  string    `json:"notice"`
}
