package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
)

// orderFinalizer is the checkout surface the webhook consumer needs.
type orderFinalizer interface {
	FinalizeBySession(ctx context.Context, sessionID string) error
}

// Service applies provider events to the order ledger. Payment confirmation
// through the webhook is authoritative: it finalizes orders even when the
// buyer never returns to the success URL.
type Service struct {
	checkout orderFinalizer
}

func NewService(checkout orderFinalizer) (*Service, error) {
	if checkout == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout service required")
	}
	return &Service{checkout: checkout}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		if session.ID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "session id missing")
		}
		if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
			// Completed sessions with delayed payment methods settle later
			// via async_payment_succeeded; nothing to do yet.
			return nil
		}
		return s.checkout.FinalizeBySession(ctx, session.ID)
	case stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		if session.ID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "session id missing")
		}
		return s.checkout.FinalizeBySession(ctx, session.ID)
	default:
		return nil
	}
}
