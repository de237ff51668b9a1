package checkout

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/internal/cart"
	"github.com/storefrontlabs/storefront-backend/internal/orders"
	"github.com/storefrontlabs/storefront-backend/pkg/config"
	"github.com/storefrontlabs/storefront-backend/pkg/db"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
	"github.com/storefrontlabs/storefront-backend/pkg/logger"
)

// Service orchestrates checkout: it snapshots the cart into a pending order,
// opens a hosted payment session with the provider, and reconciles the
// outcome when the buyer returns or the provider calls back.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*SubmitResult, error)
	OnSuccess(ctx context.Context, userID, orderID uuid.UUID, sessionID string) (*CallbackResult, error)
	OnCancel(ctx context.Context, userID, orderID uuid.UUID) (*CallbackResult, error)
	FinalizeBySession(ctx context.Context, sessionID string) error
}

type service struct {
	cartSvc    cart.Service
	cartRepo   *cart.Repository
	ordersRepo *orders.Repository
	dbClient   *db.Client
	provider   PaymentSessionClient
	cfg        config.StripeConfig
	logg       *logger.Logger
}

// NewService constructs the checkout service.
func NewService(
	cartSvc cart.Service,
	cartRepo *cart.Repository,
	ordersRepo *orders.Repository,
	dbClient *db.Client,
	provider PaymentSessionClient,
	cfg config.StripeConfig,
	logg *logger.Logger,
) (Service, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if provider == nil {
		return nil, fmt.Errorf("payment session client required")
	}
	if strings.TrimSpace(cfg.SuccessURL) == "" || strings.TrimSpace(cfg.CancelURL) == "" {
		return nil, fmt.Errorf("checkout redirect urls required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		cartSvc:    cartSvc,
		cartRepo:   cartRepo,
		ordersRepo: ordersRepo,
		dbClient:   dbClient,
		provider:   provider,
		cfg:        cfg,
		logg:       logg,
	}, nil
}

// Submit converts the buyer's cart into a pending order and opens a payment
// session. The order row is written before the provider is contacted, so a
// provider outage still leaves an auditable pending order and the cart
// untouched.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*SubmitResult, error) {
	if strings.TrimSpace(input.ShippingAddress) == "" || strings.TrimSpace(input.BillingAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping and billing addresses are required")
	}

	cartDTO, err := s.cartSvc.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartDTO.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cannot check out an empty cart")
	}

	currency := enums.Currency(s.cfg.Currency)
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unsupported currency %q", s.cfg.Currency))
	}

	order, err := s.ordersRepo.Create(ctx, &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		BillingAddress:  strings.TrimSpace(input.BillingAddress),
		Currency:        currency,
		TotalMinorUnits: MinorUnits(cartDTO.Total),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating pending order")
	}

	params := &stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:         buildLineItems(cartDTO.Items, string(currency)),
		SuccessURL:        stripe.String(appendQuery(s.cfg.SuccessURL, fmt.Sprintf("order_id=%s&session_id={CHECKOUT_SESSION_ID}", order.ID))),
		CancelURL:         stripe.String(appendQuery(s.cfg.CancelURL, fmt.Sprintf("order_id=%s", order.ID))),
		ClientReferenceID: stripe.String(order.ID.String()),
	}

	session, err := s.provider.CreateSession(ctx, params)
	if err != nil {
		s.logg.Error(ctx, "payment session creation failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating payment session")
	}

	if err := s.ordersRepo.SetPaymentSession(ctx, order.ID, session.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording payment session")
	}

	return &SubmitResult{
		OrderID:     order.ID,
		SessionID:   session.ID,
		RedirectURL: session.URL,
	}, nil
}

// OnSuccess reconciles the buyer's return from a completed payment session.
// The redirect is never trusted on its own: the session is re-fetched from
// the provider and must report a paid status before the order is finalized.
func (s *service) OnSuccess(ctx context.Context, userID, orderID uuid.UUID, sessionID string) (*CallbackResult, error) {
	order, err := s.loadOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == enums.OrderStatusPaid {
		return &CallbackResult{
			OrderID: order.ID,
			Status:  string(order.Status),
			Notice:  "order already processed",
		}, nil
	}
	if order.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order was cancelled")
	}

	if order.PaymentSessionID == nil || *order.PaymentSessionID != sessionID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session does not match order")
	}

	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verifying payment session")
	}
	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment has not completed")
	}

	if err := s.finalizePaidOrder(ctx, order); err != nil {
		return nil, err
	}
	return &CallbackResult{
		OrderID: order.ID,
		Status:  string(enums.OrderStatusPaid),
		Notice:  "payment confirmed",
	}, nil
}

// OnCancel acknowledges the buyer abandoning the hosted payment page. It
// mutates nothing: the cart and the pending order stay as they are so the
// buyer can resume checkout, and the still-open provider session can settle
// later through the webhook.
func (s *service) OnCancel(ctx context.Context, userID, orderID uuid.UUID) (*CallbackResult, error) {
	order, err := s.loadOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == enums.OrderStatusPaid {
		return &CallbackResult{
			OrderID: order.ID,
			Status:  string(order.Status),
			Notice:  "order already processed",
		}, nil
	}

	return &CallbackResult{
		OrderID: order.ID,
		Status:  string(order.Status),
		Notice:  "payment cancelled, your cart is unchanged",
	}, nil
}

// FinalizeBySession finalizes the order tied to a provider session. The
// webhook consumer uses this as the authoritative async path; it is safe to
// call after the redirect already finalized the same order.
func (s *service) FinalizeBySession(ctx context.Context, sessionID string) error {
	order, err := s.ordersRepo.FindByPaymentSessionID(ctx, sessionID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no order for payment session")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order by session")
	}

	if order.Status == enums.OrderStatusPaid {
		return nil
	}
	if order.Status == enums.OrderStatusCancelled {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order was cancelled")
	}
	return s.finalizePaidOrder(ctx, order)
}

// finalizePaidOrder marks the order paid and empties the owning cart in one
// transaction. The status guard makes concurrent finalizers (redirect plus
// webhook) converge on a single transition.
func (s *service) finalizePaidOrder(ctx context.Context, order *models.Order) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.ordersRepo.WithTx(tx)
		txCart := s.cartRepo.WithTx(tx)

		affected, err := txOrders.TransitionStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusPaid, nowUTC())
		if err != nil {
			return err
		}
		if affected == 0 {
			// Another finalizer got here first; nothing left to do.
			return nil
		}

		userCart, err := txCart.FindCartByUserID(ctx, order.UserID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return txCart.ClearItems(ctx, userCart.ID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalizing paid order")
	}

	s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID.String()), "order finalized as paid")
	return nil
}

func (s *service) loadOwnedOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.ordersRepo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func appendQuery(base, query string) string {
	if strings.Contains(base, "?") {
		return base + "&" + query
	}
	return base + "?" + query
}
