package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/storefrontlabs/storefront-backend/internal/checkout"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
)

type stubCheckoutService struct {
	submitInput   checkoutsvc.SubmitInput
	submitResult  *checkoutsvc.SubmitResult
	submitErr     error
	successOrder  uuid.UUID
	successSess   string
	cancelOrder   uuid.UUID
	callbackReply *checkoutsvc.CallbackResult
	callbackErr   error
}

func (s *stubCheckoutService) Submit(ctx context.Context, userID uuid.UUID, input checkoutsvc.SubmitInput) (*checkoutsvc.SubmitResult, error) {
	s.submitInput = input
	return s.submitResult, s.submitErr
}

func (s *stubCheckoutService) OnSuccess(ctx context.Context, userID, orderID uuid.UUID, sessionID string) (*checkoutsvc.CallbackResult, error) {
	s.successOrder = orderID
	s.successSess = sessionID
	return s.callbackReply, s.callbackErr
}

func (s *stubCheckoutService) OnCancel(ctx context.Context, userID, orderID uuid.UUID) (*checkoutsvc.CallbackResult, error) {
	s.cancelOrder = orderID
	return s.callbackReply, s.callbackErr
}

func (s *stubCheckoutService) FinalizeBySession(ctx context.Context, sessionID string) error {
	return nil
}

func TestCheckoutSubmit(t *testing.T) {
	orderID := uuid.New()
	svc := &stubCheckoutService{
		submitResult: &checkoutsvc.SubmitResult{
			OrderID:     orderID,
			SessionID:   "cs_test_123",
			RedirectURL: "https://checkout.stripe.com/pay/cs_test_123",
		},
	}
	handler := Checkout(svc, nil)

	body := []byte(`{"shipping_address":"1 Main St","billing_address":"1 Main St"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/v1/checkout", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.submitInput.ShippingAddress != "1 Main St" {
		t.Fatalf("unexpected shipping address %q", svc.submitInput.ShippingAddress)
	}

	var envelope struct {
		Data checkoutsvc.SubmitResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderID != orderID {
		t.Fatalf("expected order %s, got %s", orderID, envelope.Data.OrderID)
	}
	if envelope.Data.RedirectURL == "" {
		t.Fatalf("expected redirect url in response")
	}
}

func TestCheckoutSubmitRequiresAddresses(t *testing.T) {
	handler := Checkout(&stubCheckoutService{}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/v1/checkout", []byte(`{"shipping_address":"1 Main St"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing billing address, got %d", rec.Code)
	}
}

func TestCheckoutSubmitEmptyCart(t *testing.T) {
	svc := &stubCheckoutService{submitErr: pkgerrors.New(pkgerrors.CodeEmptyCart, "cannot check out an empty cart")}
	handler := Checkout(svc, nil)

	body := []byte(`{"shipping_address":"1 Main St","billing_address":"1 Main St"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/v1/checkout", body))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty cart, got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeEmptyCart) {
		t.Fatalf("expected EMPTY_CART code, got %s", envelope.Error.Code)
	}
	if envelope.Error.Message != "cannot check out an empty cart" {
		t.Fatalf("expected public message, got %q", envelope.Error.Message)
	}
}

func TestCheckoutSuccessCallback(t *testing.T) {
	orderID := uuid.New()
	svc := &stubCheckoutService{
		callbackReply: &checkoutsvc.CallbackResult{OrderID: orderID, Status: "paid"},
	}
	handler := CheckoutSuccess(svc, nil)

	target := "/api/v1/checkout/success?order_id=" + orderID.String() + "&session_id=cs_test_123"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, http.MethodGet, target, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.successOrder != orderID || svc.successSess != "cs_test_123" {
		t.Fatalf("callback not forwarded: order %s session %q", svc.successOrder, svc.successSess)
	}
}

func TestCheckoutSuccessRequiresSessionID(t *testing.T) {
	handler := CheckoutSuccess(&stubCheckoutService{}, nil)

	target := "/api/v1/checkout/success?order_id=" + uuid.NewString()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, http.MethodGet, target, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session_id, got %d", rec.Code)
	}
}

func TestCheckoutCancelCallback(t *testing.T) {
	orderID := uuid.New()
	svc := &stubCheckoutService{
		callbackReply: &checkoutsvc.CallbackResult{OrderID: orderID, Status: "pending", Notice: "payment cancelled, cart kept"},
	}
	handler := CheckoutCancel(svc, nil)

	target := "/api/v1/checkout/cancel?order_id=" + orderID.String()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, http.MethodGet, target, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.cancelOrder != orderID {
		t.Fatalf("expected cancel for %s, got %s", orderID, svc.cancelOrder)
	}
}

func TestCheckoutCancelRejectsBadOrderID(t *testing.T) {
	handler := CheckoutCancel(&stubCheckoutService{}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/v1/checkout/cancel?order_id=garbage", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad order id, got %d", rec.Code)
	}
}
