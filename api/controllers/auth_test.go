package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/storefrontlabs/storefront-backend/internal/auth"
	"github.com/storefrontlabs/storefront-backend/internal/users"
	"github.com/storefrontlabs/storefront-backend/pkg/config"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
)

type stubAuthService struct {
	registered authsvc.RegisterRequest
	user       *users.UserDTO
	login      *authsvc.LoginResponse
	err        error
}

func (s *stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*users.UserDTO, error) {
	s.registered = req
	return s.user, s.err
}

func (s *stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return s.login, s.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-1234",
		ExpirationMinutes: 60,
		CookieName:        "storefront_jwt",
	}
}

func jsonRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthRegister(t *testing.T) {
	svc := &stubAuthService{
		user: &users.UserDTO{ID: uuid.New(), Email: "buyer@example.com", Name: "Buyer", Role: enums.RoleBuyer},
	}
	handler := AuthRegister(svc, nil)

	body := []byte(`{"email":"buyer@example.com","password":"hunter2hunter2","name":"Buyer","role":"buyer"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/register", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.registered.Role != "buyer" {
		t.Fatalf("expected buyer role forwarded, got %q", svc.registered.Role)
	}
}

func TestAuthRegisterRejectsAdminRole(t *testing.T) {
	handler := AuthRegister(&stubAuthService{}, nil)

	body := []byte(`{"email":"a@example.com","password":"hunter2hunter2","name":"A","role":"admin"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/register", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for admin self-registration, got %d", rec.Code)
	}
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	handler := AuthRegister(&stubAuthService{}, nil)

	body := []byte(`{"email":"a@example.com","password":"short","name":"A","role":"buyer"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/register", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", rec.Code)
	}
}

func TestAuthLoginSetsCookie(t *testing.T) {
	svc := &stubAuthService{
		login: &authsvc.LoginResponse{
			AccessToken: "token-123",
			User:        &users.UserDTO{ID: uuid.New(), Email: "buyer@example.com", Role: enums.RoleBuyer},
		},
	}
	handler := AuthLogin(svc, testJWTConfig(), nil)

	body := []byte(`{"email":"buyer@example.com","password":"hunter2hunter2"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/login", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data authsvc.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "token-123" {
		t.Fatalf("expected access token in body, got %q", envelope.Data.AccessToken)
	}

	cookie := findCookie(rec.Result().Cookies(), "storefront_jwt")
	if cookie == nil {
		t.Fatalf("expected session cookie to be set")
	}
	if cookie.Value != "token-123" {
		t.Fatalf("expected cookie to mirror token, got %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatalf("expected HttpOnly cookie")
	}
	if cookie.MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("expected cookie max-age %d, got %d", int(time.Hour.Seconds()), cookie.MaxAge)
	}
}

func TestAuthLoginBadCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, testJWTConfig(), nil)

	body := []byte(`{"email":"buyer@example.com","password":"wrong-password"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/login", body))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if cookie := findCookie(rec.Result().Cookies(), "storefront_jwt"); cookie != nil {
		t.Fatalf("no cookie should be set on failed login")
	}
}

func TestAuthLogoutClearsCookie(t *testing.T) {
	handler := AuthLogout(testJWTConfig(), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookie := findCookie(rec.Result().Cookies(), "storefront_jwt")
	if cookie == nil {
		t.Fatalf("expected clearing cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("expected expired empty cookie, got value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
