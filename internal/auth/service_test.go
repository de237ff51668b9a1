package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/internal/users"
	pkgauth "github.com/storefrontlabs/storefront-backend/pkg/auth"
	"github.com/storefrontlabs/storefront-backend/pkg/config"
	"github.com/storefrontlabs/storefront-backend/pkg/db"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'buyer',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)
	return conn
}

func newAuthTestService(t *testing.T) Service {
	t.Helper()

	conn := setupAuthTestDB(t)
	svc, err := NewService(ServiceParams{
		UserRepo:  users.NewRepository(conn),
		DB:        db.NewWithConn(conn),
		JWTConfig: config.JWTConfig{Secret: "test-secret", Issuer: "storefront", ExpirationMinutes: 30},
		PasswordConfig: config.PasswordConfig{
			ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
		},
	})
	require.NoError(t, err)
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Email:    "Buyer@Example.COM",
		Password: "correct horse battery",
		Name:     "Buyer One",
		Role:     "buyer",
	})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", user.Email)
	assert.Equal(t, enums.RoleBuyer, user.Role)

	resp, err := svc.Login(ctx, LoginRequest{
		Email:    "buyer@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotNil(t, resp.User.LastLoginAt)

	claims, err := pkgauth.ParseAccessToken(
		config.JWTConfig{Secret: "test-secret", Issuer: "storefront", ExpirationMinutes: 30},
		resp.AccessToken,
	)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.RoleBuyer, claims.Role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthTestService(t)
	ctx := context.Background()

	req := RegisterRequest{
		Email:    "seller@example.com",
		Password: "password123",
		Name:     "Seller",
		Role:     "seller",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := newAuthTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "admin@example.com",
		Password: "password123",
		Name:     "Admin",
		Role:     "admin",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newAuthTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Email:    "buyer@example.com",
		Password: "password123",
		Name:     "Buyer",
		Role:     "buyer",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "wrong"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newAuthTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}
