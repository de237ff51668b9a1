package auth

import "github.com/storefrontlabs/storefront-backend/internal/users"

// RegisterRequest contains the payload for creating an account. Admin
// accounts are provisioned out of band; only buyer and seller roles can be
// self-registered.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=buyer seller"`
}

// LoginRequest contains the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the minted access token and the user profile.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
