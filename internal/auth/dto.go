package auth

import (
	"time"

	"github.com/angelmondragon/notewell-backend/internal/users"
)

// SignupRequest captures the fields needed to create a password identity.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RequestOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"otp" validate:"required"`
}

// ProviderLoginRequest carries an access token issued by the identity provider.
type ProviderLoginRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// AuthResult is produced by every successful sign-in.
type AuthResult struct {
	Identity  *users.IdentityDTO `json:"identity"`
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// RequestOTPResponse acknowledges a sent code. OTP is only populated in development.
type RequestOTPResponse struct {
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
}
