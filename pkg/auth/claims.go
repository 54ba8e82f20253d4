package auth

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload carried by every session token.
// The identity id travels in both user_id and the registered subject.
type SessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
