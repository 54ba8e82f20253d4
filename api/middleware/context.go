package middleware

import (
	"context"

	"github.com/angelmondragon/notewell-backend/internal/users"
)

type contextKey string

const (
	ctxIdentity contextKey = "identity"
	ctxToken    contextKey = "session_token"
)

// IdentityFromContext returns the identity resolved by the Auth gate, or nil.
func IdentityFromContext(ctx context.Context) *users.IdentityDTO {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxIdentity).(*users.IdentityDTO); ok {
		return v
	}
	return nil
}

// TokenFromContext returns the raw session token accepted by the Auth gate.
func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxToken).(string); ok {
		return v
	}
	return ""
}

// WithIdentity injects the authenticated identity into the context.
func WithIdentity(ctx context.Context, identity *users.IdentityDTO) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}

func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxToken, token)
}
