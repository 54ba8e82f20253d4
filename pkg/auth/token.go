package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/notewell-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// TokenService mints and verifies stateless session tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a TokenService.
type Option func(*TokenService)

// WithClock replaces the verification clock.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenService validates the signing configuration and returns a service.
func NewTokenService(jwtCfg config.JWTConfig, ttl time.Duration, opts ...Option) (*TokenService, error) {
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	svc := &TokenService{
		secret: []byte(jwtCfg.Secret),
		issuer: jwtCfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// TTL returns the lifetime applied to minted tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Mint issues a signed token for identityID that expires ttl after now.
func (s *TokenService) Mint(identityID string, now time.Time) (string, error) {
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return "", fmt.Errorf("identity id is required")
	}

	claims := SessionClaims{
		UserID: identityID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// Verify returns the identity id for a valid token. Any failure reports false.
// The authorization middleware calls Parse instead because revocation needs
// the jti claim.
func (s *TokenService) Verify(token string) (string, bool) {
	claims, err := s.Parse(token)
	if err != nil {
		return "", false
	}
	return claims.UserID, true
}

// Parse validates signature, issuer and expiry and returns the typed claims.
func (s *TokenService) Parse(token string) (*SessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", t.Header["alg"])
			}
			return s.secret, nil
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" || (claims.Subject != "" && claims.Subject != claims.UserID) {
		return nil, fmt.Errorf("token subject is missing or inconsistent")
	}
	return claims, nil
}
