package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/notewell-backend/internal/users"
	pkgAuth "github.com/angelmondragon/notewell-backend/pkg/auth"
	"github.com/angelmondragon/notewell-backend/pkg/config"
	"github.com/angelmondragon/notewell-backend/pkg/db/models"
	"github.com/angelmondragon/notewell-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"github.com/angelmondragon/notewell-backend/pkg/identityprovider"
	"github.com/angelmondragon/notewell-backend/pkg/logger"
	"github.com/angelmondragon/notewell-backend/pkg/mailer"
	"github.com/angelmondragon/notewell-backend/pkg/metrics"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	RequestOTP(ctx context.Context, req RequestOTPRequest) (*RequestOTPResponse, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*AuthResult, error)
	AuthenticateWithProvider(ctx context.Context, req ProviderLoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
}

type identityRepository interface {
	Create(ctx context.Context, dto users.CreateIdentityDTO) (*models.Identity, error)
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	FindByProviderID(ctx context.Context, providerID string) (*models.Identity, error)
	SetOTP(ctx context.Context, id uuid.UUID, code string, expiry time.Time) error
	ClearOTP(ctx context.Context, id uuid.UUID, code string) (bool, error)
	UpdateAuthMethod(ctx context.Context, id uuid.UUID, method enums.AuthMethod) error
	UpdateProviderProfile(ctx context.Context, id uuid.UUID, update users.ProviderProfileUpdate) error
}

type tokenIssuer interface {
	Mint(identityID string, now time.Time) (string, error)
	Parse(token string) (*pkgAuth.SessionClaims, error)
	TTL() time.Duration
}

type revoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// ServiceParams bundles the dependencies required to build an auth service.
// Revocations, Metrics, Logger and Now are optional.
type ServiceParams struct {
	Identities  identityRepository
	Tokens      tokenIssuer
	Mailer      mailer.Sender
	Provider    identityprovider.ProfileFetcher
	Revocations revoker
	Metrics     *metrics.AuthMetrics
	Logger      *logger.Logger
	App         config.AppConfig
	Password    config.PasswordConfig
	OTP         config.OTPConfig
	Now         func() time.Time
}

type service struct {
	identities  identityRepository
	tokens      tokenIssuer
	mailer      mailer.Sender
	provider    identityprovider.ProfileFetcher
	revocations revoker
	metrics     *metrics.AuthMetrics
	logg        *logger.Logger
	app         config.AppConfig
	passwordCfg config.PasswordConfig
	otpCfg      config.OTPConfig
	now         func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Identities == nil {
		return nil, fmt.Errorf("identity repository is required")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	if params.Provider == nil {
		return nil, fmt.Errorf("identity provider is required")
	}
	if params.OTP.TTL <= 0 {
		params.OTP.TTL = 10 * time.Minute
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		identities:  params.Identities,
		tokens:      params.Tokens,
		mailer:      params.Mailer,
		provider:    params.Provider,
		revocations: params.Revocations,
		metrics:     params.Metrics,
		logg:        params.Logger,
		app:         params.App,
		passwordCfg: params.Password,
		otpCfg:      params.OTP,
		now:         params.Now,
	}, nil
}

// Logout revokes the token's id when a denylist is configured. Without one the
// call only succeeds; stateless tokens stay valid until they expire.
func (s *service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid token")
	}
	if s.revocations == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issue(identity *models.Identity) (*AuthResult, error) {
	now := s.now().UTC()
	token, err := s.tokens.Mint(identity.ID.String(), now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}
	return &AuthResult{
		Identity:  users.FromModel(identity),
		Token:     token,
		ExpiresAt: now.Add(s.tokens.TTL()),
	}, nil
}

func internalErr(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}
