package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/notewell-backend/internal/users"
	"github.com/angelmondragon/notewell-backend/pkg/db"
	"github.com/angelmondragon/notewell-backend/pkg/db/models"
	"github.com/angelmondragon/notewell-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"github.com/angelmondragon/notewell-backend/pkg/identityprovider"
	"github.com/angelmondragon/notewell-backend/pkg/types"
	"github.com/angelmondragon/notewell-backend/pkg/validation"
)

const (
	defaultProviderName     = "Google User"
	providerConflictMessage = "identity provider account is linked to another user"
)

// AuthenticateWithProvider exchanges a provider access token for a profile and
// signs in the matching identity, creating or refreshing it.
func (s *service) AuthenticateWithProvider(ctx context.Context, req ProviderLoginRequest) (res *AuthResult, err error) {
	defer func() { s.metrics.Observe(string(enums.AuthMethodIdentityProvider), err) }()

	req.AccessToken = strings.TrimSpace(req.AccessToken)
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	profile, err := s.provider.FetchProfile(ctx, req.AccessToken)
	if err != nil {
		if errors.Is(err, identityprovider.ErrInvalidToken) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidExternalToken, err, "Invalid Google token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "identity provider request failed")
	}

	if strings.TrimSpace(profile.Subject) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "identity provider profile missing subject")
	}

	email := users.NormalizeEmail(profile.Email)
	if email == "" {
		return nil, validation.Failed("identity provider account missing email scope", types.Violations{"email": "is required"})
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = defaultProviderName
	}
	var avatar *string
	if url := strings.TrimSpace(profile.AvatarURL); url != "" {
		avatar = &url
	}

	identity, err := s.findForProfile(ctx, email, profile.Subject)
	if err != nil {
		return nil, err
	}

	if identity == nil {
		identity, err = s.identities.Create(ctx, users.CreateIdentityDTO{
			Name:                  name,
			Email:                 email,
			IdentityProviderID:    &profile.Subject,
			IdentityProviderEmail: &email,
			AvatarURL:             avatar,
			AuthMethod:            enums.AuthMethodIdentityProvider,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, providerConflictMessage)
			}
			return nil, internalErr(err, "create identity")
		}
		return s.issue(identity)
	}

	other, err := s.identities.FindByProviderID(ctx, profile.Subject)
	switch {
	case err == nil && other.ID != identity.ID:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, providerConflictMessage)
	case err != nil && !db.IsNotFound(err):
		return nil, internalErr(err, "lookup provider link")
	}

	update := users.ProviderProfileUpdate{
		Name:                  name,
		IdentityProviderID:    profile.Subject,
		IdentityProviderEmail: email,
		AvatarURL:             avatar,
	}
	if err := s.identities.UpdateProviderProfile(ctx, identity.ID, update); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, providerConflictMessage)
		}
		return nil, internalErr(err, "refresh provider profile")
	}
	applyProfile(identity, update)

	return s.issue(identity)
}

// findForProfile looks up by email first, then by provider subject. A nil
// identity with a nil error means neither matched.
func (s *service) findForProfile(ctx context.Context, email, subject string) (*models.Identity, error) {
	identity, err := s.identities.FindByEmail(ctx, email)
	if err == nil {
		return identity, nil
	}
	if !db.IsNotFound(err) {
		return nil, internalErr(err, "lookup identity")
	}
	identity, err = s.identities.FindByProviderID(ctx, subject)
	if err == nil {
		return identity, nil
	}
	if !db.IsNotFound(err) {
		return nil, internalErr(err, "lookup identity")
	}
	return nil, nil
}

func applyProfile(identity *models.Identity, update users.ProviderProfileUpdate) {
	identity.Name = update.Name
	identity.IdentityProviderID = &update.IdentityProviderID
	identity.IdentityProviderEmail = &update.IdentityProviderEmail
	if update.AvatarURL != nil {
		identity.AvatarURL = update.AvatarURL
	}
	identity.AuthMethod = enums.AuthMethodIdentityProvider
}
