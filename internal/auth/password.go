package auth

import (
	"context"
	"strings"

	"github.com/angelmondragon/notewell-backend/internal/users"
	"github.com/angelmondragon/notewell-backend/pkg/db"
	"github.com/angelmondragon/notewell-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"github.com/angelmondragon/notewell-backend/pkg/security"
	"github.com/angelmondragon/notewell-backend/pkg/types"
	"github.com/angelmondragon/notewell-backend/pkg/validation"
)

const (
	invalidCredentialsMessage = "invalid email or password"
	duplicateAccountMessage   = "User already exists"
	metricSignup              = "signup"
)

func (s *service) Signup(ctx context.Context, req SignupRequest) (res *AuthResult, err error) {
	defer func() { s.metrics.Observe(metricSignup, err) }()

	req.Name = strings.TrimSpace(req.Name)
	req.Email = users.NormalizeEmail(req.Email)
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	if len(req.Password) > security.MaxPasswordBytes {
		return nil, validation.Failed("", types.Violations{"password": "must be at most 72 bytes"})
	}

	if _, err := s.identities.FindByEmail(ctx, req.Email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateAccount, duplicateAccountMessage)
	} else if !db.IsNotFound(err) {
		return nil, internalErr(err, "check identity email")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	identity, err := s.identities.Create(ctx, users.CreateIdentityDTO{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &hash,
		AuthMethod:   enums.AuthMethodPassword,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateAccount, err, duplicateAccountMessage)
		}
		return nil, internalErr(err, "create identity")
	}

	return s.issue(identity)
}

// Login fails with the same error whether the email is unknown, the identity
// has no password, or the password does not match.
func (s *service) Login(ctx context.Context, req LoginRequest) (res *AuthResult, err error) {
	defer func() { s.metrics.Observe(string(enums.AuthMethodPassword), err) }()

	req.Email = users.NormalizeEmail(req.Email)
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	identity, err := s.identities.FindByEmail(ctx, req.Email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
		}
		return nil, internalErr(err, "lookup identity")
	}
	if identity.PasswordHash == nil || *identity.PasswordHash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	valid, err := security.VerifyPassword(req.Password, *identity.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	if identity.AuthMethod != enums.AuthMethodPassword {
		if err := s.identities.UpdateAuthMethod(ctx, identity.ID, enums.AuthMethodPassword); err != nil {
			return nil, internalErr(err, "record auth method")
		}
		identity.AuthMethod = enums.AuthMethodPassword
	}

	return s.issue(identity)
}
