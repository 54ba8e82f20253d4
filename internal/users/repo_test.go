package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/notewell-backend/pkg/db"
	"github.com/angelmondragon/notewell-backend/pkg/db/dbtest"
	"github.com/angelmondragon/notewell-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func TestCreateNormalizesEmailAndEnforcesUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))

	created, err := repo.Create(ctx, CreateIdentityDTO{
		Name:         " Ada ",
		Email:        "  Ada@Example.COM ",
		PasswordHash: strPtr("hash"),
		AuthMethod:   enums.AuthMethodPassword,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, "ada@example.com", created.Email)
	require.Equal(t, "Ada", created.Name)

	found, err := repo.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = repo.Create(ctx, CreateIdentityDTO{Name: "Other", Email: "ada@example.com"})
	require.Error(t, err)
	require.True(t, db.IsUniqueViolation(err, ""), "expected unique violation, got %v", err)
}

func TestProviderIDUniqueButNullable(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))

	_, err := repo.Create(ctx, CreateIdentityDTO{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateIdentityDTO{Name: "B", Email: "b@example.com"})
	require.NoError(t, err, "multiple identities without a provider id must coexist")

	_, err = repo.Create(ctx, CreateIdentityDTO{Name: "C", Email: "c@example.com", IdentityProviderID: strPtr("sub-1")})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateIdentityDTO{Name: "D", Email: "d@example.com", IdentityProviderID: strPtr("sub-1")})
	require.True(t, db.IsUniqueViolation(err, ""))

	found, err := repo.FindByProviderID(ctx, "sub-1")
	require.NoError(t, err)
	require.Equal(t, "c@example.com", found.Email)
}

func TestOTPSetAndConditionalClear(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))

	identity, err := repo.Create(ctx, CreateIdentityDTO{Name: "otp", Email: "otp@example.com", AuthMethod: enums.AuthMethodPassword})
	require.NoError(t, err)

	expiry := time.Now().Add(10 * time.Minute).UTC()
	require.NoError(t, repo.SetOTP(ctx, identity.ID, "123456", expiry))

	stored, err := repo.FindByID(ctx, identity.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OTPCode)
	require.Equal(t, "123456", *stored.OTPCode)
	require.NotNil(t, stored.OTPExpiry)
	require.Equal(t, enums.AuthMethodOTP, stored.AuthMethod)

	cleared, err := repo.ClearOTP(ctx, identity.ID, "000000")
	require.NoError(t, err)
	require.False(t, cleared, "mismatched code must not clear")

	cleared, err = repo.ClearOTP(ctx, identity.ID, "123456")
	require.NoError(t, err)
	require.True(t, cleared)

	cleared, err = repo.ClearOTP(ctx, identity.ID, "123456")
	require.NoError(t, err)
	require.False(t, cleared, "second clear must report the code as already used")

	stored, err = repo.FindByID(ctx, identity.ID)
	require.NoError(t, err)
	require.Nil(t, stored.OTPCode)
	require.Nil(t, stored.OTPExpiry)
}

func TestUpdateProviderProfileKeepsAvatarWhenAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))

	identity, err := repo.Create(ctx, CreateIdentityDTO{
		Name:       "Old",
		Email:      "p@example.com",
		AvatarURL:  strPtr("https://img/old.png"),
		AuthMethod: enums.AuthMethodOTP,
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateProviderProfile(ctx, identity.ID, ProviderProfileUpdate{
		Name:                  "New",
		IdentityProviderID:    "sub-9",
		IdentityProviderEmail: "p@example.com",
	}))

	stored, err := repo.FindByID(ctx, identity.ID)
	require.NoError(t, err)
	require.Equal(t, "New", stored.Name)
	require.Equal(t, "https://img/old.png", *stored.AvatarURL)
	require.Equal(t, "sub-9", *stored.IdentityProviderID)
	require.Equal(t, enums.AuthMethodIdentityProvider, stored.AuthMethod)
}

func TestLookupsReturnRecordNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))

	_, err := repo.FindByEmail(ctx, "missing@example.com")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = repo.UpdateAuthMethod(ctx, uuid.New(), enums.AuthMethodPassword)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestServiceGetHidesCredentials(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	identity, err := repo.Create(ctx, CreateIdentityDTO{Name: "Ada", Email: "ada@example.com", PasswordHash: strPtr("hash")})
	require.NoError(t, err)

	dto, err := svc.Get(ctx, identity.ID.String())
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", dto.Email)

	_, err = svc.Get(ctx, uuid.NewString())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Get(ctx, "not-a-uuid")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
