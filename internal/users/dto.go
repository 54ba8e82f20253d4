package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/notewell-backend/pkg/db/models"
	"github.com/angelmondragon/notewell-backend/pkg/enums"
)

// IdentityDTO is the transport shape that omits credentials and pending codes.
type IdentityDTO struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	AvatarURL  *string          `json:"avatar_url,omitempty"`
	AuthMethod enums.AuthMethod `json:"auth_method"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// CreateIdentityDTO holds the data required by the repo to persist a new identity.
type CreateIdentityDTO struct {
	Name                  string
	Email                 string
	PasswordHash          *string
	OTPCode               *string
	OTPExpiry             *time.Time
	IdentityProviderID    *string
	IdentityProviderEmail *string
	AvatarURL             *string
	AuthMethod            enums.AuthMethod
}

// ProviderProfileUpdate carries the fields refreshed on every identity-provider login.
// A nil AvatarURL keeps the stored avatar.
type ProviderProfileUpdate struct {
	Name                  string
	IdentityProviderID    string
	IdentityProviderEmail string
	AvatarURL             *string
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func FromModel(u *models.Identity) *IdentityDTO {
	if u == nil {
		return nil
	}

	return &IdentityDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		AvatarURL:  u.AvatarURL,
		AuthMethod: u.AuthMethod,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (c CreateIdentityDTO) ToModel() *models.Identity {
	method := c.AuthMethod
	if !method.IsValid() {
		method = enums.AuthMethodPassword
	}

	return &models.Identity{
		ID:                    uuid.New(),
		Name:                  strings.TrimSpace(c.Name),
		Email:                 NormalizeEmail(c.Email),
		PasswordHash:          c.PasswordHash,
		OTPCode:               c.OTPCode,
		OTPExpiry:             c.OTPExpiry,
		IdentityProviderID:    c.IdentityProviderID,
		IdentityProviderEmail: c.IdentityProviderEmail,
		AvatarURL:             c.AvatarURL,
		AuthMethod:            method,
	}
}
