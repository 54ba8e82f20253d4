package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/notewell-backend/pkg/enums"
)

// Identity is an account that can authenticate by password, emailed code or identity provider.
type Identity struct {
	ID                    uuid.UUID        `gorm:"primaryKey"`
	Name                  string           `gorm:"column:name;not null"`
	Email                 string           `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash          *string          `gorm:"column:password_hash"`
	OTPCode               *string          `gorm:"column:otp_code;size:6"`
	OTPExpiry             *time.Time       `gorm:"column:otp_expiry"`
	IdentityProviderID    *string          `gorm:"column:identity_provider_id;uniqueIndex"`
	IdentityProviderEmail *string          `gorm:"column:identity_provider_email"`
	AvatarURL             *string          `gorm:"column:avatar_url"`
	AuthMethod            enums.AuthMethod `gorm:"column:auth_method;not null;default:password"`
	CreatedAt             time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Identity) TableName() string {
	return "identities"
}
