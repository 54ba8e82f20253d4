package users

import (
	"context"
	"time"

	"github.com/angelmondragon/notewell-backend/internal/repo"
	"github.com/angelmondragon/notewell-backend/pkg/db/models"
	"github.com/angelmondragon/notewell-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes identity persistence operations. Lookups return
// gorm.ErrRecordNotFound when nothing matches.
type Repository struct {
	repo.Base
}

// NewRepository constructs an identities repo bound to the provided handle.
func NewRepository(handle repo.Handle) *Repository {
	return &Repository{Base: repo.NewBase(handle)}
}

// Create inserts a new identity and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateIdentityDTO) (*models.Identity, error) {
	conn, err := r.DB(ctx)
	if err != nil {
		return nil, err
	}
	identity := dto.ToModel()
	if err := conn.Create(identity).Error; err != nil {
		return nil, err
	}
	return identity, nil
}

// FindByEmail retrieves the identity matching the normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	return r.first(ctx, "email = ?", NormalizeEmail(email))
}

// FindByID loads an identity by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByProviderID loads the identity linked to an identity-provider subject.
func (r *Repository) FindByProviderID(ctx context.Context, providerID string) (*models.Identity, error) {
	return r.first(ctx, "identity_provider_id = ?", providerID)
}

// SetOTP stores a pending code, replacing any previous one.
func (r *Repository) SetOTP(ctx context.Context, id uuid.UUID, code string, expiry time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{
		"otp_code":    code,
		"otp_expiry":  expiry,
		"auth_method": enums.AuthMethodOTP,
	})
}

// ClearOTP removes the pending code only if it still equals code. It reports
// whether this call cleared it, which makes a code single use under concurrency.
func (r *Repository) ClearOTP(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	conn, err := r.DB(ctx)
	if err != nil {
		return false, err
	}
	res := conn.Model(&models.Identity{}).
		Where("id = ? AND otp_code = ?", id, code).
		Updates(map[string]any{
			"otp_code":   gorm.Expr("NULL"),
			"otp_expiry": gorm.Expr("NULL"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpdateAuthMethod records the method used by the latest successful login.
func (r *Repository) UpdateAuthMethod(ctx context.Context, id uuid.UUID, method enums.AuthMethod) error {
	return r.updateColumns(ctx, id, map[string]any{"auth_method": method})
}

// UpdateProviderProfile refreshes the identity-provider fields on an existing identity.
func (r *Repository) UpdateProviderProfile(ctx context.Context, id uuid.UUID, update ProviderProfileUpdate) error {
	columns := map[string]any{
		"name":                    update.Name,
		"identity_provider_id":    update.IdentityProviderID,
		"identity_provider_email": update.IdentityProviderEmail,
		"auth_method":             enums.AuthMethodIdentityProvider,
	}
	if update.AvatarURL != nil {
		columns["avatar_url"] = *update.AvatarURL
	}
	return r.updateColumns(ctx, id, columns)
}

func (r *Repository) first(ctx context.Context, query string, args ...any) (*models.Identity, error) {
	conn, err := r.DB(ctx)
	if err != nil {
		return nil, err
	}
	var identity models.Identity
	if err := conn.Where(query, args...).First(&identity).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *Repository) updateColumns(ctx context.Context, id uuid.UUID, columns map[string]any) error {
	conn, err := r.DB(ctx)
	if err != nil {
		return err
	}
	res := conn.Model(&models.Identity{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
