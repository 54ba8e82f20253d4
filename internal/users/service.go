package users

import (
	"context"
	"errors"

	"github.com/angelmondragon/notewell-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type identityFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
}

// Service resolves identities for request authorization.
type Service interface {
	Get(ctx context.Context, id string) (*IdentityDTO, error)
}

type service struct {
	repo identityFinder
}

func NewService(repo identityFinder) (Service, error) {
	if repo == nil {
		return nil, errors.New("identity repository required")
	}
	return &service{repo: repo}, nil
}

// Get returns the identity without credentials. Unknown or malformed ids are NotFound.
func (s *service) Get(ctx context.Context, id string) (*IdentityDTO, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	identity, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load identity")
	}
	return FromModel(identity), nil
}
