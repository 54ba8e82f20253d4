package notes

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"gorm.io/gorm"

	"github.com/angelmondragon/notewell-backend/internal/repo"
	"github.com/angelmondragon/notewell-backend/pkg/db/models"
)

// Repository persists notes. Every lookup is scoped by owner, so a note owned
// by someone else is reported as gorm.ErrRecordNotFound.
type Repository struct {
	repo.Base
}

func NewRepository(handle repo.Handle) *Repository {
	return &Repository{Base: repo.NewBase(handle)}
}

// ListByOwner returns the owner's notes, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error) {
	conn, err := r.DB(ctx)
	if err != nil {
		return nil, err
	}
	var rows []models.Note
	err = conn.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create assigns a fresh ObjectID hex id and inserts the note.
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, title, content string) (*models.Note, error) {
	conn, err := r.DB(ctx)
	if err != nil {
		return nil, err
	}
	note := &models.Note{
		ID:      bson.NewObjectID().Hex(),
		OwnerID: ownerID,
		Title:   title,
		Content: content,
	}
	if err := conn.Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (r *Repository) FindOwned(ctx context.Context, ownerID uuid.UUID, id string) (*models.Note, error) {
	conn, err := r.DB(ctx)
	if err != nil {
		return nil, err
	}
	var note models.Note
	if err := conn.Where("id = ? AND owner_id = ?", id, ownerID).First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateOwned applies columns to the owned note and returns the stored result.
func (r *Repository) UpdateOwned(ctx context.Context, ownerID uuid.UUID, id string, columns map[string]any) (*models.Note, error) {
	conn, err := r.DB(ctx)
	if err != nil {
		return nil, err
	}
	var note models.Note
	err = conn.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Note{}).Where("id = ? AND owner_id = ?", id, ownerID).Updates(columns)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&note).Error
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *Repository) DeleteOwned(ctx context.Context, ownerID uuid.UUID, id string) error {
	conn, err := r.DB(ctx)
	if err != nil {
		return err
	}
	res := conn.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
