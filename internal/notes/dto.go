package notes

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/notewell-backend/pkg/db/models"
)

const (
	MaxTitleLength   = 100
	MaxContentLength = 2000
)

// CreateNoteRequest is the body of POST /notes.
type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Content string `json:"content" validate:"required,max=2000"`
}

// UpdateNoteRequest is the body of PUT /notes/{id}. Empty strings count as absent.
type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,max=100"`
	Content *string `json:"content,omitempty" validate:"omitempty,max=2000"`
}

// NoteDTO is the transport shape of a note.
type NoteDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModel(n *models.Note) *NoteDTO {
	if n == nil {
		return nil
	}
	return &NoteDTO{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		OwnerID:   n.OwnerID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (r UpdateNoteRequest) columns() map[string]any {
	cols := map[string]any{}
	if r.Title != nil && *r.Title != "" {
		cols["title"] = *r.Title
	}
	if r.Content != nil && *r.Content != "" {
		cols["content"] = *r.Content
	}
	return cols
}
