package notes

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/angelmondragon/notewell-backend/pkg/db"
	"github.com/angelmondragon/notewell-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"github.com/angelmondragon/notewell-backend/pkg/types"
	"github.com/angelmondragon/notewell-backend/pkg/validation"
)

const (
	invalidIDMessage = "Invalid note ID format"
	notFoundMessage  = "Note not found"
)

// Service exposes the note operations available to an authenticated owner.
type Service interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]NoteDTO, error)
	Create(ctx context.Context, ownerID uuid.UUID, req CreateNoteRequest) (*NoteDTO, error)
	Get(ctx context.Context, ownerID uuid.UUID, noteID string) (*NoteDTO, error)
	Update(ctx context.Context, ownerID uuid.UUID, noteID string, req UpdateNoteRequest) (*NoteDTO, error)
	Delete(ctx context.Context, ownerID uuid.UUID, noteID string) error
}

type noteRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error)
	Create(ctx context.Context, ownerID uuid.UUID, title, content string) (*models.Note, error)
	FindOwned(ctx context.Context, ownerID uuid.UUID, id string) (*models.Note, error)
	UpdateOwned(ctx context.Context, ownerID uuid.UUID, id string, columns map[string]any) (*models.Note, error)
	DeleteOwned(ctx context.Context, ownerID uuid.UUID, id string) error
}

type service struct {
	repo noteRepository
}

func NewService(repo noteRepository) (Service, error) {
	if repo == nil {
		return nil, errors.New("note repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]NoteDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr(err, "list notes")
	}
	out := make([]NoteDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req CreateNoteRequest) (*NoteDTO, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	note, err := s.repo.Create(ctx, ownerID, req.Title, req.Content)
	if err != nil {
		return nil, storeErr(err, "create note")
	}
	return FromModel(note), nil
}

func (s *service) Get(ctx context.Context, ownerID uuid.UUID, noteID string) (*NoteDTO, error) {
	id, err := ParseNoteID(noteID)
	if err != nil {
		return nil, err
	}
	note, err := s.repo.FindOwned(ctx, ownerID, id)
	if err != nil {
		return nil, storeErr(err, "load note")
	}
	return FromModel(note), nil
}

func (s *service) Update(ctx context.Context, ownerID uuid.UUID, noteID string, req UpdateNoteRequest) (*NoteDTO, error) {
	id, err := ParseNoteID(noteID)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	columns := req.columns()
	if len(columns) == 0 {
		return nil, validation.Failed("At least one of title or content is required", types.Violations{
			"title":   "title or content is required",
			"content": "title or content is required",
		})
	}
	note, err := s.repo.UpdateOwned(ctx, ownerID, id, columns)
	if err != nil {
		return nil, storeErr(err, "update note")
	}
	return FromModel(note), nil
}

func (s *service) Delete(ctx context.Context, ownerID uuid.UUID, noteID string) error {
	id, err := ParseNoteID(noteID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteOwned(ctx, ownerID, id); err != nil {
		return storeErr(err, "delete note")
	}
	return nil
}

// ParseNoteID accepts a 24 character hex ObjectID in any case and returns it lower-cased.
func ParseNoteID(raw string) (string, error) {
	oid, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		return "", validation.Failed(invalidIDMessage, types.Violations{"id": "must be a 24 character hex string"})
	}
	return oid.Hex(), nil
}

func storeErr(err error, msg string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}
