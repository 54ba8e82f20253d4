package models

import (
	"time"

	"github.com/google/uuid"
)

// Note is a titled text owned by exactly one identity.
type Note struct {
	ID        string    `gorm:"primaryKey;size:24"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;not null;index:idx_notes_owner_created,priority:1"`
	Title     string    `gorm:"column:title;not null;size:100"`
	Content   string    `gorm:"column:content;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_notes_owner_created,priority:2,sort:desc"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
