package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note is either a text note (Content) or an uploaded file (FileURL holds
// the storage path). FolderId nil means unfiled.
type Note struct {
	Id        uuid.UUID
	Title     string
	Content   string
	FileURL   *string
	FolderId  *uuid.UUID
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
