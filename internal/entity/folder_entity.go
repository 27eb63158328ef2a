package entity

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a node in the user's folder hierarchy. ParentId nil means
// root level.
type Folder struct {
	Id        uuid.UUID
	Name      string
	ParentId  *uuid.UUID
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
