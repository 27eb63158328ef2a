package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByFolderID filters notes by folder. A nil folder means unfiled notes.
type ByFolderID struct {
	FolderID *uuid.UUID
}

func (s ByFolderID) Apply(db *gorm.DB) *gorm.DB {
	if s.FolderID == nil {
		return db.Where("folder_id IS NULL")
	}
	return db.Where("folder_id = ?", s.FolderID)
}

type ByFolderIDs struct {
	FolderIDs []uuid.UUID
}

func (s ByFolderIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("folder_id IN ?", s.FolderIDs)
}

// ByTitle filters notes by exact title.
type ByTitle struct {
	Title string
}

func (s ByTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title = ?", s.Title)
}
