package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateFolderRequest struct {
	Name     string     `json:"name" validate:"required"`
	ParentId *uuid.UUID `json:"parent_id"`
}

type CreateFolderResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllFolderResponseNote struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	FileURL   *string    `json:"file_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// GetAllFolderResponse is the flat, parent-pointer-encoded listing the
// sidebar tree is rebuilt from.
type GetAllFolderResponse struct {
	Id        uuid.UUID                   `json:"id"`
	Name      string                      `json:"name"`
	ParentId  *uuid.UUID                  `json:"parent_id"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt *time.Time                  `json:"updated_at"`
	Notes     []*GetAllFolderResponseNote `json:"notes"`
}

// FolderTreeNode is a folder with children resolved, as returned by the
// tree endpoint.
type FolderTreeNode struct {
	Id        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	ParentId  *uuid.UUID        `json:"parent_id"`
	CreatedAt time.Time         `json:"created_at"`
	Children  []*FolderTreeNode `json:"children"`
}

type ShowFolderResponse struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentId  *uuid.UUID `json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type UpdateFolderRequest struct {
	Id   uuid.UUID `json:"-"`
	Name string    `json:"name" validate:"required"`
}

type UpdateFolderResponse struct {
	Id uuid.UUID `json:"id"`
}

type MoveFolderRequest struct {
	Id       uuid.UUID  `json:"-"`
	ParentId *uuid.UUID `json:"parent_id"`
}

type MoveFolderResponse struct {
	Id uuid.UUID `json:"id"`
}
