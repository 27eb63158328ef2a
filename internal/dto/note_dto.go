package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title    string     `json:"title" validate:"required"`
	Content  string     `json:"content"`
	FolderId *uuid.UUID `json:"folder_id"`
}

type CreateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

// BreadcrumbItem is one folder in the ancestry path from root to the
// note's folder, for deep linking and sidebar auto-expand.
type BreadcrumbItem struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type NoteResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	FileURL   *string    `json:"file_url,omitempty"`
	FolderId  *uuid.UUID `json:"folder_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ShowNoteResponse struct {
	NoteResponse
	Breadcrumb []BreadcrumbItem `json:"breadcrumb"`
}

type UpdateNoteRequest struct {
	Id      uuid.UUID `json:"-"`
	Title   string    `json:"title" validate:"required"`
	Content string    `json:"content"`
}

type UpdateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type MoveNoteRequest struct {
	Id       uuid.UUID  `json:"-"`
	FolderId *uuid.UUID `json:"folder_id"`
}

type MoveNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type UploadNoteResponse struct {
	Id      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	FileURL string    `json:"file_url"`
}
