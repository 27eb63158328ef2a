package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cat-cards-be/internal/dto"
	"cat-cards-be/internal/entity"
	"cat-cards-be/internal/repository/specification"
	"cat-cards-be/internal/repository/unitofwork"
	"cat-cards-be/pkg/events"
	pktNats "cat-cards-be/pkg/nats"
	"cat-cards-be/pkg/storage"

	"github.com/google/uuid"
)

var ErrNoteTitleEmpty = errors.New("note title cannot be empty")

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	MoveNote(ctx context.Context, userId uuid.UUID, req *dto.MoveNoteRequest) (*dto.MoveNoteResponse, error)
	Upload(ctx context.Context, userId uuid.UUID, folderId *uuid.UUID, filename string, file io.Reader) (*dto.UploadNoteResponse, error)
	ListByFolder(ctx context.Context, userId uuid.UUID, folderId *uuid.UUID) ([]dto.NoteResponse, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	blobs            storage.ObjectStorage
	eventPublisher   *pktNats.Publisher
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	blobs storage.ObjectStorage,
	eventPublisher *pktNats.Publisher,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		blobs:            blobs,
		eventPublisher:   eventPublisher,
	}
}

func toNoteResponse(n *entity.Note) dto.NoteResponse {
	return dto.NoteResponse{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		FileURL:   n.FileURL,
		FolderId:  n.FolderId,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrNoteTitleEmpty
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	if req.FolderId != nil {
		folder, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *req.FolderId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return nil, ErrFolderNotFound
		}
	}

	note := entity.Note{
		Id:        uuid.New(),
		Title:     title,
		Content:   req.Content,
		FolderId:  req.FolderId,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	c.publishEvent(ctx, events.TypeNoteCreated, map[string]interface{}{
		"title":   note.Title,
		"note_id": note.Id,
		"user_id": userId,
	})

	return &dto.CreateNoteResponse{Id: note.Id}, nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	breadcrumb, err := c.buildBreadcrumb(ctx, uow, note.FolderId, userId)
	if err != nil {
		return nil, err
	}

	return &dto.ShowNoteResponse{
		NoteResponse: toNoteResponse(note),
		Breadcrumb:   breadcrumb,
	}, nil
}

// buildBreadcrumb walks the folder parent chain to build the ancestry path
// from root to the note's folder. Enables deep linking: the client can render
// breadcrumbs and auto-expand the sidebar tree.
func (c *noteService) buildBreadcrumb(ctx context.Context, uow unitofwork.UnitOfWork, folderId *uuid.UUID, userId uuid.UUID) ([]dto.BreadcrumbItem, error) {
	breadcrumb := []dto.BreadcrumbItem{}
	currentId := folderId

	for currentId != nil {
		folder, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *currentId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			// Orphaned reference or ownership mismatch.
			break
		}

		// Prepend to build root-first order.
		breadcrumb = append([]dto.BreadcrumbItem{{
			Id:   folder.Id,
			Name: folder.Name,
		}}, breadcrumb...)

		currentId = folder.ParentId
	}

	return breadcrumb, nil
}

func (c *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrNoteTitleEmpty
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	now := time.Now()
	note.Title = title
	note.Content = req.Content
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	return &dto.UpdateNoteResponse{Id: note.Id}, nil
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return nil
	}

	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return err
	}

	if note.FileURL != nil {
		payload, _ := json.Marshal(dto.PublishCleanupMessage{Paths: []string{*note.FileURL}})
		if err := c.publisherService.Publish(ctx, payload); err != nil {
			fmt.Printf("[WARN] Failed to publish blob cleanup message: %v\n", err)
		}
	}

	c.publishEvent(ctx, events.TypeNoteDeleted, map[string]interface{}{
		"title":   note.Title,
		"note_id": note.Id,
		"user_id": userId,
	})

	return nil
}

func (c *noteService) MoveNote(ctx context.Context, userId uuid.UUID, req *dto.MoveNoteRequest) (*dto.MoveNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	if req.FolderId != nil {
		folder, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *req.FolderId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return nil, ErrFolderNotFound
		}
	}

	now := time.Now()
	note.FolderId = req.FolderId
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	return &dto.MoveNoteResponse{Id: note.Id}, nil
}

// Upload stores the file blob first and only then inserts the note row. If
// the insert fails the blob is removed again, so the store never accumulates
// objects no note points at.
func (c *noteService) Upload(ctx context.Context, userId uuid.UUID, folderId *uuid.UUID, filename string, file io.Reader) (*dto.UploadNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if folderId != nil {
		folder, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *folderId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return nil, ErrFolderNotFound
		}
	}

	title, err := c.uniqueTitle(ctx, uow, userId, folderId, filename)
	if err != nil {
		return nil, err
	}

	objectPath := storage.ObjectPath(userId, folderId, filename, time.Now())
	storedPath, err := c.blobs.Save(ctx, objectPath, file)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	note := entity.Note{
		Id:        uuid.New(),
		Title:     title,
		FileURL:   &storedPath,
		FolderId:  folderId,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		if removeErr := c.blobs.Remove(ctx, storedPath); removeErr != nil {
			fmt.Printf("[WARN] Failed to remove orphaned blob %s: %v\n", storedPath, removeErr)
		}
		return nil, err
	}

	c.publishEvent(ctx, events.TypeNoteCreated, map[string]interface{}{
		"title":   note.Title,
		"note_id": note.Id,
		"user_id": userId,
	})

	return &dto.UploadNoteResponse{
		Id:      note.Id,
		Title:   note.Title,
		FileURL: storedPath,
	}, nil
}

// uniqueTitle derives a note title from the uploaded filename, suffixing a
// counter when the same name was uploaded to the folder before.
func (c *noteService) uniqueTitle(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, folderId *uuid.UUID, filename string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.TrimSpace(base)
	if base == "" {
		base = "untitled"
	}

	candidate := base
	for i := 2; ; i++ {
		existing, err := uow.NoteRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByFolderID{FolderID: folderId},
			specification.ByTitle{Title: candidate},
		)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s (%d)", base, i)
	}
}

func (c *noteService) ListByFolder(ctx context.Context, userId uuid.UUID, folderId *uuid.UUID) ([]dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByFolderID{FolderID: folderId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	response := make([]dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		response = append(response, toNoteResponse(n))
	}
	return response, nil
}

func (c *noteService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if c.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}
