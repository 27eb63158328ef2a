package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cat-cards-be/internal/dto"
	"cat-cards-be/internal/entity"
	"cat-cards-be/internal/repository/specification"
	"cat-cards-be/internal/repository/unitofwork"
	"cat-cards-be/pkg/events"
	"cat-cards-be/pkg/foldertree"
	pktNats "cat-cards-be/pkg/nats"

	"github.com/google/uuid"
)

var (
	ErrFolderNameEmpty    = errors.New("folder name cannot be empty")
	ErrFolderNotFound     = errors.New("folder not found")
	ErrMoveIntoDescendant = errors.New("cannot move a folder into itself or its own subtree")
)

type IFolderService interface {
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllFolderResponse, error)
	Tree(ctx context.Context, userId uuid.UUID) ([]*dto.FolderTreeNode, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFolderRequest) (*dto.CreateFolderResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowFolderResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateFolderRequest) (*dto.UpdateFolderResponse, error)
	Move(ctx context.Context, userId uuid.UUID, req *dto.MoveFolderRequest) (*dto.MoveFolderResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type folderService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewFolderService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IFolderService {
	return &folderService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func toTreeFolders(folders []*entity.Folder) []foldertree.Folder {
	out := make([]foldertree.Folder, 0, len(folders))
	for _, f := range folders {
		out = append(out, foldertree.Folder{
			ID:        f.Id,
			Name:      f.Name,
			ParentID:  f.ParentId,
			CreatedAt: f.CreatedAt,
		})
	}
	return out
}

func (s *folderService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	folders, err := uow.FolderRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	// Group notes under their folder so the client gets the whole
	// sidebar in one round trip.
	notesByFolder := make(map[uuid.UUID][]*dto.GetAllFolderResponseNote)
	for _, n := range notes {
		if n.FolderId == nil {
			continue
		}
		notesByFolder[*n.FolderId] = append(notesByFolder[*n.FolderId], &dto.GetAllFolderResponseNote{
			Id:        n.Id,
			Title:     n.Title,
			Content:   n.Content,
			FileURL:   n.FileURL,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		})
	}

	response := make([]*dto.GetAllFolderResponse, 0, len(folders))
	for _, f := range folders {
		folderNotes := notesByFolder[f.Id]
		if folderNotes == nil {
			folderNotes = []*dto.GetAllFolderResponseNote{}
		}
		response = append(response, &dto.GetAllFolderResponse{
			Id:        f.Id,
			Name:      f.Name,
			ParentId:  f.ParentId,
			CreatedAt: f.CreatedAt,
			UpdatedAt: f.UpdatedAt,
			Notes:     folderNotes,
		})
	}

	return response, nil
}

func (s *folderService) Tree(ctx context.Context, userId uuid.UUID) ([]*dto.FolderTreeNode, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	folders, err := uow.FolderRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	roots, err := foldertree.Build(toTreeFolders(folders))
	if err != nil {
		return nil, err
	}

	var convert func(nodes []*foldertree.Node) []*dto.FolderTreeNode
	convert = func(nodes []*foldertree.Node) []*dto.FolderTreeNode {
		out := make([]*dto.FolderTreeNode, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, &dto.FolderTreeNode{
				Id:        n.ID,
				Name:      n.Name,
				ParentId:  n.ParentID,
				CreatedAt: n.CreatedAt,
				Children:  convert(n.Children),
			})
		}
		return out
	}

	return convert(roots), nil
}

func (s *folderService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFolderRequest) (*dto.CreateFolderResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrFolderNameEmpty
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.ParentId != nil {
		parent, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *req.ParentId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrFolderNotFound
		}
	}

	folder := entity.Folder{
		Id:        uuid.New(),
		Name:      name,
		ParentId:  req.ParentId,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.FolderRepository().Create(ctx, &folder); err != nil {
		return nil, err
	}

	return &dto.CreateFolderResponse{Id: folder.Id}, nil
}

func (s *folderService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, nil
	}

	return &dto.ShowFolderResponse{
		Id:        folder.Id,
		Name:      folder.Name,
		ParentId:  folder.ParentId,
		CreatedAt: folder.CreatedAt,
		UpdatedAt: folder.UpdatedAt,
	}, nil
}

func (s *folderService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateFolderRequest) (*dto.UpdateFolderResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrFolderNameEmpty
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, nil
	}

	now := time.Now()
	folder.Name = name
	folder.UpdatedAt = &now

	if err := uow.FolderRepository().Update(ctx, folder); err != nil {
		return nil, err
	}

	return &dto.UpdateFolderResponse{Id: folder.Id}, nil
}

func (s *folderService) Move(ctx context.Context, userId uuid.UUID, req *dto.MoveFolderRequest) (*dto.MoveFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, nil
	}

	if req.ParentId != nil {
		if *req.ParentId == folder.Id {
			return nil, ErrMoveIntoDescendant
		}

		parent, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *req.ParentId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrFolderNotFound
		}

		// Reparenting under the folder's own subtree would detach it
		// from the roots and corrupt the hierarchy.
		all, err := uow.FolderRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
		if err != nil {
			return nil, err
		}
		for _, descendantID := range foldertree.Descendants(toTreeFolders(all), folder.Id) {
			if descendantID == *req.ParentId {
				return nil, ErrMoveIntoDescendant
			}
		}
	}

	now := time.Now()
	folder.ParentId = req.ParentId
	folder.UpdatedAt = &now

	if err := uow.FolderRepository().Update(ctx, folder); err != nil {
		return nil, err
	}

	return &dto.MoveFolderResponse{Id: folder.Id}, nil
}

// Delete removes a folder, every folder below it and all notes inside that
// subtree in one transaction. File blobs are cleaned up asynchronously so a
// slow disk never holds the transaction open.
func (s *folderService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if folder == nil {
		return nil
	}

	all, err := uow.FolderRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return err
	}

	folderIDs := append([]uuid.UUID{id}, foldertree.Descendants(toTreeFolders(all), id)...)

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByFolderIDs{FolderIDs: folderIDs},
	)
	if err != nil {
		return err
	}

	var blobPaths []string
	for _, n := range notes {
		if n.FileURL != nil {
			blobPaths = append(blobPaths, *n.FileURL)
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for _, n := range notes {
		if err := uow.NoteRepository().Delete(ctx, n.Id); err != nil {
			return err
		}
	}
	for _, folderID := range folderIDs {
		if err := uow.FolderRepository().Delete(ctx, folderID); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if len(blobPaths) > 0 {
		payload, _ := json.Marshal(dto.PublishCleanupMessage{Paths: blobPaths})
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			fmt.Printf("[WARN] Failed to publish blob cleanup message: %v\n", err)
		}
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeFolderDeleted,
			Data: map[string]interface{}{
				"folder_id":   id,
				"folder_name": folder.Name,
				"user_id":     userId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish FOLDER_DELETED event: %v\n", err)
		}
	}

	return nil
}
