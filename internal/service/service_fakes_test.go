package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"cat-cards-be/internal/entity"
	"cat-cards-be/internal/repository/contract"
	"cat-cards-be/internal/repository/specification"
	"cat-cards-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory repositories interpreting the same specifications the GORM
// implementations translate to SQL.

type fakeFolderRepo struct {
	folders []*entity.Folder
}

func matchFolder(f *entity.Folder, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if f.Id != sp.ID {
				return false
			}
		case specification.UserOwnedBy:
			if f.UserId != sp.UserID {
				return false
			}
		case specification.ByParentID:
			if sp.ParentID == nil {
				if f.ParentId != nil {
					return false
				}
			} else if f.ParentId == nil || *f.ParentId != *sp.ParentID {
				return false
			}
		}
	}
	return true
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *entity.Folder) error {
	cp := *folder
	r.folders = append(r.folders, &cp)
	return nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *entity.Folder) error {
	for i, f := range r.folders {
		if f.Id == folder.Id {
			cp := *folder
			r.folders[i] = &cp
			return nil
		}
	}
	return errors.New("folder not found")
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, f := range r.folders {
		if f.Id == id {
			r.folders = append(r.folders[:i], r.folders[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeFolderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Folder, error) {
	for _, f := range r.folders {
		if matchFolder(f, specs) {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFolderRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Folder, error) {
	var out []*entity.Folder
	for _, f := range r.folders {
		if matchFolder(f, specs) {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeFolderRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeNoteRepo struct {
	notes     []*entity.Note
	createErr error
}

func matchNote(n *entity.Note, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if n.Id != sp.ID {
				return false
			}
		case specification.UserOwnedBy:
			if n.UserId != sp.UserID {
				return false
			}
		case specification.ByFolderID:
			if sp.FolderID == nil {
				if n.FolderId != nil {
					return false
				}
			} else if n.FolderId == nil || *n.FolderId != *sp.FolderID {
				return false
			}
		case specification.ByFolderIDs:
			if n.FolderId == nil {
				return false
			}
			found := false
			for _, id := range sp.FolderIDs {
				if *n.FolderId == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case specification.ByTitle:
			if n.Title != sp.Title {
				return false
			}
		}
	}
	return true
}

func (r *fakeNoteRepo) Create(ctx context.Context, note *entity.Note) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *note
	r.notes = append(r.notes, &cp)
	return nil
}

func (r *fakeNoteRepo) Update(ctx context.Context, note *entity.Note) error {
	for i, n := range r.notes {
		if n.Id == note.Id {
			cp := *note
			r.notes[i] = &cp
			return nil
		}
	}
	return errors.New("note not found")
}

func (r *fakeNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, n := range r.notes {
		if n.Id == id {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	for _, n := range r.notes {
		if matchNote(n, specs) {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var out []*entity.Note
	for _, n := range r.notes {
		if matchNote(n, specs) {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeUow struct {
	folders *fakeFolderRepo
	notes   *fakeNoteRepo
	users   contract.UserRepository
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository     { return u.users }
func (u *fakeUow) FolderRepository() contract.FolderRepository { return u.folders }
func (u *fakeUow) NoteRepository() contract.NoteRepository     { return u.notes }

type fakeFactory struct {
	uow *fakeUow
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		uow: &fakeUow{
			folders: &fakeFolderRepo{},
			notes:   &fakeNoteRepo{},
		},
	}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type fakeBlobStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobStorage() *fakeBlobStorage {
	return &fakeBlobStorage{objects: make(map[string][]byte)}
}

func (s *fakeBlobStorage) Save(ctx context.Context, objectPath string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectPath] = data
	return objectPath, nil
}

func (s *fakeBlobStorage) Open(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectPath]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeBlobStorage) Remove(ctx context.Context, objectPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectPath)
	return nil
}
