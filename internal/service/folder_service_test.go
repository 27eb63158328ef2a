package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cat-cards-be/internal/dto"
	"cat-cards-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func seedFolder(repo *fakeFolderRepo, userId uuid.UUID, name string, parentId *uuid.UUID, at time.Time) uuid.UUID {
	id := uuid.New()
	repo.folders = append(repo.folders, &entity.Folder{
		Id:        id,
		Name:      name,
		ParentId:  parentId,
		UserId:    userId,
		CreatedAt: at,
	})
	return id
}

func seedNote(repo *fakeNoteRepo, userId uuid.UUID, title string, folderId *uuid.UUID, fileURL *string, at time.Time) uuid.UUID {
	id := uuid.New()
	repo.notes = append(repo.notes, &entity.Note{
		Id:        id,
		Title:     title,
		FolderId:  folderId,
		FileURL:   fileURL,
		UserId:    userId,
		CreatedAt: at,
	})
	return id
}

func TestCreateFolderRejectsEmptyName(t *testing.T) {
	factory := newFakeFactory()
	svc := NewFolderService(factory, &fakePublisher{}, nil)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateFolderRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrFolderNameEmpty)
}

func TestCreateFolderRejectsUnknownParent(t *testing.T) {
	factory := newFakeFactory()
	svc := NewFolderService(factory, &fakePublisher{}, nil)

	parentId := uuid.New()
	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateFolderRequest{
		Name:     "Math",
		ParentId: &parentId,
	})
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestCreateFolderTrimsName(t *testing.T) {
	factory := newFakeFactory()
	svc := NewFolderService(factory, &fakePublisher{}, nil)
	userId := uuid.New()

	resp, err := svc.Create(context.Background(), userId, &dto.CreateFolderRequest{Name: "  School  "})
	assert.NoError(t, err)
	assert.NotNil(t, resp)

	stored := factory.uow.folders.folders[0]
	assert.Equal(t, "School", stored.Name)
	assert.Equal(t, userId, stored.UserId)
}

func TestTreeNestsChildrenUnderParents(t *testing.T) {
	factory := newFakeFactory()
	svc := NewFolderService(factory, &fakePublisher{}, nil)
	userId := uuid.New()
	now := time.Now()

	school := seedFolder(factory.uow.folders, userId, "School", nil, now)
	math := seedFolder(factory.uow.folders, userId, "Math", &school, now.Add(time.Second))
	seedFolder(factory.uow.folders, userId, "Algebra", &math, now.Add(2*time.Second))
	seedFolder(factory.uow.folders, userId, "Personal", nil, now.Add(3*time.Second))

	roots, err := svc.Tree(context.Background(), userId)
	assert.NoError(t, err)
	assert.Len(t, roots, 2)
	assert.Equal(t, "School", roots[0].Name)
	assert.Len(t, roots[0].Children, 1)
	assert.Equal(t, "Math", roots[0].Children[0].Name)
	assert.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "Algebra", roots[0].Children[0].Children[0].Name)
	assert.Empty(t, roots[1].Children)
}

func TestMoveFolderIntoItself(t *testing.T) {
	factory := newFakeFactory()
	svc := NewFolderService(factory, &fakePublisher{}, nil)
	userId := uuid.New()

	id := seedFolder(factory.uow.folders, userId, "School", nil, time.Now())

	_, err := svc.Move(context.Background(), userId, &dto.MoveFolderRequest{Id: id, ParentId: &id})
	assert.ErrorIs(t, err, ErrMoveIntoDescendant)
}

func TestMoveFolderIntoOwnDescendant(t *testing.T) {
	factory := newFakeFactory()
	svc := NewFolderService(factory, &fakePublisher{}, nil)
	userId := uuid.New()
	now := time.Now()

	school := seedFolder(factory.uow.folders, userId, "School", nil, now)
	math := seedFolder(factory.uow.folders, userId, "Math", &school, now)
	algebra := seedFolder(factory.uow.folders, userId, "Algebra", &math, now)

	_, err := svc.Move(context.Background(), userId, &dto.MoveFolderRequest{Id: school, ParentId: &algebra})
	assert.ErrorIs(t, err, ErrMoveIntoDescendant)
}

func TestMoveFolderToRoot(t *testing.T) {
	factory := newFakeFactory()
	svc := NewFolderService(factory, &fakePublisher{}, nil)
	userId := uuid.New()
	now := time.Now()

	school := seedFolder(factory.uow.folders, userId, "School", nil, now)
	math := seedFolder(factory.uow.folders, userId, "Math", &school, now)

	resp, err := svc.Move(context.Background(), userId, &dto.MoveFolderRequest{Id: math, ParentId: nil})
	assert.NoError(t, err)
	assert.NotNil(t, resp)

	for _, f := range factory.uow.folders.folders {
		if f.Id == math {
			assert.Nil(t, f.ParentId)
		}
	}
}

func TestDeleteFolderCascadesSubtreeAndNotes(t *testing.T) {
	factory := newFakeFactory()
	publisher := &fakePublisher{}
	svc := NewFolderService(factory, publisher, nil)
	userId := uuid.New()
	now := time.Now()

	school := seedFolder(factory.uow.folders, userId, "School", nil, now)
	math := seedFolder(factory.uow.folders, userId, "Math", &school, now)
	keep := seedFolder(factory.uow.folders, userId, "Personal", nil, now)

	blobPath := "uploads/homework.pdf"
	seedNote(factory.uow.notes, userId, "Syllabus", &school, nil, now)
	seedNote(factory.uow.notes, userId, "Homework", &math, &blobPath, now)
	kept := seedNote(factory.uow.notes, userId, "Journal", &keep, nil, now)
	unfiled := seedNote(factory.uow.notes, userId, "Scratchpad", nil, nil, now)

	err := svc.Delete(context.Background(), userId, school)
	assert.NoError(t, err)

	assert.Len(t, factory.uow.folders.folders, 1)
	assert.Equal(t, keep, factory.uow.folders.folders[0].Id)

	remaining := make(map[uuid.UUID]bool)
	for _, n := range factory.uow.notes.notes {
		remaining[n.Id] = true
	}
	assert.Len(t, remaining, 2)
	assert.True(t, remaining[kept])
	assert.True(t, remaining[unfiled])

	// The file-backed note's blob goes to the async cleanup queue.
	assert.Len(t, publisher.payloads, 1)
	var msg dto.PublishCleanupMessage
	assert.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
	assert.Equal(t, []string{blobPath}, msg.Paths)
}

func TestDeleteMissingFolderIsNoop(t *testing.T) {
	factory := newFakeFactory()
	publisher := &fakePublisher{}
	svc := NewFolderService(factory, publisher, nil)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.NoError(t, err)
	assert.Empty(t, publisher.payloads)
}

func TestGetAllGroupsNotesUnderFolders(t *testing.T) {
	factory := newFakeFactory()
	svc := NewFolderService(factory, &fakePublisher{}, nil)
	userId := uuid.New()
	now := time.Now()

	school := seedFolder(factory.uow.folders, userId, "School", nil, now)
	empty := seedFolder(factory.uow.folders, userId, "Personal", nil, now.Add(time.Second))
	seedNote(factory.uow.notes, userId, "Syllabus", &school, nil, now)
	seedNote(factory.uow.notes, userId, "Scratchpad", nil, nil, now)

	resp, err := svc.GetAll(context.Background(), userId)
	assert.NoError(t, err)
	assert.Len(t, resp, 2)

	byId := make(map[uuid.UUID]int)
	for i, f := range resp {
		byId[f.Id] = i
	}
	assert.Len(t, resp[byId[school]].Notes, 1)
	assert.Equal(t, "Syllabus", resp[byId[school]].Notes[0].Title)
	assert.NotNil(t, resp[byId[empty]].Notes)
	assert.Empty(t, resp[byId[empty]].Notes)
}
