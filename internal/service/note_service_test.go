package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"cat-cards-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateNoteRejectsEmptyTitle(t *testing.T) {
	factory := newFakeFactory()
	svc := NewNoteService(factory, &fakePublisher{}, newFakeBlobStorage(), nil)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateNoteRequest{Title: "  "})
	assert.ErrorIs(t, err, ErrNoteTitleEmpty)
}

func TestCreateNoteRejectsUnknownFolder(t *testing.T) {
	factory := newFakeFactory()
	svc := NewNoteService(factory, &fakePublisher{}, newFakeBlobStorage(), nil)

	folderId := uuid.New()
	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateNoteRequest{
		Title:    "Homework",
		FolderId: &folderId,
	})
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestShowNoteBuildsBreadcrumb(t *testing.T) {
	factory := newFakeFactory()
	svc := NewNoteService(factory, &fakePublisher{}, newFakeBlobStorage(), nil)
	userId := uuid.New()
	now := time.Now()

	school := seedFolder(factory.uow.folders, userId, "School", nil, now)
	math := seedFolder(factory.uow.folders, userId, "Math", &school, now)
	algebra := seedFolder(factory.uow.folders, userId, "Algebra", &math, now)
	noteId := seedNote(factory.uow.notes, userId, "Quadratics", &algebra, nil, now)

	resp, err := svc.Show(context.Background(), userId, noteId)
	assert.NoError(t, err)
	assert.NotNil(t, resp)

	names := make([]string, 0, len(resp.Breadcrumb))
	for _, item := range resp.Breadcrumb {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"School", "Math", "Algebra"}, names)
}

func TestShowUnfiledNoteHasEmptyBreadcrumb(t *testing.T) {
	factory := newFakeFactory()
	svc := NewNoteService(factory, &fakePublisher{}, newFakeBlobStorage(), nil)
	userId := uuid.New()

	noteId := seedNote(factory.uow.notes, userId, "Scratchpad", nil, nil, time.Now())

	resp, err := svc.Show(context.Background(), userId, noteId)
	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Empty(t, resp.Breadcrumb)
}

func TestShowNoteOwnedByAnotherUser(t *testing.T) {
	factory := newFakeFactory()
	svc := NewNoteService(factory, &fakePublisher{}, newFakeBlobStorage(), nil)

	noteId := seedNote(factory.uow.notes, uuid.New(), "Private", nil, nil, time.Now())

	resp, err := svc.Show(context.Background(), uuid.New(), noteId)
	assert.NoError(t, err)
	assert.Nil(t, resp)
}

func TestDeleteNotePublishesBlobCleanup(t *testing.T) {
	factory := newFakeFactory()
	publisher := &fakePublisher{}
	svc := NewNoteService(factory, publisher, newFakeBlobStorage(), nil)
	userId := uuid.New()

	blobPath := "uploads/report.pdf"
	noteId := seedNote(factory.uow.notes, userId, "Report", nil, &blobPath, time.Now())

	err := svc.Delete(context.Background(), userId, noteId)
	assert.NoError(t, err)
	assert.Empty(t, factory.uow.notes.notes)

	assert.Len(t, publisher.payloads, 1)
	var msg dto.PublishCleanupMessage
	assert.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
	assert.Equal(t, []string{blobPath}, msg.Paths)
}

func TestDeleteTextNoteSkipsCleanup(t *testing.T) {
	factory := newFakeFactory()
	publisher := &fakePublisher{}
	svc := NewNoteService(factory, publisher, newFakeBlobStorage(), nil)
	userId := uuid.New()

	noteId := seedNote(factory.uow.notes, userId, "Plain", nil, nil, time.Now())

	err := svc.Delete(context.Background(), userId, noteId)
	assert.NoError(t, err)
	assert.Empty(t, publisher.payloads)
}

func TestUploadSuffixesDuplicateTitles(t *testing.T) {
	factory := newFakeFactory()
	blobs := newFakeBlobStorage()
	svc := NewNoteService(factory, &fakePublisher{}, blobs, nil)
	userId := uuid.New()

	titles := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := svc.Upload(context.Background(), userId, nil, "report.pdf", strings.NewReader("content"))
		assert.NoError(t, err)
		titles = append(titles, resp.Title)
	}

	assert.Equal(t, []string{"report", "report (2)", "report (3)"}, titles)
	assert.NotEmpty(t, blobs.objects)
}

func TestUploadDuplicateTitleInDifferentFolder(t *testing.T) {
	factory := newFakeFactory()
	svc := NewNoteService(factory, &fakePublisher{}, newFakeBlobStorage(), nil)
	userId := uuid.New()

	folder := seedFolder(factory.uow.folders, userId, "School", nil, time.Now())

	first, err := svc.Upload(context.Background(), userId, nil, "report.pdf", strings.NewReader("a"))
	assert.NoError(t, err)
	second, err := svc.Upload(context.Background(), userId, &folder, "report.pdf", strings.NewReader("b"))
	assert.NoError(t, err)

	// Titles only collide within the same folder.
	assert.Equal(t, "report", first.Title)
	assert.Equal(t, "report", second.Title)
}

func TestUploadBlankFilenameFallsBackToUntitled(t *testing.T) {
	factory := newFakeFactory()
	svc := NewNoteService(factory, &fakePublisher{}, newFakeBlobStorage(), nil)

	resp, err := svc.Upload(context.Background(), uuid.New(), nil, ".pdf", strings.NewReader("x"))
	assert.NoError(t, err)
	assert.Equal(t, "untitled", resp.Title)
}

func TestUploadRemovesBlobWhenInsertFails(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.notes.createErr = errors.New("insert failed")
	blobs := newFakeBlobStorage()
	svc := NewNoteService(factory, &fakePublisher{}, blobs, nil)

	_, err := svc.Upload(context.Background(), uuid.New(), nil, "report.pdf", strings.NewReader("content"))
	assert.Error(t, err)

	// The compensating remove keeps the store free of orphaned blobs.
	assert.Empty(t, blobs.objects)
}

func TestMoveNoteToUnfiled(t *testing.T) {
	factory := newFakeFactory()
	svc := NewNoteService(factory, &fakePublisher{}, newFakeBlobStorage(), nil)
	userId := uuid.New()

	folder := seedFolder(factory.uow.folders, userId, "School", nil, time.Now())
	noteId := seedNote(factory.uow.notes, userId, "Syllabus", &folder, nil, time.Now())

	resp, err := svc.MoveNote(context.Background(), userId, &dto.MoveNoteRequest{Id: noteId, FolderId: nil})
	assert.NoError(t, err)
	assert.NotNil(t, resp)

	for _, n := range factory.uow.notes.notes {
		if n.Id == noteId {
			assert.Nil(t, n.FolderId)
		}
	}
}

func TestListByFolderOrdersByCreation(t *testing.T) {
	factory := newFakeFactory()
	svc := NewNoteService(factory, &fakePublisher{}, newFakeBlobStorage(), nil)
	userId := uuid.New()
	now := time.Now()

	folder := seedFolder(factory.uow.folders, userId, "School", nil, now)
	seedNote(factory.uow.notes, userId, "Second", &folder, nil, now.Add(time.Second))
	seedNote(factory.uow.notes, userId, "First", &folder, nil, now)
	seedNote(factory.uow.notes, userId, "Unfiled", nil, nil, now)

	notes, err := svc.ListByFolder(context.Background(), userId, &folder)
	assert.NoError(t, err)
	assert.Len(t, notes, 2)
	assert.Equal(t, "First", notes[0].Title)
	assert.Equal(t, "Second", notes[1].Title)
}
