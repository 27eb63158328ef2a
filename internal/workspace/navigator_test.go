package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cat-cards-be/internal/dto"
)

type fakeLister struct {
	mu    sync.Mutex
	notes map[uuid.UUID][]dto.NoteResponse
	err   error
	calls int

	// When set, ListByFolder blocks until the gate for the folder is closed.
	gates map[uuid.UUID]chan struct{}
}

func newFakeLister() *fakeLister {
	return &fakeLister{
		notes: make(map[uuid.UUID][]dto.NoteResponse),
		gates: make(map[uuid.UUID]chan struct{}),
	}
}

func (f *fakeLister) ListByFolder(ctx context.Context, userID uuid.UUID, folderID *uuid.UUID) ([]dto.NoteResponse, error) {
	f.mu.Lock()
	f.calls++
	var gate chan struct{}
	if folderID != nil {
		gate = f.gates[*folderID]
	}
	err := f.err
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if folderID == nil {
		return nil, nil
	}
	return f.notes[*folderID], nil
}

func note(title string) dto.NoteResponse {
	return dto.NoteResponse{Id: uuid.New(), Title: title}
}

func TestNavigatorSelectLoadsFolderNotes(t *testing.T) {
	lister := newFakeLister()
	folderID := uuid.New()
	lister.notes[folderID] = []dto.NoteResponse{note("alpha"), note("beta")}

	nav := NewNavigator(uuid.New(), lister)

	snap, applied, err := nav.Select(context.Background(), &folderID)
	require.NoError(t, err)
	assert.True(t, applied)
	require.NotNil(t, snap.SelectedFolderID)
	assert.Equal(t, folderID, *snap.SelectedFolderID)
	require.Len(t, snap.Notes, 2)
	assert.Equal(t, "alpha", snap.Notes[0].Title)
	assert.False(t, snap.Loading)
}

func TestNavigatorNilSelectionClearsWithoutFetching(t *testing.T) {
	lister := newFakeLister()
	folderID := uuid.New()
	lister.notes[folderID] = []dto.NoteResponse{note("alpha")}

	nav := NewNavigator(uuid.New(), lister)
	_, _, err := nav.Select(context.Background(), &folderID)
	require.NoError(t, err)

	snap, applied, err := nav.Select(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Nil(t, snap.SelectedFolderID)
	assert.Empty(t, snap.Notes)
	assert.False(t, snap.Loading)

	lister.mu.Lock()
	calls := lister.calls
	lister.mu.Unlock()
	assert.Equal(t, 1, calls, "clearing the selection must not query")
}

func TestNavigatorRefreshOfEmptySelectionSkipsQuery(t *testing.T) {
	lister := newFakeLister()
	nav := NewNavigator(uuid.New(), lister)

	snap, applied, err := nav.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Nil(t, snap.SelectedFolderID)
	assert.Empty(t, snap.Notes)

	lister.mu.Lock()
	calls := lister.calls
	lister.mu.Unlock()
	assert.Zero(t, calls)
}

func TestNavigatorDiscardsStaleFetch(t *testing.T) {
	lister := newFakeLister()
	slowID := uuid.New()
	fastID := uuid.New()
	lister.notes[slowID] = []dto.NoteResponse{note("stale")}
	lister.notes[fastID] = []dto.NoteResponse{note("fresh")}

	gate := make(chan struct{})
	lister.gates[slowID] = gate

	nav := NewNavigator(uuid.New(), lister)

	type result struct {
		snap    Snapshot
		applied bool
	}
	slowDone := make(chan result)
	go func() {
		snap, applied, _ := nav.Select(context.Background(), &slowID)
		slowDone <- result{snap, applied}
	}()

	// Wait until the slow fetch is in flight before switching folders.
	for nav.Snapshot().SelectedFolderID == nil {
		time.Sleep(time.Millisecond)
	}

	snap, applied, err := nav.Select(context.Background(), &fastID)
	require.NoError(t, err)
	assert.True(t, applied)
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, "fresh", snap.Notes[0].Title)

	// Let the slow fetch finish; its result must be discarded.
	close(gate)
	slow := <-slowDone
	assert.False(t, slow.applied)

	final := nav.Snapshot()
	require.NotNil(t, final.SelectedFolderID)
	assert.Equal(t, fastID, *final.SelectedFolderID)
	require.Len(t, final.Notes, 1)
	assert.Equal(t, "fresh", final.Notes[0].Title)
}

func TestNavigatorFetchErrorClearsNotes(t *testing.T) {
	lister := newFakeLister()
	folderID := uuid.New()
	lister.err = errors.New("db down")

	nav := NewNavigator(uuid.New(), lister)

	snap, applied, err := nav.Select(context.Background(), &folderID)
	assert.Error(t, err)
	assert.True(t, applied)
	assert.Empty(t, snap.Notes)
	assert.False(t, snap.Loading)
}

func TestNavigatorRefreshReloadsCurrentSelection(t *testing.T) {
	lister := newFakeLister()
	folderID := uuid.New()
	lister.notes[folderID] = []dto.NoteResponse{note("v1")}

	nav := NewNavigator(uuid.New(), lister)
	_, _, err := nav.Select(context.Background(), &folderID)
	require.NoError(t, err)

	lister.mu.Lock()
	lister.notes[folderID] = []dto.NoteResponse{note("v1"), note("v2")}
	lister.mu.Unlock()

	snap, applied, err := nav.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Len(t, snap.Notes, 2)
}

func TestSessionStoreReturnsSameNavigator(t *testing.T) {
	store := NewSessionStore(newFakeLister())
	userID := uuid.New()

	first := store.Get("session-1", userID)
	second := store.Get("session-1", userID)
	assert.Same(t, first, second)

	other := store.Get("session-2", userID)
	assert.NotSame(t, first, other)

	store.Delete("session-1")
	replaced := store.Get("session-1", userID)
	assert.NotSame(t, first, replaced)
}
