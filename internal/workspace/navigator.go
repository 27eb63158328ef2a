package workspace

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"cat-cards-be/internal/dto"
)

// NoteLister loads the notes shown for a folder selection. A nil folder id
// means the unfiled view.
type NoteLister interface {
	ListByFolder(ctx context.Context, userID uuid.UUID, folderID *uuid.UUID) ([]dto.NoteResponse, error)
}

// Snapshot is the current navigation state of one user session.
type Snapshot struct {
	SelectedFolderID *uuid.UUID         `json:"selected_folder_id"`
	Notes            []dto.NoteResponse `json:"notes"`
	Loading          bool               `json:"loading"`
}

// Navigator tracks which folder a session has selected and keeps its note
// list consistent when selections change faster than fetches complete.
// Every Select bumps a token; a fetch result is applied only if its token
// still matches, so a slow response for a previous folder can never
// overwrite the notes of the folder selected after it.
type Navigator struct {
	mu     sync.Mutex
	userID uuid.UUID
	lister NoteLister

	token    uint64
	selected *uuid.UUID
	notes    []dto.NoteResponse
	loading  bool
}

func NewNavigator(userID uuid.UUID, lister NoteLister) *Navigator {
	return &Navigator{
		userID: userID,
		lister: lister,
		notes:  []dto.NoteResponse{},
	}
}

// Select switches the session to the given folder and synchronously fetches
// its notes. A nil folder clears the selection and the note list without
// querying at all. It returns the resulting snapshot and whether the result
// was applied; a result is discarded when a newer Select superseded this one
// while the fetch was in flight.
func (n *Navigator) Select(ctx context.Context, folderID *uuid.UUID) (Snapshot, bool, error) {
	n.mu.Lock()
	n.token++
	n.selected = folderID

	if folderID == nil {
		// Nothing is shown for an empty selection, so there is nothing to
		// fetch and no in-flight result can beat us to the token.
		n.notes = []dto.NoteResponse{}
		n.loading = false
		snap := n.snapshotLocked()
		n.mu.Unlock()
		return snap, true, nil
	}

	token := n.token
	n.loading = true
	n.mu.Unlock()

	notes, err := n.lister.ListByFolder(ctx, n.userID, folderID)

	n.mu.Lock()
	defer n.mu.Unlock()

	if token != n.token {
		// A newer selection won the race.
		return n.snapshotLocked(), false, nil
	}

	n.loading = false
	if err != nil {
		n.notes = []dto.NoteResponse{}
		return n.snapshotLocked(), true, err
	}

	if notes == nil {
		notes = []dto.NoteResponse{}
	}
	n.notes = notes
	return n.snapshotLocked(), true, nil
}

// Refresh re-fetches the notes of the current selection, for example after a
// mutation event. It follows the same token rules as Select.
func (n *Navigator) Refresh(ctx context.Context) (Snapshot, bool, error) {
	n.mu.Lock()
	selected := n.selected
	n.mu.Unlock()
	return n.Select(ctx, selected)
}

// Snapshot returns the current state without triggering a fetch.
func (n *Navigator) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshotLocked()
}

func (n *Navigator) snapshotLocked() Snapshot {
	notes := make([]dto.NoteResponse, len(n.notes))
	copy(notes, n.notes)
	return Snapshot{
		SelectedFolderID: n.selected,
		Notes:            notes,
		Loading:          n.loading,
	}
}
