package foldertree

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func folderAt(name string, parent *uuid.UUID, offset time.Duration) Folder {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return Folder{
		ID:        uuid.New(),
		Name:      name,
		ParentID:  parent,
		CreatedAt: base.Add(offset),
	}
}

func TestChildrenOfFiltersAndOrders(t *testing.T) {
	math := folderAt("Math", nil, 0)
	history := folderAt("History", nil, time.Minute)
	algebra := folderAt("Algebra", &math.ID, 3*time.Minute)
	calculus := folderAt("Calculus", &math.ID, 2*time.Minute)

	folders := []Folder{algebra, history, calculus, math}

	roots := ChildrenOf(folders, nil)
	require.Len(t, roots, 2)
	assert.Equal(t, "Math", roots[0].Name)
	assert.Equal(t, "History", roots[1].Name)

	children := ChildrenOf(folders, &math.ID)
	require.Len(t, children, 2)
	// Creation-time ascending, not input order.
	assert.Equal(t, "Calculus", children[0].Name)
	assert.Equal(t, "Algebra", children[1].Name)

	assert.Empty(t, ChildrenOf(folders, &history.ID))
}

func TestBuildNestsSubfolders(t *testing.T) {
	math := folderAt("Math", nil, 0)
	algebra := folderAt("Algebra", &math.ID, time.Minute)

	tree, err := Build([]Folder{math, algebra})
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "Math", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Algebra", tree[0].Children[0].Name)
	assert.Empty(t, tree[0].Children[0].Children)
}

func TestBuildExcludesDanglingSubtree(t *testing.T) {
	root := folderAt("Root", nil, 0)
	missing := uuid.New()
	orphan := folderAt("Orphan", &missing, time.Minute)
	orphanChild := folderAt("OrphanChild", &orphan.ID, 2*time.Minute)

	tree, err := Build([]Folder{root, orphan, orphanChild})
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "Root", tree[0].Name)
	assert.Empty(t, tree[0].Children)
}

func TestBuildDetectsCycle(t *testing.T) {
	a := folderAt("A", nil, 0)
	b := folderAt("B", nil, time.Minute)
	a.ParentID = &b.ID
	b.ParentID = &a.ID

	_, err := Build([]Folder{a, b})
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestDescendantsCoversSubtreeOnly(t *testing.T) {
	math := folderAt("Math", nil, 0)
	algebra := folderAt("Algebra", &math.ID, time.Minute)
	linear := folderAt("Linear", &algebra.ID, 2*time.Minute)
	history := folderAt("History", nil, 3*time.Minute)

	folders := []Folder{math, algebra, linear, history}

	ids := Descendants(folders, math.ID)
	assert.ElementsMatch(t, []uuid.UUID{algebra.ID, linear.ID}, ids)

	assert.Empty(t, Descendants(folders, history.ID))
}

func TestDescendantsTerminatesOnCorruptInput(t *testing.T) {
	a := folderAt("A", nil, 0)
	b := folderAt("B", &a.ID, time.Minute)
	// Corrupt: a also claims b as parent.
	a.ParentID = &b.ID

	ids := Descendants([]Folder{a, b}, a.ID)
	assert.ElementsMatch(t, []uuid.UUID{b.ID}, ids)
}
