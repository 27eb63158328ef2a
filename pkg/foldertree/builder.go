// Package foldertree assembles a nested folder hierarchy from the flat,
// parent-pointer-encoded rows the folders table stores. Everything here is a
// pure projection over the input slice: callers rebuild the tree per request
// instead of maintaining it incrementally.
package foldertree

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ErrCycleDetected reports a parent chain that loops back on itself. The
// folders table should never contain one (a folder can only be created under
// an already-existing parent), so hitting this means the stored hierarchy is
// corrupt and rendering it would recurse forever.
var ErrCycleDetected = errors.New("folder hierarchy contains a cycle")

// Folder is the flat record the projections operate on.
type Folder struct {
	ID        uuid.UUID
	Name      string
	ParentID  *uuid.UUID
	CreatedAt time.Time
}

// Node is a folder with its children resolved.
type Node struct {
	Folder
	Children []*Node
}

// ChildrenOf returns exactly the folders whose parent matches parentID
// (nil = root level), ordered by ascending creation time.
func ChildrenOf(folders []Folder, parentID *uuid.UUID) []Folder {
	children := make([]Folder, 0)
	for _, f := range folders {
		if sameParent(f.ParentID, parentID) {
			children = append(children, f)
		}
	}
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].CreatedAt.Before(children[j].CreatedAt)
	})
	return children
}

// Build assembles the nested tree reachable from the root level.
//
// A folder whose parent is absent from the input (a dangling reference left
// by a deleted parent) is unreachable from the roots and is silently excluded
// together with its subtree. A folder whose parent chain loops is a data
// integrity error and aborts the build.
func Build(folders []Folder) ([]*Node, error) {
	byID := make(map[uuid.UUID]Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	visited := make(map[uuid.UUID]bool, len(folders))
	roots := attach(folders, nil, visited)

	// Everything not reached from a root is either dangling (fine) or part
	// of a cycle (not fine). Walking the parent chain tells them apart.
	for _, f := range folders {
		if visited[f.ID] {
			continue
		}
		if err := classifyUnreachable(f, byID); err != nil {
			return nil, err
		}
	}

	return roots, nil
}

// Descendants returns the ids of the subtree rooted at id, excluding id
// itself. It never loops even on corrupt input.
func Descendants(folders []Folder, id uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	seen := map[uuid.UUID]bool{id: true}

	frontier := []uuid.UUID{id}
	for len(frontier) > 0 {
		next := make([]uuid.UUID, 0)
		for _, parent := range frontier {
			p := parent
			for _, child := range ChildrenOf(folders, &p) {
				if seen[child.ID] {
					continue
				}
				seen[child.ID] = true
				ids = append(ids, child.ID)
				next = append(next, child.ID)
			}
		}
		frontier = next
	}

	return ids
}

func attach(folders []Folder, parentID *uuid.UUID, visited map[uuid.UUID]bool) []*Node {
	children := ChildrenOf(folders, parentID)
	nodes := make([]*Node, 0, len(children))
	for _, child := range children {
		visited[child.ID] = true
		id := child.ID
		nodes = append(nodes, &Node{
			Folder:   child,
			Children: attach(folders, &id, visited),
		})
	}
	return nodes
}

func classifyUnreachable(f Folder, byID map[uuid.UUID]Folder) error {
	seen := map[uuid.UUID]bool{}
	cur := f
	for {
		if seen[cur.ID] {
			return ErrCycleDetected
		}
		seen[cur.ID] = true

		if cur.ParentID == nil {
			// Reachable after all; attach already covered it.
			return nil
		}
		parent, ok := byID[*cur.ParentID]
		if !ok {
			// Dangling reference: excluded, not an error.
			return nil
		}
		cur = parent
	}
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
